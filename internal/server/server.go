package server

import (
	"log/slog"
	"net/http"

	"finance-ledger/internal/config"
	"finance-ledger/internal/handlers"
	"finance-ledger/internal/middleware"
	"finance-ledger/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the wired components the HTTP surface is built from
type Dependencies struct {
	Transactions services.TransactionServiceInterface
	Health       handlers.HealthChecker
	RateLimiter  *middleware.IPRateLimiter
	Logger       *slog.Logger
}

// New builds the echo instance with middleware and routes
func New(cfg *config.Config, deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.CustomHTTPErrorHandler
	e.Validator = handlers.NewValidator()

	// /transactions/ and /transactions route the same
	e.Pre(echomw.RemoveTrailingSlash())

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader},
		AllowCredentials: true,
	}))
	if deps.RateLimiter != nil {
		e.Use(middleware.RateLimiter(deps.RateLimiter))
	}

	registerRoutes(e, deps)
	return e
}

func registerRoutes(e *echo.Echo, deps Dependencies) {
	transactions := handlers.NewTransactionHandler(deps.Transactions, deps.Logger)
	health := handlers.NewHealthCheckHandler(deps.Health)

	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/summary", transactions.GetSummary)

	g := e.Group("/transactions")
	g.POST("", transactions.CreateTransaction)
	g.GET("", transactions.ListTransactions)
	// static segment wins over :id
	g.GET("/summary", transactions.GetSummary)
	g.GET("/:id", transactions.GetTransaction)
	g.PUT("/:id", transactions.UpdateTransaction)
	g.DELETE("/:id", transactions.DeleteTransaction)
}
