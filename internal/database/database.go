package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB owns the GORM handle and its connection pool. It is created once at
// startup, passed explicitly to repositories, and closed on shutdown.
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig, logLevel logger.LogLevel) (*DB, error) {
	gormConfig := &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		TranslateError:       true,
		DisableAutomaticPing: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// AutoMigrate creates the transactions table from the model, including its CHECK constraint
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Transaction{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_type_date ON transactions(type, date)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			slog.Warn("failed to create index", "query", query, "error", err)
		}
	}

	return nil
}

// EnsureSchema creates the schema idempotently. SQL migrations are tried
// first; GORM AutoMigrate is the fallback when they are disabled or fail.
func (db *DB) EnsureSchema(cfg config.MigrationConfig) error {
	useAutoMigrate := !cfg.AutoMigrate

	if cfg.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}

		if err := RunMigrations(sqlDB, cfg); err != nil {
			slog.Warn("migration runner failed, falling back to GORM AutoMigrate", "error", err)
			useAutoMigrate = true
		}
	}

	if !cfg.AutoMigrate {
		if err := db.HealthCheck(context.Background()); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
	}

	if useAutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := db.CreateIndexes(); err != nil {
		slog.Warn("failed to create some indexes", "error", err)
	}

	return nil
}

// Initialize opens the pool and makes sure the schema exists
func Initialize(cfg *config.Config) (*DB, error) {
	logLevel := logger.Warn
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	db, err := New(&cfg.Database, logLevel)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(cfg.Migration); err != nil {
		_ = db.Close()
		return nil, err
	}

	slog.Info("database initialized successfully")

	return db, nil
}
