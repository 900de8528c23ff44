// Package database opens the application database and keeps its schema
// current.
package database

import (
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"saveandplay/internal/config"
	"saveandplay/internal/logger"
	"saveandplay/internal/models"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	driver string
	url    string
}

// NewManager opens the database selected by cfg.DBDriver.
func NewManager(cfg *config.Config) (*Manager, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	switch cfg.DBDriver {
	case DriverPostgres:
		pgURL := PostgresURL(cfg)
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  pgURL,
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		}), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		return &Manager{db: db, driver: DriverPostgres, url: pgURL}, nil

	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath+"?_foreign_keys=on&_busy_timeout=5000"), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying DB: %w", err)
		}
		// Transactions rely on a single writer.
		sqlDB.SetMaxOpenConns(1)

		return &Manager{db: db, driver: DriverSQLite}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// PostgresURL builds the connection URL used by both GORM and migrate.
func PostgresURL(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + cfg.DBPort,
		Path:     "/" + cfg.DBName,
		RawQuery: url.Values{"sslmode": {cfg.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// Migrate brings the schema up to date. Postgres runs the embedded SQL
// migrations; SQLite, used for local runs, is auto-migrated from the models.
func (m *Manager) Migrate() error {
	if m.driver == DriverPostgres {
		return RunMigrations(m.url)
	}

	logger.Get().Info("Auto-migrating sqlite schema...")
	if err := m.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// Driver returns the name of the open driver.
func (m *Manager) Driver() string {
	return m.driver
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
