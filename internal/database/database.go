// Package database manages the Postgres connection pool and schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jonesrussell/gopress/internal/config"
	"github.com/jonesrussell/gopress/internal/logger"
)

const pingTimeout = 5 * time.Second

// DB wraps the sql.DB connection pool.
type DB struct {
	*sql.DB
	log logger.Logger
}

// New opens a Postgres connection pool and verifies connectivity.
func New(cfg config.DatabaseConfig, log logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("dbname", cfg.DBName),
	)

	return &DB{DB: db, log: log}, nil
}

// Close closes the connection pool.
func (d *DB) Close() error {
	d.log.Info("closing database connection")
	return d.DB.Close()
}
