// Package database owns the postgres connection pool and schema migrations.
package database

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"sebodigital/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// DB represents the database connection pool.
type DB struct {
	SQL *sqlx.DB
}

// New creates a new database connection pool.
func New(cfg config.Config) (*DB, error) {
	log.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("Connecting to database")
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	return &DB{SQL: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db.SQL.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Info().Msg("Database schema up to date")
	return nil
}

// Close gracefully closes the database connection.
func (db *DB) Close() {
	log.Info().Msg("Closing database connection")
	db.SQL.Close()
}
