package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

//go:embed migrations.sql
var migrationSQL string

const pingTimeout = 5 * time.Second

// Connect opens a PostgreSQL pool and verifies it with a ping.
func Connect(ctx context.Context, dataSourceName string, logger *logrus.Logger) (*sql.DB, error) {
	logger.Info("Connecting to database...")
	database, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err = database.PingContext(pingCtx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully.")
	return database, nil
}

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, database *sql.DB, logger *logrus.Logger) error {
	if _, err := database.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("failed running migrations: %w", err)
	}
	logger.Info("Database migrations executed successfully")
	return nil
}
