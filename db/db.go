package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// DB holds the database connection used by the postgres session store
var DB *sql.DB

var sessionSchema = []string{
	`CREATE TABLE IF NOT EXISTS storefront_sessions (
		id         TEXT PRIMARY KEY,
		data       JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS storefront_sessions_expires_at_idx ON storefront_sessions (expires_at)`,
}

// ConnString returns databaseURL when set, otherwise builds one from DB_* variables
func ConnString(databaseURL string) (string, error) {
	if databaseURL != "" {
		return databaseURL, nil
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode), nil
}

// InitDB opens and pings the database connection
func InitDB(ctx context.Context, databaseURL string) error {
	connStr, err := ConnString(databaseURL)
	if err != nil {
		return err
	}

	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✓ Database connection established successfully")
	return nil
}

// EnsureSessionSchema creates the session table when missing
func EnsureSessionSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range sessionSchema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create session schema: %w", err)
		}
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
