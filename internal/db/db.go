// Package db holds the optional PostgreSQL runway catalog. The catalog
// stores airports and their approach geometry; it never stores track data.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/unklstewy/par-scope/pkg/config"
)

//go:embed schema.sql
var schemaSQL embed.FS

const pingTimeout = 5 * time.Second

// DB wraps a database connection with catalog helpers.
type DB struct {
	*sql.DB
	cfg config.DatabaseConfig
}

// Connect opens a PostgreSQL connection, applies the pool limits from the
// configuration, and verifies reachability with a ping.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", cfg.Username),
		fmt.Sprintf("password=%s", cfg.Password),
		fmt.Sprintf("dbname=%s", cfg.Database),
		fmt.Sprintf("sslmode=%s", cfg.SSLMode),
	}

	sqlDB, err := sql.Open("postgres", strings.Join(parts, " "))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, cfg: cfg}, nil
}

// InitSchema applies the embedded schema. Safe to call on every startup;
// all statements are IF NOT EXISTS.
func (db *DB) InitSchema(ctx context.Context) error {
	schema, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Stats summarizes the catalog contents.
type Stats struct {
	Airports int
	Runways  int
}

// GetStats counts the catalog rows.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM airports), (SELECT COUNT(*) FROM runways)`,
	).Scan(&s.Airports, &s.Runways)
	if err != nil {
		return nil, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	return &s, nil
}
