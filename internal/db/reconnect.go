package db

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/unklstewy/par-scope/pkg/config"
)

const maxReconnectDelay = 60 * time.Second

// ReconnectWithRetry connects with exponential backoff, for the importer
// and other batch tools that should ride out a short database outage.
// maxRetries of 0 retries forever.
func ReconnectWithRetry(cfg config.DatabaseConfig, maxRetries int, initialDelay time.Duration) (*DB, error) {
	delay := initialDelay

	for attempt := 1; ; attempt++ {
		db, err := Connect(cfg)
		if err == nil {
			return db, nil
		}

		if maxRetries > 0 && attempt >= maxRetries {
			return nil, err
		}

		log.Printf("Database connection attempt %d failed: %v (retry in %v)", attempt, err, delay)
		time.Sleep(delay)

		if delay *= 2; delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// HealthCheck reports whether the database is reachable and answering
// queries.
func HealthCheck(db *DB) bool {
	if db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("Health check failed - ping error: %v", err)
		return false
	}

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		log.Printf("Health check failed - query error: %v", err)
		return false
	}
	return one == 1
}

// WithRetry runs a catalog operation, retrying with a linearly growing
// delay when the failure looks like a lost connection. Anything else (bad
// SQL, constraint violations) returns immediately.
func WithRetry(operation func() error, maxRetries int) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !isConnectionError(err.Error()) || attempt >= maxRetries {
			return err
		}

		wait := time.Duration(attempt+1) * time.Second
		log.Printf("Database operation failed (attempt %d/%d): %v (retry in %v)",
			attempt+1, maxRetries+1, err, wait)
		time.Sleep(wait)
	}
}

var connectionErrorPatterns = []string{
	"connection refused",
	"broken pipe",
	"no connection",
	"connection reset",
	"eof",
	"timeout",
}

func isConnectionError(msg string) bool {
	msg = strings.ToLower(msg)
	for _, pattern := range connectionErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
