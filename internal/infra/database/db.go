package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 1 * time.Minute

	// Startup probe: fixed attempts, fixed delay, then give up.
	ProbeAttempts = 3
	ProbeInterval = 1 * time.Second
)

// SupabaseDSN builds the lib/pq connection string from the project's
// Postgres URI. The service role key is used as the password when the URI
// does not carry one.
func SupabaseDSN(supabaseURL, serviceRoleKey string) (string, error) {
	u, err := url.Parse(supabaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid SUPABASE_URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid SUPABASE_URL: expected postgres:// URI, got scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid SUPABASE_URL: missing host")
	}

	user := "postgres"
	if name := u.User.Username(); name != "" {
		user = name
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		u.User = url.UserPassword(user, serviceRoleKey)
	}

	q := u.Query()
	if q.Get("sslmode") == "" {
		q.Set("sslmode", "require")
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// NewPostgresConnection creates and returns a new PostgreSQL database connection pool.
// Connectivity is checked separately by WaitReady.
func NewPostgresConnection(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(defaultMaxOpenConns)
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	return db, nil
}

// Pinger is the part of *sql.DB the readiness probe needs.
type Pinger interface {
	PingContext(ctx context.Context) error
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WaitReady pings the database and runs a trivial read on the employee table.
// It tries ProbeAttempts times, ProbeInterval apart, and returns the last
// error when every attempt fails.
func WaitReady(ctx context.Context, db Pinger, log *logrus.Entry) error {
	return waitReady(ctx, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		var one int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM pegawai LIMIT 1`).Scan(&one)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("failed to read pegawai table: %w", err)
		}
		return nil
	}, ProbeAttempts, ProbeInterval, log)
}

func waitReady(ctx context.Context, probe func(context.Context) error, attempts int, interval time.Duration, log *logrus.Entry) error {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = probe(ctx)
		if lastErr == nil {
			log.WithField("attempt", attempt).Info("Database connection verified")
			return nil
		}
		log.WithError(lastErr).WithField("attempt", attempt).Warn("Database not ready")
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return fmt.Errorf("database not ready after %d attempts: %w", attempts, lastErr)
}
