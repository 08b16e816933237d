package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/daehan-lim/slack-digest/internal/infrastructure/config"
)

// DB wraps a MySQL database connection with pooling configured.
type DB struct {
	*sql.DB
}

// NewDB creates a new MySQL database connection with connection pooling.
func NewDB(cfg *config.MySQLConfig) (*DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mysql config is required")
	}

	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Pool.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &DB{DB: db}, nil
}

// buildDSN constructs a MySQL connection string.
func buildDSN(cfg *config.MySQLConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&timeout=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.Timeout,
	)
}

// Migrate creates the schema if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS digest_runs (
			id            VARCHAR(36) PRIMARY KEY,
			started_at    DATETIME(6) NOT NULL,
			finished_at   DATETIME(6) NULL,
			status        VARCHAR(32) NOT NULL,
			conversations INT NOT NULL DEFAULT 0,
			messages      INT NOT NULL DEFAULT 0,
			threads       INT NOT NULL DEFAULT 0,
			marked_read   INT NOT NULL DEFAULT 0,
			error         TEXT NOT NULL,
			INDEX idx_digest_runs_started_at (started_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating digest_runs table: %w", err)
	}
	return nil
}
