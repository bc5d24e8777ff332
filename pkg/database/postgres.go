package database

import (
	"context"
	"fmt"
	"slices"
	"time"

	"service-catalog/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DSN builds the pgx connection string for cfg.
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
}

// Connect opens the pool and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Ping reports whether the database answers within a second.
func Ping(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// TableExists checks the public schema for table.
func TableExists(ctx context.Context, db *sqlx.DB, table string) (bool, error) {
	var exists bool
	err := db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		table)
	return exists, err
}

// TableCount returns the number of rows in one of the catalog tables.
func TableCount(ctx context.Context, db *sqlx.DB, table string) (int, error) {
	if !slices.Contains(CatalogTables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table)
	return n, err
}

// CatalogTables lists the tables owned by this service in dependency order.
var CatalogTables = []string{"tenants", "categories", "services"}

