package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var tables = []struct {
	name  string
	query string
}{
	{
		name: "channels",
		query: `
		CREATE TABLE IF NOT EXISTS channels (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			markup_percent DECIMAL(10,2) NOT NULL DEFAULT 0
		);
	`,
	},
	{
		name: "product_discounts",
		query: `
		CREATE TABLE IF NOT EXISTS product_discounts (
			product_id VARCHAR(255) PRIMARY KEY,
			discounts TEXT NOT NULL
		);
	`,
	},
}

// retryDelay is a variable so tests can shorten it.
var retryDelay = 1 * time.Second

// AutoMigrate creates the price manager tables if they do not exist.
func AutoMigrate(ctx context.Context, retries int, db *sql.DB) error {
	for _, table := range tables {
		if err := execWithRetry(ctx, retries, db, table.query); err != nil {
			return fmt.Errorf("failed to migrate %s table: %w", table.name, err)
		}
	}
	return nil
}

func execWithRetry(ctx context.Context, retries int, db *sql.DB, query string) error {
	_, err := db.ExecContext(ctx, query)
	for i := 0; err != nil && i < retries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
		_, err = db.ExecContext(ctx, query)
	}
	return err
}
