package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitDatabase opens the Postgres connection pool and verifies it.
func InitDatabase(databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	DB, err = sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	return nil
}

// CreateTables creates the schema if it does not exist yet.
func CreateTables() error {
	productsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		eshop TEXT NOT NULL,
		last_known_price DOUBLE PRECISION,
		is_on_sale BOOLEAN DEFAULT FALSE,
		original_price DOUBLE PRECISION,
		alert_price DOUBLE PRECISION,
		alert_triggered BOOLEAN DEFAULT FALSE,
		is_tracked BOOLEAN DEFAULT TRUE,
		last_check_time TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	historyTable := `
	CREATE TABLE IF NOT EXISTS price_history (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		price DOUBLE PRECISION NOT NULL,
		is_on_sale BOOLEAN DEFAULT FALSE,
		original_price DOUBLE PRECISION,
		checked_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	historyIndex := `
	CREATE INDEX IF NOT EXISTS idx_price_history_product_id
	ON price_history(product_id);`

	for _, stmt := range []string{productsTable, historyTable, historyIndex} {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %v", err)
		}
	}

	return nil
}

// CloseDatabase closes the connection pool.
func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}
