package database

import (
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the schema migrations for the given dialect.
func Migrations(dialect Dialect) []Migration {
	if dialect == Postgres {
		return postgresMigrations()
	}
	return sqliteMigrations()
}

func postgresMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create classification table",
			SQL: `CREATE TABLE IF NOT EXISTS classification (
				classification_id SERIAL PRIMARY KEY,
				classification_name VARCHAR(50) NOT NULL UNIQUE
			)`,
		},
		{
			Version:     2,
			Description: "Create inventory table",
			SQL: `CREATE TABLE IF NOT EXISTS inventory (
				inv_id SERIAL PRIMARY KEY,
				inv_make VARCHAR(50) NOT NULL,
				inv_model VARCHAR(50) NOT NULL,
				inv_year INTEGER NOT NULL,
				inv_description TEXT NOT NULL,
				inv_image VARCHAR(255) NOT NULL,
				inv_thumbnail VARCHAR(255) NOT NULL,
				inv_price NUMERIC(10,2) NOT NULL,
				inv_miles INTEGER NOT NULL,
				inv_color VARCHAR(25) NOT NULL,
				classification_id INTEGER NOT NULL REFERENCES classification(classification_id)
			)`,
		},
		{
			Version:     3,
			Description: "Create account table",
			SQL: `CREATE TABLE IF NOT EXISTS account (
				account_id SERIAL PRIMARY KEY,
				account_firstname VARCHAR(50) NOT NULL,
				account_lastname VARCHAR(50) NOT NULL,
				account_email VARCHAR(255) NOT NULL UNIQUE,
				account_password VARCHAR(255) NOT NULL,
				account_type VARCHAR(20) NOT NULL DEFAULT 'Client'
			)`,
		},
		{
			Version:     4,
			Description: "Create comparison table",
			SQL: `CREATE TABLE IF NOT EXISTS comparison (
				comparison_id SERIAL PRIMARY KEY,
				comparison_name VARCHAR(100) NOT NULL,
				comparison_description VARCHAR(500),
				account_id INTEGER NOT NULL REFERENCES account(account_id),
				vehicle1_id INTEGER NOT NULL,
				vehicle2_id INTEGER,
				vehicle3_id INTEGER,
				created_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			)`,
		},
	}
}

func sqliteMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create classification table",
			SQL: `CREATE TABLE IF NOT EXISTS classification (
				classification_id INTEGER PRIMARY KEY AUTOINCREMENT,
				classification_name TEXT NOT NULL UNIQUE
			)`,
		},
		{
			Version:     2,
			Description: "Create inventory table",
			SQL: `CREATE TABLE IF NOT EXISTS inventory (
				inv_id INTEGER PRIMARY KEY AUTOINCREMENT,
				inv_make TEXT NOT NULL,
				inv_model TEXT NOT NULL,
				inv_year INTEGER NOT NULL,
				inv_description TEXT NOT NULL,
				inv_image TEXT NOT NULL,
				inv_thumbnail TEXT NOT NULL,
				inv_price REAL NOT NULL,
				inv_miles INTEGER NOT NULL,
				inv_color TEXT NOT NULL,
				classification_id INTEGER NOT NULL REFERENCES classification(classification_id)
			)`,
		},
		{
			Version:     3,
			Description: "Create account table",
			SQL: `CREATE TABLE IF NOT EXISTS account (
				account_id INTEGER PRIMARY KEY AUTOINCREMENT,
				account_firstname TEXT NOT NULL,
				account_lastname TEXT NOT NULL,
				account_email TEXT NOT NULL UNIQUE,
				account_password TEXT NOT NULL,
				account_type TEXT NOT NULL DEFAULT 'Client'
			)`,
		},
		{
			Version:     4,
			Description: "Create comparison table",
			SQL: `CREATE TABLE IF NOT EXISTS comparison (
				comparison_id INTEGER PRIMARY KEY AUTOINCREMENT,
				comparison_name TEXT NOT NULL,
				comparison_description TEXT,
				account_id INTEGER NOT NULL REFERENCES account(account_id),
				vehicle1_id INTEGER NOT NULL,
				vehicle2_id INTEGER,
				vehicle3_id INTEGER,
				created_date DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	}
}

// Migrate applies all pending migrations in version order.
func (db *DB) Migrate() error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var current int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range Migrations(db.dialect) {
		if m.Version <= current {
			continue
		}
		log.Printf("Applying migration %d: %s", m.Version, m.Description)
		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := db.Exec(
			db.Rebind("INSERT INTO schema_migrations (version, description) VALUES (?, ?)"),
			m.Version, m.Description,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}
