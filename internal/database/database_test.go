package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cse-motors/motors/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestOpenSQLiteRunsMigrations(t *testing.T) {
	db, err := Open(testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, SQLite, db.Dialect())

	for _, table := range []string{"classification", "inventory", "account", "comparison", "schema_migrations"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}

	var version int
	err = db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations(SQLite)), version)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Migrate())

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(Migrations(SQLite)), count)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Type = "oracle"

	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: Postgres}
	lite := &DB{dialect: SQLite}

	query := "SELECT 1 FROM account WHERE account_id = ? AND account_email = ?"
	assert.Equal(t,
		"SELECT 1 FROM account WHERE account_id = $1 AND account_email = $2",
		pg.Rebind(query))
	assert.Equal(t, query, lite.Rebind(query))
}

func TestInsertIDReturnsGeneratedKey(t *testing.T) {
	db, err := Open(testConfig(t))
	require.NoError(t, err)
	defer db.Close()

	first, err := db.InsertID(
		"INSERT INTO classification (classification_name) VALUES (?)",
		"classification_id", "Sedan")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := db.InsertID(
		"INSERT INTO classification (classification_name) VALUES (?)",
		"classification_id", "Truck")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)
}
