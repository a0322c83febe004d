package database

import (
	"path/filepath"
	"testing"
)

func TestNewDBCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "test.db")

	db, err := NewDB(path)
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	defer db.Close()

	for _, table := range []string{"plan_snapshots", "execution_metrics"} {
		var name string
		err := db.SQL.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	if err := RunMigrations(path); err != nil {
		t.Fatalf("first RunMigrations failed: %v", err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second RunMigrations failed: %v", err)
	}
}
