package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Config{Path: MemoryPath})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openMemory(t)

	for _, table := range []string{"migrations", "locations", "gates", "readings"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 applied migrations, got %d", count)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crowd.db")

	db, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("First open failed: %v", err)
	}
	db.Close()

	db, err = Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Second open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Expected path %s, got %s", path, db.Path())
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Expected error for empty path")
	}
}

func TestTransactionRollsBack(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO readings (location_id, gate_id, density, recorded_at) VALUES ('a', 'G1', 1, 1)"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM readings").Scan(&count)
	if count != 0 {
		t.Errorf("Expected rollback to leave 0 rows, got %d", count)
	}
}

func TestTransactionCommits(t *testing.T) {
	db := openMemory(t)

	err := db.Transaction(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO readings (location_id, gate_id, density, recorded_at) VALUES ('a', 'G1', 1, 1)")
		return err
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var count int
	db.QueryRow("SELECT COUNT(*) FROM readings").Scan(&count)
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}
