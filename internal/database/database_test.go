package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPathOverride(t *testing.T) {
	t.Cleanup(ResetPath)

	path := filepath.Join(t.TempDir(), "cuego.db")
	SetPath(path)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath error: %v", err)
	}
	if got != path {
		t.Fatalf("DefaultPath = %q, want %q", got, path)
	}
}

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "cuego.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	return v
}

func TestOpenCreatesDatabase(t *testing.T) {
	db := openTemp(t)
	if got := userVersion(t, db); got != 0 {
		t.Errorf("fresh database user_version = %d, want 0", got)
	}
}

func TestMigrate_AppliesPendingSteps(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	steps := []string{
		`CREATE TABLE a (id INTEGER PRIMARY KEY)`,
	}
	if err := Migrate(ctx, db, steps); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if got := userVersion(t, db); got != 1 {
		t.Fatalf("user_version = %d, want 1", got)
	}

	// Re-running with an extra step only applies the new one; re-creating
	// table a would fail.
	steps = append(steps, `CREATE TABLE b (id INTEGER PRIMARY KEY)`)
	if err := Migrate(ctx, db, steps); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if got := userVersion(t, db); got != 2 {
		t.Fatalf("user_version = %d, want 2", got)
	}
	if _, err := db.Exec(`INSERT INTO b (id) VALUES (1)`); err != nil {
		t.Errorf("table b missing: %v", err)
	}
}

func TestMigrate_FailedStepRollsBack(t *testing.T) {
	db := openTemp(t)

	err := Migrate(context.Background(), db, []string{`CREATE TABLE broken (`})
	if err == nil {
		t.Fatal("expected an error for invalid DDL")
	}
	if !strings.Contains(err.Error(), "migration 1") {
		t.Errorf("error should name the step, got %v", err)
	}
	if got := userVersion(t, db); got != 0 {
		t.Errorf("user_version = %d after failed step, want 0", got)
	}
}

func TestMigrate_RejectsNewerSchema(t *testing.T) {
	db := openTemp(t)
	if _, err := db.Exec(`PRAGMA user_version = 5`); err != nil {
		t.Fatal(err)
	}
	if err := Migrate(context.Background(), db, []string{`SELECT 1`}); err == nil {
		t.Fatal("expected an error for a newer schema")
	}
}
