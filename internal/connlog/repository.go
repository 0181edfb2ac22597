// Package connlog keeps a local history of Cuebot connection attempts.
package connlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kalisp/OpenCue/internal/database"
)

// timeLayout is fixed width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Repository defines the persistence interface for connection attempts.
type Repository interface {
	Save(entry *Entry) error
	List(limit int) ([]Entry, error)
	ListByHost(host string, limit int) ([]Entry, error)
	Query(ctx context.Context, f Filter) ([]Entry, error)
	Prune(cutoff time.Time) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the connection log at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("connlog: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("connlog: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// migrations are applied in order; append new steps, never edit old ones.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS connection_log (
            id          INTEGER PRIMARY KEY AUTOINCREMENT,
            timestamp   TEXT    NOT NULL,
            facility    TEXT    NOT NULL DEFAULT '',
            host        TEXT    NOT NULL,
            outcome     TEXT    NOT NULL,
            error_kind  TEXT    NOT NULL DEFAULT '',
            detail      TEXT    NOT NULL DEFAULT '',
            duration_ms INTEGER NOT NULL DEFAULT 0
        )`,
	`CREATE INDEX IF NOT EXISTS idx_connection_log_timestamp ON connection_log(timestamp);
        CREATE INDEX IF NOT EXISTS idx_connection_log_host ON connection_log(host)`,
}

func (r *SQLiteRepository) migrate() error {
	if err := database.Migrate(context.Background(), r.db, migrations); err != nil {
		return fmt.Errorf("connlog: %w", err)
	}
	return nil
}

// Save inserts a new entry.
func (r *SQLiteRepository) Save(entry *Entry) error {
	return r.SaveContext(context.Background(), entry)
}

// SaveContext inserts a new entry, assigning its ID and, if unset, its
// timestamp.
func (r *SQLiteRepository) SaveContext(ctx context.Context, entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Outcome == "" {
		entry.Outcome = OutcomeSuccess
	}

	result, err := r.db.ExecContext(ctx, `
        INSERT INTO connection_log (timestamp, facility, host, outcome, error_kind, detail, duration_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UTC().Format(timeLayout), entry.Facility, entry.Host, entry.Outcome,
		entry.ErrorKind, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("connlog: insert failed: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("connlog: failed to get last insert ID: %w", err)
	}
	entry.ID = id
	return nil
}

// Filter selects entries for Query. Zero fields match everything except
// Limit, which must be positive.
type Filter struct {
	Host     string
	Facility string
	// Since keeps entries recorded at or after this time.
	Since time.Time
	Limit int
}

// Query returns the most recent entries matching f, newest first.
func (r *SQLiteRepository) Query(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Host != "" {
		where = append(where, "host = ?")
		args = append(args, f.Host)
	}
	if f.Facility != "" {
		where = append(where, "facility = ?")
		args = append(args, f.Facility)
	}
	if !f.Since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}

	query := `SELECT id, timestamp, facility, host, outcome, error_kind, detail, duration_ms FROM connection_log`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, f.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("connlog: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// List returns the most recent n entries.
func (r *SQLiteRepository) List(limit int) ([]Entry, error) {
	return r.Query(context.Background(), Filter{Limit: limit})
}

// ListByHost returns the most recent n entries for a host.
func (r *SQLiteRepository) ListByHost(host string, limit int) ([]Entry, error) {
	return r.Query(context.Background(), Filter{Host: host, Limit: limit})
}

// Prune deletes entries recorded before cutoff and reports how many went.
func (r *SQLiteRepository) Prune(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM connection_log WHERE timestamp < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("connlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var entry Entry
		var timestampStr string
		err := rows.Scan(
			&entry.ID, &timestampStr, &entry.Facility, &entry.Host,
			&entry.Outcome, &entry.ErrorKind, &entry.Detail, &entry.DurationMs,
		)
		if err != nil {
			return nil, fmt.Errorf("connlog: scan failed: %w", err)
		}
		entry.Timestamp, _ = time.Parse(timeLayout, timestampStr)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
