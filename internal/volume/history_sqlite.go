package volume

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
//
// Rows live in the volume_history table created by the embedded migrations.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

// NewSQLiteHistoryRepository creates a new SQLite history repository.
//
// Parameters:
//   - db: Open SQLite connection used for queries
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Record inserts a new history entry.
func (r *SQLiteHistoryRepository) Record(ctx context.Context, level float64, source string) error {
	if level < 0.0 || level > 1.0 {
		return fmt.Errorf("level %v outside [0.0, 1.0]", level)
	}
	if source == "" {
		source = HistorySourceAPI
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO volume_history (level, source) VALUES (?, ?)",
		level,
		source,
	)
	if err != nil {
		return fmt.Errorf("inserting volume history: %w", err)
	}

	return nil
}

// Recent returns recent history entries, ordered newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum entries to return (default 50, max 200)
func (r *SQLiteHistoryRepository) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, level, source, created_at
		 FROM volume_history
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying volume history: %w", err)
	}
	defer rows.Close()

	entries := make([]HistoryEntry, 0, limit)
	for rows.Next() {
		var entry HistoryEntry
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.Level, &entry.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning volume history: %w", err)
		}

		timestamp, err := parseHistoryTimestamp(createdAt)
		if err != nil {
			return nil, err
		}
		entry.CreatedAt = timestamp

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating volume history: %w", err)
	}

	return entries, nil
}

// Prune deletes history entries older than the given duration.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Retention window (entries older than now-olderThan are deleted)
//
// Returns:
//   - int64: Number of rows deleted
func (r *SQLiteHistoryRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM volume_history WHERE created_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting volume history: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}
	return deleted, nil
}

// parseHistoryTimestamp parses the created_at column, which SQLite writes in
// RFC3339 form via the table default.
func parseHistoryTimestamp(value string) (time.Time, error) {
	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing history timestamp %q: %w", value, err)
	}
	return timestamp, nil
}
