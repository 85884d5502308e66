package volume

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupHistoryDB creates an in-memory SQLite database with the
// volume_history schema.
func setupHistoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})

	schema := `
		CREATE TABLE volume_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level REAL NOT NULL CHECK (level >= 0.0 AND level <= 1.0),
			source TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return db
}

func TestHistoryRecord_AndRecent(t *testing.T) {
	repo := NewSQLiteHistoryRepository(setupHistoryDB(t))
	ctx := context.Background()

	levels := []float64{0.5, 0.3, 0.8}
	for i, level := range levels {
		source := HistorySourceAPI
		if i == 0 {
			source = HistorySourceStartup
		}
		if err := repo.Record(ctx, level, source); err != nil {
			t.Fatalf("Record(%v) error = %v", level, err)
		}
	}

	entries, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	// Newest first
	if entries[0].Level != 0.8 {
		t.Errorf("entries[0].Level = %v, want 0.8", entries[0].Level)
	}
	if entries[2].Level != 0.5 {
		t.Errorf("entries[2].Level = %v, want 0.5", entries[2].Level)
	}
	if entries[2].Source != HistorySourceStartup {
		t.Errorf("entries[2].Source = %q, want %q", entries[2].Source, HistorySourceStartup)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be populated")
	}
}

func TestHistoryRecord_RejectsOutOfRange(t *testing.T) {
	repo := NewSQLiteHistoryRepository(setupHistoryDB(t))

	if err := repo.Record(context.Background(), 1.5, HistorySourceAPI); err == nil {
		t.Error("Record(1.5) should fail")
	}
	if err := repo.Record(context.Background(), -0.1, HistorySourceAPI); err == nil {
		t.Error("Record(-0.1) should fail")
	}
}

func TestHistoryRecent_ClampsLimit(t *testing.T) {
	repo := NewSQLiteHistoryRepository(setupHistoryDB(t))
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if err := repo.Record(ctx, 0.5, HistorySourceAPI); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	// Zero limit falls back to the default
	entries, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0) error = %v", err)
	}
	if len(entries) != defaultHistoryLimit {
		t.Errorf("Recent(0) returned %d entries, want default %d", len(entries), defaultHistoryLimit)
	}

	// Oversized limit is clamped, not an error
	if _, err := repo.Recent(ctx, 10000); err != nil {
		t.Errorf("Recent(10000) error = %v", err)
	}
}

func TestHistoryRecent_Empty(t *testing.T) {
	repo := NewSQLiteHistoryRepository(setupHistoryDB(t))

	entries, err := repo.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestHistoryPrune(t *testing.T) {
	db := setupHistoryDB(t)
	repo := NewSQLiteHistoryRepository(db)
	ctx := context.Background()

	// One old row (well past any retention window) and one fresh row
	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := db.Exec(
		"INSERT INTO volume_history (level, source, created_at) VALUES (?, ?, ?)",
		0.2, HistorySourceAPI, old,
	); err != nil {
		t.Fatalf("inserting old row: %v", err)
	}
	if err := repo.Record(ctx, 0.7, HistorySourceAPI); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	deleted, err := repo.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d rows, want 1", deleted)
	}

	entries, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Level != 0.7 {
		t.Errorf("unexpected surviving entries: %+v", entries)
	}
}

func TestHistoryPrune_RejectsNonPositiveWindow(t *testing.T) {
	repo := NewSQLiteHistoryRepository(setupHistoryDB(t))

	if _, err := repo.Prune(context.Background(), 0); err == nil {
		t.Error("Prune(0) should fail")
	}
}
