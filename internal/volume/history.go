package volume

import (
	"context"
	"time"
)

// History source values.
const (
	// HistorySourceAPI marks a change requested through POST /volume.
	HistorySourceAPI = "api"

	// HistorySourceStartup marks the level observed at initialisation.
	HistorySourceStartup = "startup"
)

// HistoryEntry represents a single recorded volume change.
//
// History is an audit trail only: it is never read back to restore the
// volume across restarts.
type HistoryEntry struct {
	// ID is the auto-incremented primary key for the history row.
	ID int64 `json:"id"`

	// Level is the scalar volume that was applied, in [0.0, 1.0].
	Level float64 `json:"level"`

	// Source identifies how the change was made (api, startup).
	Source string `json:"source"`

	// CreatedAt is the timestamp of the change (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// HistoryRepository stores and retrieves volume change history.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	// Record records a volume change.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - level: Scalar volume that was applied
	//   - source: Origin of the change (api, startup)
	//
	// Returns:
	//   - error: nil on success, otherwise the underlying persistence error
	Record(ctx context.Context, level float64, source string) error

	// Recent returns recent volume changes, newest first.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - limit: Maximum entries to return (implementation may clamp bounds)
	//
	// Returns:
	//   - []HistoryEntry: Ordered newest-first entries (may be empty)
	//   - error: nil on success, otherwise the underlying query error
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Prune deletes entries older than the given duration.
	//
	// Returns:
	//   - int64: Number of rows deleted
	//   - error: nil on success, otherwise the underlying database error
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
