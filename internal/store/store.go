// Package store provides the archive history interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/screen-time/internal/model"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("archive record not found")

// RecordParams holds the summary of one archived week.
type RecordParams struct {
	ArchivedAt   time.Time
	WeekStart    time.Time
	FirstSample  model.Sample
	LastSample   model.Sample
	SampleCount  int
	CorruptLines int
}

// ListParams holds parameters for listing archive records.
type ListParams struct {
	Since time.Time // zero means no lower bound
	Limit int
}

// Store defines the archive history interface.
type Store interface {
	// Record stores a new archive summary and returns it with its ID set.
	Record(ctx context.Context, p RecordParams) (*model.ArchiveRecord, error)

	// Get retrieves one record by ID.
	Get(ctx context.Context, id string) (*model.ArchiveRecord, error)

	// List returns records newest first.
	List(ctx context.Context, p ListParams) ([]model.ArchiveRecord, error)

	// Prune deletes records archived before cutoff and returns how many.
	Prune(ctx context.Context, cutoff time.Time) (int, error)

	// Close closes the store.
	Close() error
}
