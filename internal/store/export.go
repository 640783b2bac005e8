package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/screen-time/internal/model"
)

// ExportAll returns every archive record, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.ArchiveRecord, error) {
	return s.query(ctx,
		`SELECT id, archived_at, week_start, first_sample, last_sample, sample_count, corrupt_lines
		 FROM archives ORDER BY archived_at, id`)
}

// Import stores records from an export. Records whose ID already exists are
// skipped; records without an ID get a fresh one.
func (s *SQLiteStore) Import(ctx context.Context, records []model.ArchiveRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, rec := range records {
		if rec.ArchivedAt.IsZero() {
			return imported, fmt.Errorf("import: record %q has no archived_at", rec.ID)
		}
		if rec.ID == "" {
			rec.ID = s.newID(rec.ArchivedAt)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO archives (id, archived_at, week_start, first_sample, last_sample, sample_count, corrupt_lines)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.ArchivedAt.UTC().Format(time.RFC3339), rec.WeekStart.Format(time.RFC3339),
			int64(rec.FirstSample), int64(rec.LastSample), rec.SampleCount, rec.CorruptLines)
		if err != nil {
			return imported, fmt.Errorf("import %s: %w", rec.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
