package store

import (
	"context"
	"database/sql"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string     `json:"db_path"`
	DBSizeBytes   int64      `json:"db_size_bytes"`
	TotalArchives int        `json:"total_archives"`
	TotalSamples  int64      `json:"total_samples"`
	CorruptLines  int64      `json:"corrupt_lines"`
	OldestWeek    *time.Time `json:"oldest_week,omitempty"`
	NewestWeek    *time.Time `json:"newest_week,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(sample_count), 0), COALESCE(SUM(corrupt_lines), 0),
		       MIN(week_start), MAX(week_start)
		FROM archives`).Scan(&st.TotalArchives, &st.TotalSamples, &st.CorruptLines, &oldest, &newest)
	if err != nil {
		return st, err
	}

	if oldest.Valid {
		t, _ := time.Parse(time.RFC3339, oldest.String)
		st.OldestWeek = &t
	}
	if newest.Valid {
		t, _ := time.Parse(time.RFC3339, newest.String)
		st.NewestWeek = &t
	}
	return st, nil
}
