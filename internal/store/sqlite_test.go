package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/screen-time/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var loc = time.FixedZone("test", -8*3600)

func recordWeek(t *testing.T, s *SQLiteStore, archivedAt time.Time, count int) *model.ArchiveRecord {
	t.Helper()
	rec, err := s.Record(context.Background(), RecordParams{
		ArchivedAt:  archivedAt,
		WeekStart:   archivedAt.AddDate(0, 0, -7),
		FirstSample: model.SampleAt(archivedAt.AddDate(0, 0, -7)),
		LastSample:  model.SampleAt(archivedAt.Add(-time.Minute)),
		SampleCount: count,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return rec
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	archivedAt := time.Date(2018, 1, 14, 0, 0, 5, 0, loc)
	weekStart := time.Date(2018, 1, 7, 0, 0, 0, 0, loc)
	rec, err := s.Record(ctx, RecordParams{
		ArchivedAt:   archivedAt,
		WeekStart:    weekStart,
		FirstSample:  1515312000000,
		LastSample:   1515916799000,
		SampleCount:  42,
		CorruptLines: 1,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SampleCount != 42 || got.CorruptLines != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if got.FirstSample != 1515312000000 || got.LastSample != 1515916799000 {
		t.Errorf("unexpected samples: %+v", got)
	}
	if !got.ArchivedAt.Equal(archivedAt) {
		t.Errorf("expected archived_at %v, got %v", archivedAt, got.ArchivedAt)
	}
	if !got.WeekStart.Equal(weekStart) {
		t.Errorf("expected week_start %v, got %v", weekStart, got.WeekStart)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2018, 1, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		recordWeek(t, s, base.AddDate(0, 0, 7*i), 10+i)
	}

	all, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 records, got %d", len(all))
	}
	if all[0].SampleCount != 14 || all[4].SampleCount != 10 {
		t.Errorf("expected newest first, got %d..%d", all[0].SampleCount, all[4].SampleCount)
	}

	limited, _ := s.List(ctx, ListParams{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2 records with limit, got %d", len(limited))
	}

	since, _ := s.List(ctx, ListParams{Since: base.AddDate(0, 0, 14)})
	if len(since) != 3 {
		t.Errorf("expected 3 records since week 3, got %d", len(since))
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2018, 1, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		recordWeek(t, s, base.AddDate(0, 0, 7*i), 1)
	}

	n, err := s.Prune(ctx, base.AddDate(0, 0, 14))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned, got %d", n)
	}

	rest, _ := s.List(ctx, ListParams{})
	if len(rest) != 2 {
		t.Errorf("expected 2 remaining, got %d", len(rest))
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	base := time.Date(2018, 1, 7, 0, 0, 0, 0, time.UTC)
	recordWeek(t, src, base, 3)
	recordWeek(t, src, base.AddDate(0, 0, 7), 4)

	exported, err := src.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exported) != 2 || exported[0].SampleCount != 3 {
		t.Fatalf("expected oldest first export, got %+v", exported)
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 imported, got %d", n)
	}

	// Importing again skips existing IDs.
	n, err = dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 imported on duplicate, got %d", n)
	}

	got, err := dst.Get(ctx, exported[1].ID)
	if err != nil {
		t.Fatalf("get imported: %v", err)
	}
	if got.SampleCount != 4 {
		t.Errorf("expected sample count 4, got %d", got.SampleCount)
	}
}

func TestImportRequiresArchivedAt(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Import(context.Background(), []model.ArchiveRecord{{ID: "x"}})
	if err == nil {
		t.Fatal("expected error for record without archived_at")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	empty, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if empty.TotalArchives != 0 || empty.OldestWeek != nil {
		t.Errorf("expected empty stats, got %+v", empty)
	}

	base := time.Date(2018, 1, 14, 0, 0, 0, 0, time.UTC)
	recordWeek(t, s, base, 5)
	recordWeek(t, s, base.AddDate(0, 0, 7), 7)

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalArchives != 2 {
		t.Errorf("expected 2 archives, got %d", st.TotalArchives)
	}
	if st.TotalSamples != 12 {
		t.Errorf("expected 12 samples, got %d", st.TotalSamples)
	}
	if st.OldestWeek == nil || !st.OldestWeek.Equal(base.AddDate(0, 0, -7)) {
		t.Errorf("unexpected oldest week %v", st.OldestWeek)
	}
	if st.DBPath != dbPath {
		t.Errorf("expected db path %q, got %q", dbPath, st.DBPath)
	}
}
