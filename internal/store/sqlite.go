package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/screen-time/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archives (
		id            TEXT PRIMARY KEY,
		archived_at   TEXT NOT NULL,
		week_start    TEXT NOT NULL,
		first_sample  INTEGER NOT NULL,
		last_sample   INTEGER NOT NULL,
		sample_count  INTEGER NOT NULL DEFAULT 0,
		corrupt_lines INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_archives_archived ON archives(archived_at DESC);
	CREATE INDEX IF NOT EXISTS idx_archives_week ON archives(week_start);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Record(ctx context.Context, p RecordParams) (*model.ArchiveRecord, error) {
	archivedAt := p.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now()
	}

	rec := &model.ArchiveRecord{
		ID:           s.newID(archivedAt),
		ArchivedAt:   archivedAt.UTC().Truncate(time.Second),
		WeekStart:    p.WeekStart,
		FirstSample:  p.FirstSample,
		LastSample:   p.LastSample,
		SampleCount:  p.SampleCount,
		CorruptLines: p.CorruptLines,
	}
	if err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) insert(ctx context.Context, rec *model.ArchiveRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO archives (id, archived_at, week_start, first_sample, last_sample, sample_count, corrupt_lines)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ArchivedAt.UTC().Format(time.RFC3339), rec.WeekStart.Format(time.RFC3339),
		int64(rec.FirstSample), int64(rec.LastSample), rec.SampleCount, rec.CorruptLines)
	if err != nil {
		return fmt.Errorf("insert archive: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.ArchiveRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, archived_at, week_start, first_sample, last_sample, sample_count, corrupt_lines
		 FROM archives WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.ArchiveRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, archived_at, week_start, first_sample, last_sample, sample_count, corrupt_lines
	          FROM archives`
	var args []interface{}
	if !p.Since.IsZero() {
		query += ` WHERE archived_at >= ?`
		args = append(args, p.Since.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY archived_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM archives WHERE archived_at < ?`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("prune archives: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...interface{}) ([]model.ArchiveRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.ArchiveRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (model.ArchiveRecord, error) {
	var rec model.ArchiveRecord
	var archivedAt, weekStart string
	var first, last int64

	err := row.Scan(&rec.ID, &archivedAt, &weekStart, &first, &last, &rec.SampleCount, &rec.CorruptLines)
	if err != nil {
		return rec, err
	}

	rec.ArchivedAt, _ = time.Parse(time.RFC3339, archivedAt)
	rec.WeekStart, _ = time.Parse(time.RFC3339, weekStart)
	rec.FirstSample = model.Sample(first)
	rec.LastSample = model.Sample(last)
	return rec, nil
}
