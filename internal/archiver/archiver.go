// Package archiver moves the current-week log into the last-week slot when a
// week boundary is crossed, and records a summary of the archived week.
package archiver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rcliao/screen-time/internal/logstore"
	"github.com/rcliao/screen-time/internal/model"
	"github.com/rcliao/screen-time/internal/store"
	"github.com/rcliao/screen-time/internal/week"
)

// Log is the part of the log store the archiver needs.
type Log interface {
	Read() (*logstore.Log, error)
	Rotate() (bool, error)
}

// Recorder stores archive summaries. store.SQLiteStore satisfies it.
type Recorder interface {
	Record(ctx context.Context, p store.RecordParams) (*model.ArchiveRecord, error)
}

// Archiver rotates the log and records history.
type Archiver struct {
	log     Log
	history Recorder
	loc     *time.Location
	logger  *slog.Logger
}

// New returns an archiver. history may be nil to skip recording.
func New(log Log, history Recorder, loc *time.Location, logger *slog.Logger) *Archiver {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Archiver{log: log, history: history, loc: loc, logger: logger}
}

// Archive replaces the last-week log with the current log. It returns nil,
// nil when there is nothing to archive. The returned record has no ID when
// history is disabled or recording failed.
func (a *Archiver) Archive(ctx context.Context, now time.Time) (*model.ArchiveRecord, error) {
	current, err := a.log.Read()
	if err != nil {
		return nil, fmt.Errorf("read log before archive: %w", err)
	}

	moved, err := a.log.Rotate()
	if err != nil {
		return nil, err
	}
	if !moved {
		a.logger.Debug("no current log to archive")
		return nil, nil
	}

	params := summarize(current, now, a.loc)
	a.logger.Info("archived week",
		"week_start", params.WeekStart.Format("2006-01-02"),
		"samples", params.SampleCount,
		"corrupt", params.CorruptLines)

	rec := &model.ArchiveRecord{
		ArchivedAt:   params.ArchivedAt,
		WeekStart:    params.WeekStart,
		FirstSample:  params.FirstSample,
		LastSample:   params.LastSample,
		SampleCount:  params.SampleCount,
		CorruptLines: params.CorruptLines,
	}
	if a.history == nil {
		return rec, nil
	}

	// Best effort once the rename is done; the archive must not be retried.
	stored, err := a.history.Record(ctx, params)
	if err != nil {
		a.logger.Warn("record archive history", "error", err)
		return rec, nil
	}
	return stored, nil
}

func summarize(l *logstore.Log, now time.Time, loc *time.Location) store.RecordParams {
	p := store.RecordParams{
		ArchivedAt:   now,
		SampleCount:  len(l.Samples),
		CorruptLines: len(l.Corrupt),
	}
	first, ok := l.First()
	if !ok {
		p.WeekStart = week.Start(now, loc)
		return p
	}
	last, _ := l.Last()
	p.FirstSample = first
	p.LastSample = last
	p.WeekStart = week.Start(last.Time(loc), loc)
	return p
}
