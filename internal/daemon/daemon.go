// Package daemon drives the sampling loop: seed the last sample from disk,
// then on every tick archive on a week boundary and append a fresh sample.
package daemon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rcliao/screen-time/internal/clock"
	"github.com/rcliao/screen-time/internal/model"
	"github.com/rcliao/screen-time/internal/week"
)

// DefaultInterval is the polling period when none is configured.
const DefaultInterval = time.Minute

// SampleLog is the log store as seen by the loop.
type SampleLog interface {
	Append(s model.Sample) error
	LastSample() (model.Sample, error)
}

// Archiver rotates the current log away.
type Archiver interface {
	Archive(ctx context.Context, now time.Time) (*model.ArchiveRecord, error)
}

// Options configures a Daemon. Zero values fall back to defaults.
type Options struct {
	Interval time.Duration
	Location *time.Location
	Clock    clock.Clock
	Retry    RetryPolicy
	Logger   *slog.Logger
}

// Daemon owns the polling cycle. It is not safe for concurrent use.
type Daemon struct {
	log      SampleLog
	archiver Archiver
	interval time.Duration
	loc      *time.Location
	clock    clock.Clock
	retry    RetryPolicy
	logger   *slog.Logger
}

// New returns a daemon writing to log and rotating through archiver.
func New(log SampleLog, archiver Archiver, opts Options) *Daemon {
	d := &Daemon{
		log:      log,
		archiver: archiver,
		interval: opts.Interval,
		loc:      opts.Location,
		clock:    opts.Clock,
		retry:    opts.Retry,
		logger:   opts.Logger,
	}
	if d.interval <= 0 {
		d.interval = DefaultInterval
	}
	if d.loc == nil {
		d.loc = time.Local
	}
	if d.clock == nil {
		d.clock = clock.System{}
	}
	if d.retry.MaxAttempts <= 0 {
		d.retry = DefaultRetryPolicy()
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Interval returns the effective polling period.
func (d *Daemon) Interval() time.Duration {
	return d.interval
}

// Run seeds the last sample and ticks until ctx is cancelled or a tick
// fails. Cancellation is observed only between ticks and retry attempts,
// so the file operation in flight always completes. A shutdown returns nil,
// even when it interrupts a retry.
func (d *Daemon) Run(ctx context.Context) error {
	last, err := d.log.LastSample()
	if err != nil {
		return fmt.Errorf("read last sample: %w", err)
	}
	d.logger.Info("daemon started",
		"interval", d.interval.String(),
		"last_sample", last.Time(d.loc).Format(time.RFC3339))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		last, err = d.Tick(ctx, last)
		if err != nil {
			if ctx.Err() != nil {
				// Shutdown arrived while a failed step was backing off.
				d.logger.Warn("tick abandoned on shutdown", "error", err)
				break
			}
			return err
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	d.logger.Info("daemon stopped", "last_sample", last.Time(d.loc).Format(time.RFC3339))
	return nil
}

// Tick runs one polling step against last and returns the sample written.
// The archive, when due, always happens before the append so the sample
// that crosses the boundary lands in the fresh log.
func (d *Daemon) Tick(ctx context.Context, last model.Sample) (model.Sample, error) {
	now := d.clock.Now()

	if !week.SameWeek(now, last.Time(d.loc), d.loc) {
		d.logger.Info("week boundary crossed",
			"last_sample", last.Time(d.loc).Format(time.RFC3339),
			"now", now.In(d.loc).Format(time.RFC3339))
		err := d.withRetry(ctx, "archive", func() error {
			_, err := d.archiver.Archive(ctx, now)
			return err
		})
		if err != nil {
			return last, fmt.Errorf("archive: %w", err)
		}
	}

	sample := model.SampleAt(now)
	if err := d.withRetry(ctx, "append", func() error {
		return d.log.Append(sample)
	}); err != nil {
		return last, fmt.Errorf("append sample: %w", err)
	}
	d.logger.Debug("sample appended", "sample", sample.String())
	return sample, nil
}
