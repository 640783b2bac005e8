package cli

import (
	"errors"
	"time"

	"github.com/rcliao/screen-time/internal/archiver"
	"github.com/rcliao/screen-time/internal/clock"
	"github.com/rcliao/screen-time/internal/daemon"
	"github.com/rcliao/screen-time/internal/lockfile"
	"github.com/rcliao/screen-time/internal/logstore"
	"github.com/rcliao/screen-time/internal/store"
)

// service bundles everything a writing command needs. It holds the lock
// until Close.
type service struct {
	paths    logstore.Paths
	log      *logstore.Store
	history  *store.SQLiteStore
	archiver *archiver.Archiver
	lock     *lockfile.Lock
}

func openService() (*service, error) {
	paths := getPaths()

	lock, err := lockfile.Acquire(paths.Lock())
	if err != nil {
		return nil, err
	}

	svc := &service{
		paths: paths,
		log:   logstore.New(paths, clock.System{}, logger),
		lock:  lock,
	}

	var rec archiver.Recorder
	if cfg.History.Enabled {
		h, err := store.NewSQLiteStore(paths.History())
		if err != nil {
			lock.Release()
			return nil, err
		}
		svc.history = h
		rec = h
	}
	svc.archiver = archiver.New(svc.log, rec, time.Local, logger)
	return svc, nil
}

func (s *service) daemon(interval time.Duration) *daemon.Daemon {
	initial, maxWait := cfg.RetryIntervals()
	return daemon.New(s.log, s.archiver, daemon.Options{
		Interval: interval,
		Location: time.Local,
		Clock:    clock.System{},
		Logger:   logger,
		Retry: daemon.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: initial,
			MaxInterval:     maxWait,
		},
	})
}

func (s *service) Close() error {
	var errs []error
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	errs = append(errs, s.lock.Release())
	return errors.Join(errs...)
}

func openHistory() (*store.SQLiteStore, string, error) {
	path := getPaths().History()
	s, err := store.NewSQLiteStore(path)
	return s, path, err
}
