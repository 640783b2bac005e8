package daemon

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/rcliao/screen-time/internal/logstore"
)

// RetryPolicy bounds how often a failed file operation is retried.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy tries three times, starting at half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		eb.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	eb.MaxElapsedTime = 0

	retries := 0
	if p.MaxAttempts > 1 {
		retries = p.MaxAttempts - 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries)), ctx)
}

// withRetry runs fn until it succeeds, fails permanently, or the policy is
// exhausted. The first attempt runs even if ctx is already done.
func (d *Daemon) withRetry(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn()
		if err != nil && !transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, d.retry.backOff(ctx), func(err error, wait time.Duration) {
		d.logger.Warn("file operation failed, retrying",
			"op", op, "attempt", attempt, "wait", wait.String(), "error", err)
	})
}

// transient reports whether retrying err could help.
func transient(err error) bool {
	var pe *logstore.ParseError
	switch {
	case errors.Is(err, fs.ErrPermission), errors.As(err, &pe):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
