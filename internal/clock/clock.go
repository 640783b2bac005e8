// Package clock provides the time source for samples.
package clock

import (
	"time"

	"github.com/rcliao/screen-time/internal/model"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System reads the local system clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Fixed always returns the same instant.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}

// NowSample returns the current time of c as a sample.
func NowSample(c Clock) model.Sample {
	return model.SampleAt(c.Now())
}
