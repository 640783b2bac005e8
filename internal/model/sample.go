// Package model defines the core screen-time data types.
package model

import (
	"strconv"
	"time"
)

// Sample is one recorded tick: milliseconds since the Unix epoch.
type Sample int64

// SampleAt returns the sample for t.
func SampleAt(t time.Time) Sample {
	return Sample(t.UnixMilli())
}

// Time returns the sample as a time in loc.
func (s Sample) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(int64(s)).In(loc)
}

// String returns the decimal form written to the log.
func (s Sample) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// ArchiveRecord summarizes one archived week in the history database.
type ArchiveRecord struct {
	ID           string    `json:"id"`
	ArchivedAt   time.Time `json:"archived_at"`
	WeekStart    time.Time `json:"week_start"`
	FirstSample  Sample    `json:"first_sample"`
	LastSample   Sample    `json:"last_sample"`
	SampleCount  int       `json:"sample_count"`
	CorruptLines int       `json:"corrupt_lines,omitempty"`
}

// LogStatus describes one log file on disk.
type LogStatus struct {
	Path         string     `json:"path"`
	Exists       bool       `json:"exists"`
	SizeBytes    int64      `json:"size_bytes"`
	SampleCount  int        `json:"sample_count"`
	CorruptLines int        `json:"corrupt_lines,omitempty"`
	First        *time.Time `json:"first,omitempty"`
	Last         *time.Time `json:"last,omitempty"`
}

// WeekStatus is the view printed by the status command.
type WeekStatus struct {
	Now       time.Time `json:"now"`
	WeekStart time.Time `json:"week_start"`
	Current   LogStatus `json:"current"`
	Archive   LogStatus `json:"archive"`

	// SameWeek is false when the next tick would archive the current log.
	SameWeek bool `json:"same_week"`

	// SpansWeeks is true when the first and last samples of the current
	// log are not in the same week.
	SpansWeeks bool `json:"spans_weeks"`
}
