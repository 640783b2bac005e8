package logstore

import (
	"time"

	"github.com/rcliao/screen-time/internal/model"
	"github.com/rcliao/screen-time/internal/week"
)

// Status describes both logs relative to now.
func (s *Store) Status(now time.Time, loc *time.Location) (*model.WeekStatus, error) {
	if loc == nil {
		loc = time.Local
	}
	current, err := s.Read()
	if err != nil {
		return nil, err
	}
	archive, err := s.ReadArchive()
	if err != nil {
		return nil, err
	}

	st := &model.WeekStatus{
		Now:       now.In(loc),
		WeekStart: week.Start(now, loc),
		Current:   current.status(loc),
		Archive:   archive.status(loc),
		SameWeek:  true,
	}
	if last, ok := current.Last(); ok {
		st.SameWeek = week.SameWeek(now, last.Time(loc), loc)
		first, _ := current.First()
		st.SpansWeeks = !week.SameWeekMillis(first, last, loc)
	}
	return st, nil
}

func (l *Log) status(loc *time.Location) model.LogStatus {
	ls := model.LogStatus{
		Path:         l.Path,
		Exists:       l.Exists,
		SizeBytes:    l.Size,
		SampleCount:  len(l.Samples),
		CorruptLines: len(l.Corrupt),
	}
	if first, ok := l.First(); ok {
		t := first.Time(loc)
		ls.First = &t
	}
	if last, ok := l.Last(); ok {
		t := last.Time(loc)
		ls.Last = &t
	}
	return ls
}
