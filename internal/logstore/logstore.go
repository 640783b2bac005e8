// Package logstore persists samples to the current-week text log and rotates
// it into the last-week file.
//
// Each line is one sample in decimal milliseconds followed by a newline.
// The store is the only code that touches either log file.
package logstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/rcliao/screen-time/internal/clock"
	"github.com/rcliao/screen-time/internal/model"
)

// ParseError describes a log line that is not a valid sample.
type ParseError struct {
	Path string
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: corrupt sample %q: %v", e.Path, e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Log is the parsed content of one log file.
type Log struct {
	Path    string
	Exists  bool
	Size    int64
	Samples []model.Sample
	Corrupt []*ParseError
}

// First returns the oldest sample, if any.
func (l *Log) First() (model.Sample, bool) {
	if len(l.Samples) == 0 {
		return 0, false
	}
	return l.Samples[0], true
}

// Last returns the newest sample, if any.
func (l *Log) Last() (model.Sample, bool) {
	if len(l.Samples) == 0 {
		return 0, false
	}
	return l.Samples[len(l.Samples)-1], true
}

// Store reads and writes the two log files under Paths.
type Store struct {
	paths  Paths
	clock  clock.Clock
	logger *slog.Logger
}

// New returns a store rooted at paths. A nil clock uses the system clock and
// a nil logger discards output.
func New(paths Paths, c clock.Clock, logger *slog.Logger) *Store {
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{paths: paths, clock: c, logger: logger}
}

// Paths returns the layout the store writes to.
func (s *Store) Paths() Paths {
	return s.paths
}

// Append writes one sample to the current log, creating it if needed.
// The line goes out in a single write. If the log ends in an unterminated
// fragment, a newline is written first so the fragment stays its own
// (corrupt) line instead of merging with the new sample.
func (s *Store) Append(sample model.Sample) error {
	if err := os.MkdirAll(s.paths.Dir(), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(s.paths.Current(), os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}

	var line []byte
	terminated, err := endsInNewline(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("check log tail: %w", err)
	}
	if !terminated {
		line = append(line, '\n')
	}
	line = strconv.AppendInt(line, int64(sample), 10)
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("append sample: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// endsInNewline reports whether f is empty or its last byte is '\n'.
func endsInNewline(f *os.File) (bool, error) {
	fi, err := f.Stat()
	if err != nil {
		return false, err
	}
	if fi.Size() == 0 {
		return true, nil
	}
	var b [1]byte
	if _, err := f.ReadAt(b[:], fi.Size()-1); err != nil {
		return false, err
	}
	return b[0] == '\n', nil
}

// LastSample returns the newest valid sample in the current log. An absent
// or empty log, or one without any valid line, yields the clock's now.
// Corrupt lines are skipped and logged.
func (s *Store) LastSample() (model.Sample, error) {
	l, err := s.Read()
	if err != nil {
		return 0, err
	}
	for _, pe := range l.Corrupt {
		s.logger.Warn("skipping corrupt log line", "path", pe.Path, "line", pe.Line, "text", pe.Text)
	}
	if last, ok := l.Last(); ok {
		return last, nil
	}
	return clock.NowSample(s.clock), nil
}

// Read parses the current log.
func (s *Store) Read() (*Log, error) {
	return readLog(s.paths.Current())
}

// ReadArchive parses the last-week log.
func (s *Store) ReadArchive() (*Log, error) {
	return readLog(s.paths.Archive())
}

// Rotate atomically replaces the last-week log with the current one. It
// reports false when there is no current log to move.
func (s *Store) Rotate() (bool, error) {
	err := os.Rename(s.paths.Current(), s.paths.Archive())
	if errors.Is(err, fs.ErrNotExist) {
		if _, statErr := os.Stat(s.paths.Current()); errors.Is(statErr, fs.ErrNotExist) {
			return false, nil
		}
	}
	if err != nil {
		return false, fmt.Errorf("rotate log: %w", err)
	}
	return true, nil
}

func readLog(path string) (*Log, error) {
	l := &Log{Path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	l.Exists = true
	l.Size = int64(len(data))

	for i, raw := range bytes.Split(data, []byte{'\n'}) {
		line := bytes.TrimSpace(raw)
		if len(line) == 0 {
			continue
		}
		v, err := strconv.ParseInt(string(line), 10, 64)
		if err != nil {
			l.Corrupt = append(l.Corrupt, &ParseError{Path: path, Line: i + 1, Text: string(line), Err: err})
			continue
		}
		l.Samples = append(l.Samples, model.Sample(v))
	}
	return l, nil
}
