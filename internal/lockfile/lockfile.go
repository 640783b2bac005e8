// Package lockfile keeps a single writer per log directory with an advisory
// lock on a PID file.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("another screen-time instance holds the lock")

// Lock is a held lock. The file stays open for as long as the lock is held.
type Lock struct {
	path string
	f    *os.File
}

// Acquire takes the lock at path without blocking and writes the current
// PID into it. The file is never removed, so every holder locks the same
// inode; if it was replaced underneath us anyway, we lock the new one.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open lock file: %w", err)
		}
		if err := lockFile(f); err != nil {
			f.Close()
			if errors.Is(err, ErrLocked) {
				if pid, ok := ReadPID(path); ok {
					return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
				}
				return nil, ErrLocked
			}
			return nil, fmt.Errorf("lock %s: %w", path, err)
		}

		same, err := isPath(f, path)
		if err != nil {
			_ = unlockFile(f)
			f.Close()
			return nil, err
		}
		if !same {
			_ = unlockFile(f)
			f.Close()
			continue
		}

		if err := writePID(f); err != nil {
			_ = unlockFile(f)
			f.Close()
			return nil, err
		}
		return &Lock{path: path, f: f}, nil
	}
}

// isPath reports whether f is still the file at path.
func isPath(f *os.File, path string) (bool, error) {
	held, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat lock file: %w", err)
	}
	cur, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat lock file: %w", err)
	}
	return os.SameFile(held, cur), nil
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0); err != nil {
		return fmt.Errorf("write lock file: %w", err)
	}
	return nil
}

// Release clears the PID and unlocks. The file itself stays in place.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	truncErr := l.f.Truncate(0)
	unlockErr := unlockFile(l.f)
	closeErr := l.f.Close()
	l.f = nil
	return errors.Join(truncErr, unlockErr, closeErr)
}

// Holder reports the PID of the process holding the lock at path. It only
// reads: a missing file or an unheld lock reports false, and nothing is
// created or written.
func Holder(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	if err := probeFile(f); err == nil {
		return 0, false
	}
	return ReadPID(path)
}

// ReadPID returns the PID recorded at path, if any.
func ReadPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
