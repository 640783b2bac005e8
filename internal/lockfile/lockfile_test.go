//go:build unix

package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireWritesPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen-time", "screen-time.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.Release()

	pid, ok := ReadPID(path)
	if !ok || pid != os.Getpid() {
		t.Errorf("expected pid %d, got %d (ok=%v)", os.Getpid(), pid, ok)
	}
}

func TestAcquireTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen-time.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer l.Release()

	_, err = Acquire(path)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReleaseAllowsReacquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen-time.pid")

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := l.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected lock file kept, stat err = %v", err)
	}
	if _, ok := ReadPID(path); ok {
		t.Error("expected pid cleared after release")
	}

	l2, err := Acquire(path)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if err := l2.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	// Releasing twice is a no-op.
	if err := l2.Release(); err != nil {
		t.Errorf("second release: %v", err)
	}
}

func TestReadPIDInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pid")
	if _, ok := ReadPID(path); ok {
		t.Error("expected missing file to have no pid")
	}
	os.WriteFile(path, []byte("not a pid"), 0o600)
	if _, ok := ReadPID(path); ok {
		t.Error("expected garbage to have no pid")
	}
}

func TestReleaseKeepsSingleHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen-time.pid")

	a, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}

	// b opened the file while a still held it, and locks after a releases.
	b, err := os.OpenFile(path, os.O_RDWR, 0o600)
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()

	if err := a.Release(); err != nil {
		t.Fatalf("release a: %v", err)
	}
	if err := lockFile(b); err != nil {
		t.Fatalf("lock b: %v", err)
	}
	defer unlockFile(b)

	if c, err := Acquire(path); !errors.Is(err, ErrLocked) {
		if c != nil {
			c.Release()
		}
		t.Fatalf("expected ErrLocked while b holds the lock, got %v", err)
	}
}

func TestHolder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screen-time", "screen-time.pid")

	if _, ok := Holder(path); ok {
		t.Error("expected no holder for missing file")
	}
	if _, err := os.Stat(filepath.Dir(path)); !os.IsNotExist(err) {
		t.Errorf("expected holder check to create nothing, stat err = %v", err)
	}

	l, err := Acquire(path)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	pid, ok := Holder(path)
	if !ok || pid != os.Getpid() {
		t.Errorf("expected holder %d, got %d (ok=%v)", os.Getpid(), pid, ok)
	}
	// Checking must not take the lock away.
	if _, err := Acquire(path); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked after holder check, got %v", err)
	}
	l.Release()

	// A stale pid left in an unheld file reads as no holder.
	if err := os.WriteFile(path, []byte("12345"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := Holder(path); ok {
		t.Error("expected unheld file to have no holder")
	}
}
