package logstore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the directory under the base that holds every file.
	DirName = "screen-time"

	currentFile = "week.txt"
	archiveFile = "last-week.txt"
	lockFile    = "screen-time.pid"
	historyFile = "history.db"
)

// Paths resolves the on-disk layout relative to a base directory.
type Paths struct {
	Base string
}

// DefaultPaths uses the user's home directory as the base.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve home dir: %w", err)
	}
	return Paths{Base: home}, nil
}

func (p Paths) Dir() string     { return filepath.Join(p.Base, DirName) }
func (p Paths) Current() string { return filepath.Join(p.Dir(), currentFile) }
func (p Paths) Archive() string { return filepath.Join(p.Dir(), archiveFile) }
func (p Paths) Lock() string    { return filepath.Join(p.Dir(), lockFile) }
func (p Paths) History() string { return filepath.Join(p.Dir(), historyFile) }
