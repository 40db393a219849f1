// Package files locates dataset files on disk. Its one non-trivial job is
// reconciling Unicode normalization: the Korean filenames this project ships
// can be stored composed (NFC) or decomposed (NFD) depending on which OS
// wrote them, and a byte-wise comparison silently misses visually identical
// names. All matching here is exact equality after NFC normalization; there
// is no fuzzy matching and no case folding.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound is returned when no directory entry matches the target name
// under canonical Unicode equivalence.
var ErrNotFound = errors.New("no canonically equal entry found")

// FileInfo describes a discovered file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindFile returns the entry in dir whose name is NFC-canonically equal to
// target. Returns ErrNotFound (wrapped) when no entry matches; any other
// error means the directory itself could not be read.
func FindFile(dir, target string) (FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	targetNorm := norm.NFC.String(target)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if norm.NFC.String(entry.Name()) != targetNorm {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return FileInfo{}, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		return FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, nil
	}

	return FileInfo{}, fmt.Errorf("%q in %s: %w", target, dir, ErrNotFound)
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
