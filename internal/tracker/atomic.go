package tracker

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic replaces the file at path via a temp file in the same directory
// followed by a rename. os.CreateTemp generates an unpredictable name and
// opens with O_EXCL, so a symlink pre-planted at a guessable temp path is
// never followed. On any failure the destination is left untouched and the
// temp file is removed.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tracker-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp tracker: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp tracker: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp tracker: %w", err)
	}

	// Carry over the destination's mode when it already exists.
	if info, err := os.Stat(path); err == nil {
		if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
			return fmt.Errorf("chmod temp tracker: %w", err)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename tracker: %w", err)
	}
	return nil
}
