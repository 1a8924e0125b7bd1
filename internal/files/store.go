// Package files writes local config files idempotently and keeps a
// timestamped backup of any content it replaces.
package files

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const backupTimeFormat = "20060102-150405"

// Store writes files under arbitrary paths.
type Store struct {
	// Now stamps backup names; tests pin it.
	Now func() time.Time
}

// New returns a Store using the wall clock.
func New() *Store { return &Store{Now: time.Now} }

// Backup copies path to path.<timestamp>.bak and returns the backup path.
func (s *Store) Backup(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mode := fileMode(path)
	dst := path + "." + s.Now().Format(backupTimeFormat) + ".bak"
	if err := os.WriteFile(dst, b, mode); err != nil {
		return "", err
	}
	return dst, nil
}

// Write replaces path with content. Identical content is left alone and
// reported as unchanged. Existing content is backed up first; the new file
// is written to a temp file and renamed into place.
func (s *Store) Write(path string, content []byte) (changed bool, backup string, err error) {
	old, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(old, content) {
			return false, "", nil
		}
		if backup, err = s.Backup(path); err != nil {
			return false, "", err
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return false, "", err
	}

	mode := fileMode(path)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, backup, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		return false, backup, err
	}
	if err = tmp.Close(); err != nil {
		return false, backup, err
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return false, backup, err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return false, backup, err
	}
	return true, backup, nil
}

func fileMode(path string) fs.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return 0o644
}
