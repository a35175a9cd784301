// Package fsutil writes files so that a reader never observes a partial one.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

const tempPattern = ".gputex-*.tmp"

// TempSibling creates an empty temporary file next to path and returns its
// name. The caller renames it over path with Commit or removes it with Discard.
func TempSibling(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+tempPattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// Commit moves tmp over path.
func Commit(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %q: %w", filepath.Base(tmp), err)
	}
	return nil
}

// Discard removes tmp, ignoring a missing file.
func Discard(tmp string) {
	_ = os.Remove(tmp)
}

// WriteFile writes data to a temporary sibling and renames it over path.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := TempSibling(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, perm); err != nil {
		Discard(tmp)
		return err
	}
	if err := os.Chmod(tmp, perm); err != nil {
		Discard(tmp)
		return err
	}
	return Commit(tmp, path)
}
