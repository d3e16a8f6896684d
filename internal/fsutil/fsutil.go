// Package fsutil provides the small set of filesystem operations the
// segment flush writer needs: directory creation, existence checks, and
// glob-based segment discovery.
package fsutil

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates a directory at dirPath with the given permissions.
// If force is false, it creates nothing unless os.Stat reports that the
// path does not exist: an existing path returns nil, and any other
// os.Stat error is returned as is. If the path exists but is not a
// directory, ErrIsNotDir is returned.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && !os.IsNotExist(err) {
		return err
	}
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, permission)
}

// ReadDir returns every path matching the glob pattern dirName.
func ReadDir(dirName string) ([]string, error) {
	return filepath.Glob(dirName)
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
