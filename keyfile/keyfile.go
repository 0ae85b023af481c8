// Package keyfile stores serialized key envelopes on the local filesystem.
//
// Files are written owner read/write only (0600) and directories created on
// the way are owner-only as well. The mode is applied explicitly after
// creation so the process umask cannot widen or narrow it.
package keyfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// FilePerm is the mode of every written key file.
	FilePerm os.FileMode = 0o600
	// DirPerm is the mode of directories created for key files.
	DirPerm os.FileMode = 0o700
)

var (
	ErrNotFound = errors.New("keyfile: not found")
	ErrExists   = errors.New("keyfile: already exists")
	ErrIsDir    = errors.New("keyfile: path is a directory")
)

// Exists reports whether something is present at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// writeData writes the payload into the temporary file. Tests replace it to
// simulate a device that fails mid-write.
var writeData = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// Write stores data at path with FilePerm. Without overwrite an existing file
// is left untouched and ErrExists is returned.
//
// The data is written to a temporary file in the target directory and only
// moved onto path once it is complete and synced, so a failed write never
// leaves a partial key file or damages the previous one.
func Write(path string, data []byte, overwrite bool) error {
	if path == "" {
		return errors.New("keyfile: path is required")
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := mkdirAll(dir); err != nil {
			return fmt.Errorf("keyfile: create %s: %w", dir, err)
		}
	}
	if !overwrite {
		exists, err := Exists(path)
		if err != nil {
			return fmt.Errorf("keyfile: stat %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("keyfile: create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(FilePerm); err != nil {
		return fmt.Errorf("keyfile: set permissions on %s: %w", path, err)
	}
	if _, err := writeData(tmp, data); err != nil {
		return fmt.Errorf("keyfile: write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("keyfile: sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("keyfile: close %s: %w", path, err)
	}

	if overwrite {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("keyfile: replace %s: %w", path, err)
		}
	} else {
		// Link fails if path appeared since the existence check.
		if err := os.Link(tmpPath, path); err != nil {
			if errors.Is(err, fs.ErrExist) {
				return fmt.Errorf("%w: %s", ErrExists, path)
			}
			return fmt.Errorf("keyfile: create %s: %w", path, err)
		}
		_ = os.Remove(tmpPath)
	}
	committed = true
	return nil
}

// Read returns the contents of the key file at path.
func Read(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("keyfile: stat %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDir, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keyfile: read %s: %w", path, err)
	}
	return b, nil
}

// Mode returns the permission bits of the file at path.
func Mode(path string) (os.FileMode, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return st.Mode().Perm(), nil
}

func mkdirAll(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return err
	}
	return os.Chmod(dir, DirPerm)
}
