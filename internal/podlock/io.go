// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package podlock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the lock file at path. A missing file is the first-install
// state and yields a nil record without error.
func Load(path string) (*Lockfile, error) {
	return LoadWithOptions(path, Options{})
}

func LoadWithOptions(path string, opts Options) (*Lockfile, error) {
	opts = opts.WithDefaults()
	log := opts.LoggerFactory.NewLogger(loggerScope)

	safePath, err := cleanStatePath(path)
	if err != nil {
		return nil, err
	}

	raw, err := opts.ReadFile(safePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("no lock file at %s", safePath)

			return nil, nil //nolint:nilnil // missing lock file is not an error
		}

		return nil, fmt.Errorf("read lock: %w", err)
	}

	data, err := Decode(raw)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			formatErr.Path = safePath
		}

		return nil, err
	}

	lock := New(data)
	lock.setPath(safePath)
	log.Debugf("loaded %s: %d pods", safePath, len(data.Pods))

	return lock, nil
}

// Write encodes the record to path, creating missing parent directories, and
// remembers path as the record's origin.
func (l *Lockfile) Write(path string) error {
	safePath, err := cleanStatePath(path)
	if err != nil {
		return err
	}

	raw, err := Encode(l.data)
	if err != nil {
		return err
	}
	if parentErr := makeParent(safePath); parentErr != nil {
		return parentErr
	}
	if err := writeFile(safePath, raw); err != nil {
		return err
	}
	l.setPath(safePath)

	return nil
}

func makeParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	return nil
}

// writeFile replaces path atomically through a temporary sibling file.
func writeFile(path string, raw []byte) error {
	tmp := path + ".tmp"
	tmpFile, err := openWritableFile(tmp, 0o640)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}

	if _, err := tmpFile.Write(raw); err != nil {
		closeErr := tmpFile.Close()
		removeErr := os.Remove(tmp)

		combined := fmt.Errorf("write lock: %w", err)
		if closeErr != nil {
			combined = errors.Join(combined, fmt.Errorf("close temp file: %w", closeErr))
		}
		if removeErr != nil {
			combined = errors.Join(combined, fmt.Errorf("remove temp file: %w", removeErr))
		}

		return combined
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp: %w", err)
	}

	return nil
}

// cleanStatePath normalises a lock or input path. Paths outside the working
// directory are allowed, so "../pods.lock" works from a nested target.
func cleanStatePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrEmptyPath
	}

	return filepath.Clean(path), nil
}

func openWritableFile(path string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm) //nolint:gosec // path is cleaned by caller
}
