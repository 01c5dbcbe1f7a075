// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is the write capability the installer depends on. It exists
// so tests can install into memory and so callers can interpose sandboxing.
type FileSystem interface {
	// WriteFile writes data to path with the given mode, creating parent
	// directories as needed.
	WriteFile(path string, data []byte, mode fs.FileMode) error
}

// OSFileSystem writes to the real filesystem.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

// WriteFile implements FileSystem.
func (OSFileSystem) WriteFile(path string, data []byte, mode fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
