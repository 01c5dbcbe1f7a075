// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Store owns all access to a project's lockfile. The on-disk file is only
// ever replaced whole: implementations guarantee a reader never observes a
// partially written lockfile and a mutation never loses a concurrent
// writer's update.
type Store interface {
	// Load returns the current lockfile. A missing file is a valid state
	// and loads as an empty lockfile.
	Load(ctx context.Context) (*Lockfile, error)

	// Mutate runs fn against the current lockfile and persists the
	// result as one atomic replacement, stamping the generated
	// timestamp. When fn returns an error nothing is written.
	Mutate(ctx context.Context, fn func(*Lockfile) error) error
}

// FileStore is the on-disk Store. Each Mutate holds an advisory file lock
// for the whole read-merge-write cycle and replaces the lockfile via a
// temporary file and rename.
type FileStore struct {
	path      string
	lockPath  string
	clock     func() time.Time
	lockRetry time.Duration
}

var _ Store = (*FileStore)(nil)

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithClock overrides the timestamp source used to stamp the lockfile's
// generated field. Tests use this to pin timestamps.
func WithClock(clock func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		s.clock = clock
	}
}

// NewFileStore creates a Store for the lockfile inside projectRoot.
func NewFileStore(projectRoot string, opts ...FileStoreOption) *FileStore {
	s := &FileStore{
		path:      filepath.Join(projectRoot, FileName),
		clock:     time.Now,
		lockRetry: 50 * time.Millisecond,
	}
	s.lockPath = s.path + ".lock"

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the lockfile path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*Lockfile, error) {
	return s.load()
}

// Mutate implements Store.
func (s *FileStore) Mutate(ctx context.Context, fn func(*Lockfile) error) error {
	fl := flock.New(s.lockPath)
	locked, err := fl.TryLockContext(ctx, s.lockRetry)
	if err != nil {
		return fmt.Errorf("locking %s: %w", s.lockPath, err)
	}
	if !locked {
		return fmt.Errorf("locking %s: lock not acquired", s.lockPath)
	}
	defer func() { _ = fl.Unlock() }()

	lf, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(lf); err != nil {
		return err
	}

	lf.Generated = s.clock().UTC()
	lf.Version = FormatVersion
	lf.LockfileVersion = SchemaGeneration

	return s.replace(lf)
}

// load reads and decodes the lockfile, returning an empty one when the
// file does not exist yet.
func (s *FileStore) load() (*Lockfile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	lf.normalize()
	return &lf, nil
}

// replace writes the lockfile to a temporary file in the same directory
// and renames it over the target, so readers never observe a partial file.
func (s *FileStore) replace(lf *Lockfile) error {
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing lockfile: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".agenthive-lock-*")
	if err != nil {
		return fmt.Errorf("creating temporary lockfile: %w", err)
	}
	tmpName := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(tmpName)
		if werr != nil {
			return fmt.Errorf("writing temporary lockfile: %w", werr)
		}
		return fmt.Errorf("closing temporary lockfile: %w", cerr)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("setting lockfile permissions: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
