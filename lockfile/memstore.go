// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests. It applies the same stamping
// rules as FileStore and counts mutations so tests can assert that an
// operation left the lockfile untouched.
type MemStore struct {
	// Clock overrides the timestamp source, defaulting to time.Now.
	Clock func() time.Time

	mu        sync.Mutex
	lf        *Lockfile
	mutations int
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{
		Clock: time.Now,
		lf:    New(),
	}
}

// Load implements Store. The returned lockfile is a deep copy, so holding
// it across a Mutate never observes or causes aliased updates.
func (s *MemStore) Load(_ context.Context) (*Lockfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.lf)
}

// Mutate implements Store.
func (s *MemStore) Mutate(_ context.Context, fn func(*Lockfile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lf, err := clone(s.lf)
	if err != nil {
		return err
	}

	if err := fn(lf); err != nil {
		return err
	}

	lf.Generated = s.Clock().UTC()
	lf.Version = FormatVersion
	lf.LockfileVersion = SchemaGeneration

	s.lf = lf
	s.mutations++
	return nil
}

// Mutations returns how many Mutate calls have been persisted.
func (s *MemStore) Mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutations
}

// clone deep-copies a lockfile through its JSON form.
func clone(lf *Lockfile) (*Lockfile, error) {
	data, err := json.Marshal(lf)
	if err != nil {
		return nil, fmt.Errorf("copying lockfile: %w", err)
	}
	var out Lockfile
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("copying lockfile: %w", err)
	}
	out.normalize()
	return &out, nil
}
