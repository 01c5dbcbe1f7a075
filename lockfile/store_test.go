// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Load(t *testing.T) {
	t.Parallel()

	t.Run("missing file loads as an empty lockfile", func(t *testing.T) {
		t.Parallel()
		store := NewFileStore(t.TempDir())

		lf, err := store.Load(context.Background())
		require.NoError(t, err)

		assert.Empty(t, lf.Packages)
		assert.Empty(t, lf.Collections)
		assert.Equal(t, FormatVersion, lf.Version)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("{nope"), 0o644))

		_, err := NewFileStore(root).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing")
	})

	t.Run("legacy file loads migrated", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		legacy := []byte(`{"version":"1.0.0","packages":{"go-style":"0.9.0"},"generated":"2024-06-01T12:00:00Z"}`)
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), legacy, 0o644))

		lf, err := NewFileStore(root).Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, SchemaGeneration, lf.LockfileVersion)
		assert.Equal(t, Package{Version: "0.9.0"}, lf.Packages["go-style"])
	})
}

func TestFileStore_Mutate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("creates the lockfile on first mutation", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store := NewFileStore(root, WithClock(clock))

		err := store.Mutate(context.Background(), func(lf *Lockfile) error {
			return lf.SetPackage("go-style", Package{Version: "1.0.0", Integrity: Integrity([]byte("a"))})
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(root, FileName))
		require.NoError(t, err)

		var lf Lockfile
		require.NoError(t, json.Unmarshal(data, &lf))
		assert.Equal(t, FormatVersion, lf.Version)
		assert.Equal(t, SchemaGeneration, lf.LockfileVersion)
		assert.True(t, now.Equal(lf.Generated), "generated stamped from the injected clock")
		assert.Contains(t, lf.Packages, "go-style")
	})

	t.Run("merges into existing state", func(t *testing.T) {
		t.Parallel()
		store := NewFileStore(t.TempDir(), WithClock(clock))
		ctx := context.Background()

		require.NoError(t, store.Mutate(ctx, func(lf *Lockfile) error {
			return lf.SetPackage("a", Package{Version: "1.0.0", Integrity: Integrity([]byte("a"))})
		}))
		require.NoError(t, store.Mutate(ctx, func(lf *Lockfile) error {
			return lf.SetPackage("b", Package{Version: "2.0.0", Integrity: Integrity([]byte("b"))})
		}))

		lf, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, lf.Packages, 2)
	})

	t.Run("an erroring merge writes nothing", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store := NewFileStore(root, WithClock(clock))

		boom := errors.New("boom")
		err := store.Mutate(context.Background(), func(*Lockfile) error { return boom })
		require.ErrorIs(t, err, boom)

		_, statErr := os.Stat(filepath.Join(root, FileName))
		assert.True(t, os.IsNotExist(statErr), "no lockfile should exist after a failed merge")
	})

	t.Run("no temporary files are left behind", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		store := NewFileStore(root, WithClock(clock))

		require.NoError(t, store.Mutate(context.Background(), func(lf *Lockfile) error {
			return lf.SetPackage("a", Package{Version: "1.0.0", Integrity: Integrity([]byte("a"))})
		}))

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".agenthive-lock-", "temp file %s left behind", e.Name())
		}
	})

	t.Run("installing the same row twice is idempotent", func(t *testing.T) {
		t.Parallel()
		store := NewFileStore(t.TempDir(), WithClock(clock))
		ctx := context.Background()

		row := Package{Version: "1.0.0", Integrity: Integrity([]byte("a")), InstalledPath: ".claude/skills/x"}
		for range 2 {
			require.NoError(t, store.Mutate(ctx, func(lf *Lockfile) error {
				return lf.SetPackage("x", row)
			}))
		}

		lf, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, lf.Packages, 1)
		assert.Equal(t, row, lf.Packages["x"])
	})

	t.Run("legacy file is stamped to the current generation on mutation", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		legacy := []byte(`{"version":"1.0.0","packages":{"old":"0.9.0"}}`)
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), legacy, 0o644))

		store := NewFileStore(root, WithClock(clock))
		require.NoError(t, store.Mutate(context.Background(), func(lf *Lockfile) error {
			return lf.SetPackage("new", Package{Version: "1.0.0", Integrity: Integrity([]byte("n"))})
		}))

		data, err := os.ReadFile(filepath.Join(root, FileName))
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		assert.InDelta(t, float64(SchemaGeneration), raw["lockfileVersion"], 0)

		packages, ok := raw["packages"].(map[string]any)
		require.True(t, ok)
		_, isObject := packages["old"].(map[string]any)
		assert.True(t, isObject, "legacy string row should persist as an object row")
	})
}

func TestMemStore(t *testing.T) {
	t.Parallel()

	t.Run("implements the same mutate contract", func(t *testing.T) {
		t.Parallel()
		store := NewMemStore()
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		store.Clock = func() time.Time { return now }
		ctx := context.Background()

		require.NoError(t, store.Mutate(ctx, func(lf *Lockfile) error {
			return lf.SetPackage("a", Package{Version: "1.0.0", Integrity: Integrity([]byte("a"))})
		}))

		lf, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, lf.Packages, "a")
		assert.True(t, now.Equal(lf.Generated))
		assert.Equal(t, 1, store.Mutations())
	})

	t.Run("failed merges are not counted or applied", func(t *testing.T) {
		t.Parallel()
		store := NewMemStore()

		err := store.Mutate(context.Background(), func(lf *Lockfile) error {
			_ = lf.SetPackage("a", Package{Version: "1", Integrity: "sha256-x"})
			return errors.New("boom")
		})
		require.Error(t, err)

		lf, loadErr := store.Load(context.Background())
		require.NoError(t, loadErr)
		assert.Empty(t, lf.Packages)
		assert.Zero(t, store.Mutations())
	})

	t.Run("loads are deep copies", func(t *testing.T) {
		t.Parallel()
		store := NewMemStore()
		ctx := context.Background()

		require.NoError(t, store.Mutate(ctx, func(lf *Lockfile) error {
			return lf.SetPackage("a", Package{Version: "1.0.0", Integrity: Integrity([]byte("a"))})
		}))

		first, err := store.Load(ctx)
		require.NoError(t, err)
		first.Packages["a"] = Package{Version: "tampered", Integrity: "sha256-x"}

		second, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1.0.0", second.Packages["a"].Version)
	})
}
