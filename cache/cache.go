// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cache provides a content-addressed local cache for downloaded
// package artifacts, backed by an OCI Image Layout. Artifacts are keyed by
// their lockfile integrity value, so a re-install with a matching lockfile
// entry never touches the network.
package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content/oci"
	"oras.land/oras-go/v2/errdef"

	"github.com/stacklok/agenthive/lockfile"
)

// ArtifactMediaType is the media type recorded for cached package tarballs.
const ArtifactMediaType = "application/vnd.agenthive.package.v1.tar+gzip"

// Cache is a local artifact cache rooted at an OCI Image Layout directory
// (blobs/, oci-layout, index.json).
type Cache struct {
	root  string
	inner *oci.Store
}

// New creates or opens an artifact cache at the given root directory.
func New(root string) (*Cache, error) {
	inner, err := oci.New(root)
	if err != nil {
		return nil, fmt.Errorf("creating artifact cache at %s: %w", root, err)
	}
	return &Cache{root: root, inner: inner}, nil
}

// CacheRoot returns the artifact cache root within the given cache home
// directory. This is the injectable, testable form. For the standard XDG
// location, use DefaultCacheRoot.
func CacheRoot(cacheHome string) string {
	return filepath.Join(cacheHome, "agenthive", "artifacts")
}

// DefaultCacheRoot returns the default cache root directory using XDG base
// directory conventions.
func DefaultCacheRoot() string {
	return CacheRoot(xdg.CacheHome)
}

// Put stores raw artifact bytes and returns their integrity value.
// Storing the same bytes twice is a no-op.
func (c *Cache) Put(ctx context.Context, data []byte) (string, error) {
	d := digest.FromBytes(data)
	desc := ocispec.Descriptor{
		MediaType: ArtifactMediaType,
		Digest:    d,
		Size:      int64(len(data)),
	}

	if err := c.inner.Push(ctx, desc, bytes.NewReader(data)); err != nil {
		if errors.Is(err, errdef.ErrAlreadyExists) {
			return lockfile.Integrity(data), nil
		}
		return "", fmt.Errorf("writing cached artifact: %w", err)
	}

	return lockfile.Integrity(data), nil
}

// Get retrieves an artifact by its integrity value. A miss returns
// (nil, false, nil). A hit re-verifies the bytes against the requested
// integrity; cached content must never bypass verification.
func (c *Cache) Get(ctx context.Context, integrity string) ([]byte, bool, error) {
	d, err := lockfile.ParseIntegrity(integrity)
	if err != nil {
		return nil, false, err
	}

	// oci.Store's Fetch only uses the Digest field to locate blobs in
	// blobs/<algo>/<hex>.
	rc, err := c.inner.Fetch(ctx, ocispec.Descriptor{Digest: d})
	if err != nil {
		if errors.Is(err, errdef.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached artifact %s: %w", integrity, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("reading cached artifact %s: %w", integrity, err)
	}

	if err := lockfile.Verify(data, integrity); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", integrity, err)
	}

	return data, true, nil
}

// Root returns the cache root directory.
func (c *Cache) Root() string {
	return c.root
}
