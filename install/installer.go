// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/stacklok/agenthive/archive"
	"github.com/stacklok/agenthive/cache"
	"github.com/stacklok/agenthive/layout"
	"github.com/stacklok/agenthive/lockfile"
	"github.com/stacklok/agenthive/policy"
	"github.com/stacklok/agenthive/ref"
	"github.com/stacklok/agenthive/registry"
)

// Options configures one package install.
type Options struct {
	// As overrides the effective install format. Empty means the package's
	// published format.
	As layout.Format

	// Output overrides the project root the files are written under.
	Output string

	// FromCollection records provenance on the lockfile row. The
	// orchestrator sets it; direct installs leave it nil.
	FromCollection *lockfile.CollectionRef
}

// Result reports one successful package install.
type Result struct {
	// ID and Version identify what was installed.
	ID      string
	Version string

	// Format and Subtype are the effective values after any conversion.
	Format  layout.Format
	Subtype layout.Subtype

	// InstalledPath is the root path written, relative to the project
	// root.
	InstalledPath string

	// FileCount is the number of files written.
	FileCount int

	// Notices are human-readable remarks from extraction, such as
	// canonical main-filename renames.
	Notices []string
}

// Installer resolves, fetches, verifies, extracts, writes, and records one
// package per call.
type Installer struct {
	registry    registry.Client
	store       lockfile.Store
	fs          FileSystem
	extractor   *archive.Extractor
	cache       *cache.Cache
	gate        *policy.Gate
	logger      *slog.Logger
	projectRoot string
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithCache enables the local artifact cache. Artifacts whose registry
// metadata declares an integrity are served from and written to it.
func WithCache(c *cache.Cache) InstallerOption {
	return func(i *Installer) {
		i.cache = c
	}
}

// WithPolicyGate enables an install policy. Denied packages abort before
// any download.
func WithPolicyGate(g *policy.Gate) InstallerOption {
	return func(i *Installer) {
		i.gate = g
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *slog.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = logger
	}
}

// NewInstaller creates an Installer writing into projectRoot.
func NewInstaller(reg registry.Client, store lockfile.Store, fsys FileSystem, projectRoot string, opts ...InstallerOption) *Installer {
	i := &Installer{
		registry:    reg,
		store:       store,
		fs:          fsys,
		extractor:   archive.NewExtractor(),
		logger:      slog.New(slog.DiscardHandler),
		projectRoot: projectRoot,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InstallPackage installs one package given its specifier. Errors carry
// the offending package id and satisfy errors.Is against the registry,
// archive, lockfile, and policy sentinel errors.
func (i *Installer) InstallPackage(ctx context.Context, spec string, opts Options) (*Result, error) {
	pkg, err := ref.ParsePackage(spec)
	if err != nil {
		return nil, err
	}
	return i.install(ctx, pkg, opts)
}

// install runs the pipeline for an already-parsed package reference.
func (i *Installer) install(ctx context.Context, pkg ref.Package, opts Options) (*Result, error) {
	id := pkg.ID()

	version := pkg.Version
	if version == "" {
		info, err := i.registry.GetPackage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		if info.Latest == "" {
			return nil, fmt.Errorf("%s: registry reports no latest version", id)
		}
		version = info.Latest
	}

	vi, err := i.registry.GetPackageVersion(ctx, id, version)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	published := vi.Manifest.Format
	subtype := vi.Manifest.Subtype

	target := published
	if opts.As != "" {
		target = opts.As
	}

	rule, err := layout.ForInstall(target, published, subtype)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	// A conversion always installs under the target's rule placement.
	installedSubtype := subtype
	if target != published {
		installedSubtype = layout.SubtypeRule
	}

	if i.gate != nil {
		subject := policy.Subject{
			Name:    id,
			Scope:   pkg.Scope,
			Version: version,
			Format:  string(target),
			Subtype: string(installedSubtype),
		}
		if err := i.gate.Allow(subject); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	raw, err := i.fetchArtifact(ctx, id, vi.Dist)
	if err != nil {
		return nil, err
	}

	extracted, err := i.extractor.Extract(raw, rule, pkg.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	root := i.projectRoot
	if opts.Output != "" {
		root = opts.Output
	}

	for _, f := range extracted.Files {
		dest := filepath.Join(root, filepath.FromSlash(f.DestPath))
		mode := fs.FileMode(f.Mode) & 0o777
		if mode == 0 {
			mode = 0o644
		}
		if err := i.fs.WriteFile(dest, f.Content, mode); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWrite, id, err)
		}
	}

	row := lockfile.Package{
		Version:        version,
		Resolved:       vi.Dist.Tarball,
		Integrity:      lockfile.Integrity(raw),
		Dependencies:   vi.Manifest.Dependencies,
		Format:         target,
		Subtype:        installedSubtype,
		SourceFormat:   published,
		SourceSubtype:  subtype,
		InstalledPath:  extracted.Root,
		FromCollection: opts.FromCollection,
	}
	if err := i.store.Mutate(ctx, func(lf *lockfile.Lockfile) error {
		return lf.SetPackage(id, row)
	}); err != nil {
		return nil, fmt.Errorf("%s: recording install: %w", id, err)
	}

	for _, n := range extracted.Notices {
		i.logger.Info("extraction notice", "package", id, "notice", n)
	}
	i.logger.Debug("installed package",
		"package", id,
		"version", version,
		"format", target,
		"subtype", installedSubtype,
		"path", extracted.Root,
		"files", len(extracted.Files),
		"legacy", extracted.Legacy,
	)

	return &Result{
		ID:            id,
		Version:       version,
		Format:        target,
		Subtype:       installedSubtype,
		InstalledPath: extracted.Root,
		FileCount:     len(extracted.Files),
		Notices:       extracted.Notices,
	}, nil
}

// fetchArtifact returns the raw artifact bytes for one version, consulting
// the cache first when the registry declares an integrity. Downloaded
// bytes are verified against the declared integrity before use. Cache
// failures degrade to a download; they never fail the install.
func (i *Installer) fetchArtifact(ctx context.Context, id string, dist registry.Dist) ([]byte, error) {
	if dist.Tarball == "" {
		return nil, fmt.Errorf("%s: version metadata carries no tarball URL", id)
	}

	if i.cache != nil && dist.Integrity != "" {
		data, ok, err := i.cache.Get(ctx, dist.Integrity)
		switch {
		case err != nil:
			i.logger.Warn("artifact cache read failed", "package", id, "error", err)
		case ok:
			i.logger.Debug("artifact cache hit", "package", id, "integrity", dist.Integrity)
			return data, nil
		}
	}

	raw, err := i.registry.DownloadPackage(ctx, dist.Tarball)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}

	if dist.Integrity != "" {
		if err := lockfile.Verify(raw, dist.Integrity); err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
	}

	if i.cache != nil {
		if _, err := i.cache.Put(ctx, raw); err != nil {
			i.logger.Warn("artifact cache write failed", "package", id, "error", err)
		}
	}

	return raw, nil
}
