// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stacklok/agenthive/layout"
	"github.com/stacklok/agenthive/lockfile"
	"github.com/stacklok/agenthive/ref"
	"github.com/stacklok/agenthive/registry"
)

// CollectionOptions configures one collection install.
type CollectionOptions struct {
	// As overrides the effective install format for every member. Empty
	// defers to each plan entry's format, then to the member's published
	// format.
	As layout.Format

	// Output overrides the project root the files are written under.
	Output string

	// SkipOptional drops optional members from the plan before installing.
	SkipOptional bool

	// DryRun resolves and reports the plan without downloading, writing,
	// or recording anything.
	DryRun bool
}

// EntryResult reports the outcome of one plan entry.
type EntryResult struct {
	PackageID string
	Version   string
	Required  bool

	State EntryState

	// Err is set when State is EntryFailed.
	Err error

	// Result is set when State is EntryInstalled.
	Result *Result
}

// CollectionResult reports one collection install, including partial
// outcomes. It is returned alongside a non-nil error when a required
// member fails.
type CollectionResult struct {
	Scope   string
	Slug    string
	Version string

	State  State
	DryRun bool

	// Entries holds per-member outcomes in plan order, including members
	// skipped by SkipOptional.
	Entries []EntryResult

	// Total counts the members the run set out to install, after the
	// SkipOptional filter.
	Total           int
	Succeeded       int
	FailedOptional  int
	SkippedOptional int
}

// Orchestrator installs collections by resolving a server-side install
// plan and driving the package installer over it in plan order.
type Orchestrator struct {
	registry  registry.Client
	installer *Installer
	store     lockfile.Store
	logger    *slog.Logger
	clock     func() time.Time
}

// NewOrchestrator creates an Orchestrator on top of a package installer.
// The orchestrator shares the installer's logger.
func NewOrchestrator(reg registry.Client, installer *Installer, store lockfile.Store) *Orchestrator {
	return &Orchestrator{
		registry:  reg,
		installer: installer,
		store:     store,
		logger:    installer.logger,
		clock:     time.Now,
	}
}

// InstallCollection resolves the collection's install plan and installs
// its members in plan order. Optional member failures are recorded and do
// not stop the run. A required member failure aborts immediately: already
// installed members stay installed and on the lockfile, no collection row
// is recorded, and the returned error wraps [ErrRequiredInstall] together
// with the partial [CollectionResult].
func (o *Orchestrator) InstallCollection(ctx context.Context, spec string, opts CollectionOptions) (*CollectionResult, error) {
	col, err := ref.ParseCollection(spec)
	if err != nil {
		return nil, err
	}

	plan, err := o.registry.ResolveInstallPlan(ctx, registry.PlanRequest{
		Scope:   col.Scope,
		Slug:    col.Slug,
		Version: col.Version,
		Format:  string(opts.As),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", col.Key(), err)
	}

	res := &CollectionResult{
		Scope:   col.Scope,
		Slug:    col.Slug,
		Version: plan.Collection.Version,
		State:   StatePlanning,
		DryRun:  opts.DryRun,
	}
	if res.Version == "" {
		res.Version = col.Version
	}

	if !opts.DryRun {
		res.State = StateRunning
	}
	provenance := &lockfile.CollectionRef{
		Scope:    col.Scope,
		NameSlug: col.Slug,
		Version:  res.Version,
	}

	attempted := make([]string, 0, len(plan.Entries))
	for _, e := range plan.Entries {
		if opts.SkipOptional && !e.Required {
			res.SkippedOptional++
			res.Entries = append(res.Entries, EntryResult{
				PackageID: e.PackageID,
				Version:   e.Version,
				Required:  false,
				State:     EntrySkipped,
			})
			continue
		}
		res.Total++

		if opts.DryRun {
			res.Entries = append(res.Entries, EntryResult{
				PackageID: e.PackageID,
				Version:   e.Version,
				Required:  e.Required,
				State:     EntryPending,
			})
			continue
		}

		attempted = append(attempted, e.PackageID)
		o.logger.Info("installing collection member",
			"collection", col.Key(),
			"package", e.PackageID,
			"version", e.Version,
			"required", e.Required,
		)

		pkgRes, err := o.installEntry(ctx, e, opts, provenance)
		if err != nil {
			res.Entries = append(res.Entries, EntryResult{
				PackageID: e.PackageID,
				Version:   e.Version,
				Required:  e.Required,
				State:     EntryFailed,
				Err:       err,
			})
			if e.Required {
				res.State = StateAbortedRequiredFailure
				return res, fmt.Errorf("%w %s: %w", ErrRequiredInstall, e.PackageID, err)
			}
			res.FailedOptional++
			o.logger.Warn("optional collection member failed",
				"collection", col.Key(),
				"package", e.PackageID,
				"error", err,
			)
			continue
		}

		res.Succeeded++
		res.Entries = append(res.Entries, EntryResult{
			PackageID: e.PackageID,
			Version:   pkgRes.Version,
			Required:  e.Required,
			State:     EntryInstalled,
			Result:    pkgRes,
		})
	}

	if opts.DryRun {
		res.State = StateDryRunReported
		o.logger.Info("dry run: install plan resolved",
			"collection", col.Key(),
			"version", res.Version,
			"packages", res.Total,
			"skippedOptional", res.SkippedOptional,
		)
		return res, nil
	}

	row := lockfile.Collection{
		Scope:       col.Scope,
		NameSlug:    col.Slug,
		Version:     res.Version,
		InstalledAt: o.clock().UTC(),
		Packages:    attempted,
	}
	if err := o.store.Mutate(ctx, func(lf *lockfile.Lockfile) error {
		return lf.SetCollection(row)
	}); err != nil {
		return res, fmt.Errorf("%s: recording collection: %w", col.Key(), err)
	}

	if res.FailedOptional > 0 {
		res.State = StateCompletedOptionalFailures
	} else {
		res.State = StateCompleted
	}
	o.logger.Info("collection installed",
		"collection", col.Key(),
		"version", res.Version,
		"succeeded", res.Succeeded,
		"failedOptional", res.FailedOptional,
		"skippedOptional", res.SkippedOptional,
	)
	return res, nil
}

// installEntry installs one plan entry. The user's format override wins
// over the plan entry's format.
func (o *Orchestrator) installEntry(ctx context.Context, e registry.PlanEntry, opts CollectionOptions, provenance *lockfile.CollectionRef) (*Result, error) {
	pkg, err := ref.ParsePackage(e.PackageID)
	if err != nil {
		return nil, err
	}
	pkg.Version = e.Version

	as := opts.As
	if as == "" && e.Format != "" {
		parsed, err := layout.ParseFormat(e.Format)
		if err != nil {
			return nil, fmt.Errorf("%s: plan entry format: %w", e.PackageID, err)
		}
		as = parsed
	}

	return o.installer.install(ctx, pkg, Options{
		As:             as,
		Output:         opts.Output,
		FromCollection: provenance,
	})
}
