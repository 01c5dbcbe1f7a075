// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"encoding/json"
	"fmt"

	"github.com/stacklok/agenthive/manifest"
)

// PackageInfo is the package-level metadata document returned by the
// registry. Latest names the version installed when the specifier carries
// no explicit version.
type PackageInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Latest      string   `json:"latest"`
	Versions    []string `json:"versions"`
}

// Dist locates one published artifact. Integrity, when present, is the
// registry-declared content hash of the tarball in algorithm-hexdigest
// form; the installer verifies downloaded bytes against it.
type Dist struct {
	Tarball   string `json:"tarball"`
	Integrity string `json:"integrity,omitempty"`
}

// VersionInfo is the version-level metadata document: the manifest as
// published plus the artifact location.
type VersionInfo struct {
	Manifest manifest.Manifest `json:"manifest"`
	Dist     Dist              `json:"dist"`
}

// CollectionMember is one entry of a collection document as curated.
// Version may be a range; the install plan carries the pinned resolution.
type CollectionMember struct {
	PackageID string `json:"packageId"`
	Version   string `json:"version,omitempty"`
	Required  *bool  `json:"required,omitempty"`
}

// IsRequired reports whether the member is required. Absent means required.
func (m CollectionMember) IsRequired() bool {
	return m.Required == nil || *m.Required
}

// Collection is the registry's collection document.
type Collection struct {
	Scope       string             `json:"scope"`
	NameSlug    string             `json:"name_slug"`
	Version     string             `json:"version"`
	Description string             `json:"description,omitempty"`
	Packages    []CollectionMember `json:"packages"`
}

// Key returns the scope/slug identifier used in lockfiles and output.
func (c Collection) Key() string {
	return c.Scope + "/" + c.NameSlug
}

// PlanRequest asks the registry to expand a collection into an ordered
// install plan. Format, when set, is forwarded so the registry can pin
// format-specific artifacts where they exist.
type PlanRequest struct {
	Scope   string `json:"scope"`
	Slug    string `json:"name_slug"`
	Version string `json:"version,omitempty"`
	Format  string `json:"format,omitempty"`
}

// PlanEntry is one resolved step of an install plan. Version is pinned.
// Format, when non-empty, overrides auto-detection for that entry.
type PlanEntry struct {
	PackageID string `json:"packageId"`
	Version   string `json:"version"`
	Format    string `json:"format,omitempty"`
	Required  bool   `json:"required"`

	// Collection backrefs the owning collection document. The client fills
	// it in after decoding so entries stay self-describing when handed out
	// one at a time.
	Collection *Collection `json:"-"`
}

// UnmarshalJSON decodes a plan entry, defaulting required to true when the
// source document omits it.
func (e *PlanEntry) UnmarshalJSON(data []byte) error {
	type alias PlanEntry
	aux := struct {
		Required *bool `json:"required"`
		*alias
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decoding plan entry: %w", err)
	}

	e.Required = aux.Required == nil || *aux.Required
	return nil
}

// InstallPlan is the registry's resolved expansion of one collection.
// Entries are in install order and must be executed in that order.
type InstallPlan struct {
	Collection Collection  `json:"collection"`
	Entries    []PlanEntry `json:"packagesToInstall"`
	Total      int         `json:"total"`
}

// RequiredCount returns the number of required entries.
func (p *InstallPlan) RequiredCount() int {
	n := 0
	for _, e := range p.Entries {
		if e.Required {
			n++
		}
	}
	return n
}

// OptionalCount returns the number of optional entries.
func (p *InstallPlan) OptionalCount() int {
	return len(p.Entries) - p.RequiredCount()
}

// normalize backfills derived fields after decoding.
func (p *InstallPlan) normalize() {
	if p.Total == 0 {
		p.Total = len(p.Entries)
	}
	for i := range p.Entries {
		p.Entries[i].Collection = &p.Collection
	}
}
