// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stacklok/agenthive/layout"
)

const (
	// FileName is the lockfile's name within a project root.
	FileName = "agenthive-lock.json"

	// FormatVersion is the value of the lockfile's "version" field.
	FormatVersion = "1.0.0"

	// SchemaGeneration is the current value of "lockfileVersion". Files
	// without the field are legacy generation 0.
	SchemaGeneration = 1
)

// ErrEmptyIntegrity rejects package rows without a computed integrity. A
// lockfile persisted by this engine never contains an empty integrity for
// a row it wrote.
var ErrEmptyIntegrity = errors.New("lockfile package integrity cannot be empty")

// Lockfile is the durable record of everything installed into one project.
type Lockfile struct {
	// Version is the lockfile format version, currently [FormatVersion].
	Version string `json:"version"`

	// LockfileVersion is the schema generation, currently
	// [SchemaGeneration].
	LockfileVersion int `json:"lockfileVersion"`

	// Packages maps package id to its installed row.
	Packages map[string]Package `json:"packages"`

	// Collections maps "scope/slug" to its installed row.
	Collections map[string]Collection `json:"collections"`

	// Generated is updated on every mutation.
	Generated time.Time `json:"generated"`
}

// Package is one installed package row.
type Package struct {
	Version   string `json:"version"`
	Resolved  string `json:"resolved,omitempty"`
	Integrity string `json:"integrity,omitempty"`

	Dependencies map[string]string `json:"dependencies,omitempty"`

	// Format and Subtype record what the package was installed as, after
	// any conversion. SourceFormat and SourceSubtype record what it was
	// published as.
	Format        layout.Format  `json:"format,omitempty"`
	Subtype       layout.Subtype `json:"subtype,omitempty"`
	SourceFormat  layout.Format  `json:"sourceFormat,omitempty"`
	SourceSubtype layout.Subtype `json:"sourceSubtype,omitempty"`

	// InstalledPath is the root path the install wrote, relative to the
	// project root.
	InstalledPath string `json:"installedPath,omitempty"`

	// FromCollection records provenance when the package was installed
	// as part of a collection.
	FromCollection *CollectionRef `json:"fromCollection,omitempty"`
}

// CollectionRef is the provenance back-reference stored on packages that
// were installed by a collection.
type CollectionRef struct {
	Scope    string `json:"scope"`
	NameSlug string `json:"name_slug"`
	Version  string `json:"version,omitempty"`
}

// Collection is one installed collection row.
type Collection struct {
	Scope    string `json:"scope"`
	NameSlug string `json:"name_slug"`
	Version  string `json:"version"`

	InstalledAt time.Time `json:"installedAt"`

	// Packages lists the member package ids the install attempted.
	Packages []string `json:"packages"`
}

// New returns an empty lockfile ready for mutation. Absence of the file on
// disk is a valid state that loads as this.
func New() *Lockfile {
	lf := &Lockfile{}
	lf.normalize()
	return lf
}

// SetPackage upserts one package row. The row's integrity must be set:
// rows only become visible to the lockfile after a successful download and
// hash, so an empty integrity here is a bug, not a state.
func (l *Lockfile) SetPackage(id string, pkg Package) error {
	if id == "" {
		return fmt.Errorf("package id cannot be empty")
	}
	if pkg.Integrity == "" {
		return fmt.Errorf("package %s: %w", id, ErrEmptyIntegrity)
	}
	l.Packages[id] = pkg
	return nil
}

// SetCollection upserts one collection row keyed by "scope/slug".
func (l *Lockfile) SetCollection(col Collection) error {
	if col.Scope == "" || col.NameSlug == "" {
		return fmt.Errorf("collection scope and slug cannot be empty")
	}
	l.Collections[col.Scope+"/"+col.NameSlug] = col
	return nil
}

// UnmarshalJSON implements json.Unmarshaler. It accepts both the current
// format and the legacy generation-0 format, whose packages map holds bare
// version strings instead of rows.
func (l *Lockfile) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version         string                     `json:"version"`
		LockfileVersion int                        `json:"lockfileVersion"`
		Packages        map[string]json.RawMessage `json:"packages"`
		Collections     map[string]Collection      `json:"collections"`
		Generated       *time.Time                 `json:"generated"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	l.Version = raw.Version
	l.LockfileVersion = raw.LockfileVersion
	l.Collections = raw.Collections
	if raw.Generated != nil {
		l.Generated = *raw.Generated
	}

	l.Packages = make(map[string]Package, len(raw.Packages))
	for id, rawPkg := range raw.Packages {
		pkg, err := decodePackage(rawPkg)
		if err != nil {
			return fmt.Errorf("decoding lockfile package %q: %w", id, err)
		}
		l.Packages[id] = pkg
	}
	return nil
}

// decodePackage decodes one packages-map value. Legacy rows are bare
// version strings and migrate to a version-only row; the integrity
// backfills on the package's next install.
func decodePackage(data []byte) (Package, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var version string
		if err := json.Unmarshal(trimmed, &version); err != nil {
			return Package{}, err
		}
		return Package{Version: version}, nil
	}

	var pkg Package
	if err := json.Unmarshal(trimmed, &pkg); err != nil {
		return Package{}, err
	}
	return pkg, nil
}

// normalize initializes maps and stamps the current format versions so a
// freshly created, loaded, or migrated lockfile is safe to mutate.
func (l *Lockfile) normalize() {
	if l.Version == "" {
		l.Version = FormatVersion
	}
	l.LockfileVersion = SchemaGeneration
	if l.Packages == nil {
		l.Packages = make(map[string]Package)
	}
	if l.Collections == nil {
		l.Collections = make(map[string]Collection)
	}
}
