// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package ref parses and validates the package and collection specifiers
// accepted by the install surface.
//
// Package specifiers are `name`, `@scope/name`, or either form with a
// trailing `@version`. Collection specifiers are `scope/slug` (no leading
// `@`) or a bare `slug`, which defaults to the reserved "collection" scope,
// again with an optional trailing `@version`.
package ref

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCollectionScope is the reserved namespace assumed for collection
// specifiers given without an explicit scope.
const DefaultCollectionScope = "collection"

// validPartRegex constrains scope, name, and slug segments: lowercase
// alphanumeric start, then lowercase alphanumeric plus dot, underscore,
// and dash.
var validPartRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Package identifies one package, optionally pinned to a version.
type Package struct {
	// Scope is the registry namespace without the leading @, empty for
	// unscoped packages.
	Scope string

	// Name is the package name within the scope.
	Name string

	// Version pins an exact version. Empty means "latest" as resolved by
	// the registry.
	Version string
}

// ID returns the registry identifier: "name" or "@scope/name".
func (p Package) ID() string {
	if p.Scope == "" {
		return p.Name
	}
	return "@" + p.Scope + "/" + p.Name
}

// String returns the full specifier, including the version pin when set.
func (p Package) String() string {
	if p.Version == "" {
		return p.ID()
	}
	return p.ID() + "@" + p.Version
}

// Collection identifies one collection, optionally pinned to a version.
type Collection struct {
	Scope string
	Slug  string

	// Version pins an exact version. Empty means the registry's latest.
	Version string
}

// Key returns the lockfile key for the collection: "scope/slug".
func (c Collection) Key() string {
	return c.Scope + "/" + c.Slug
}

// String returns the full specifier, including the version pin when set.
func (c Collection) String() string {
	if c.Version == "" {
		return c.Key()
	}
	return c.Key() + "@" + c.Version
}

// IsCollectionSpec reports whether a raw specifier names a collection
// rather than a package: collections are written `scope/slug` without the
// leading @ that marks a scoped package.
func IsCollectionSpec(spec string) bool {
	return !strings.HasPrefix(spec, "@") && strings.Contains(spec, "/")
}

// ParsePackage parses a package specifier.
func ParsePackage(spec string) (Package, error) {
	rest, version, err := splitVersion(spec)
	if err != nil {
		return Package{}, fmt.Errorf("invalid package specifier %q: %w", spec, err)
	}

	var pkg Package
	pkg.Version = version

	if strings.HasPrefix(rest, "@") {
		scope, name, ok := strings.Cut(rest[1:], "/")
		if !ok {
			return Package{}, fmt.Errorf("invalid package specifier %q: scoped form must be @scope/name", spec)
		}
		pkg.Scope = scope
		pkg.Name = name
	} else {
		if strings.Contains(rest, "/") {
			return Package{}, fmt.Errorf("invalid package specifier %q: unscoped names cannot contain a slash", spec)
		}
		pkg.Name = rest
	}

	if pkg.Scope != "" {
		if err := validatePart("scope", pkg.Scope); err != nil {
			return Package{}, fmt.Errorf("invalid package specifier %q: %w", spec, err)
		}
	}
	if err := validatePart("name", pkg.Name); err != nil {
		return Package{}, fmt.Errorf("invalid package specifier %q: %w", spec, err)
	}
	return pkg, nil
}

// ParseCollection parses a collection specifier. A bare slug receives
// [DefaultCollectionScope].
func ParseCollection(spec string) (Collection, error) {
	rest, version, err := splitVersion(spec)
	if err != nil {
		return Collection{}, fmt.Errorf("invalid collection specifier %q: %w", spec, err)
	}
	if strings.HasPrefix(rest, "@") {
		return Collection{}, fmt.Errorf("invalid collection specifier %q: collections are written scope/slug without a leading @", spec)
	}

	col := Collection{Version: version}
	if scope, slug, ok := strings.Cut(rest, "/"); ok {
		col.Scope = scope
		col.Slug = slug
	} else {
		col.Scope = DefaultCollectionScope
		col.Slug = rest
	}

	if err := validatePart("scope", col.Scope); err != nil {
		return Collection{}, fmt.Errorf("invalid collection specifier %q: %w", spec, err)
	}
	if err := validatePart("slug", col.Slug); err != nil {
		return Collection{}, fmt.Errorf("invalid collection specifier %q: %w", spec, err)
	}
	return col, nil
}

// splitVersion splits an optional trailing @version off a specifier. The
// leading @ of a scoped package is not a version separator.
func splitVersion(spec string) (rest, version string, err error) {
	if spec == "" || strings.TrimSpace(spec) == "" {
		return "", "", fmt.Errorf("specifier cannot be empty")
	}

	body := spec
	offset := 0
	if strings.HasPrefix(body, "@") {
		body = body[1:]
		offset = 1
	}

	if i := strings.LastIndex(body, "@"); i >= 0 {
		rest = spec[:offset+i]
		version = body[i+1:]
		if version == "" {
			return "", "", fmt.Errorf("version after @ cannot be empty")
		}
		if strings.ContainsAny(version, " \t/") {
			return "", "", fmt.Errorf("version %q contains invalid characters", version)
		}
		return rest, version, nil
	}
	return spec, "", nil
}

// validatePart validates one specifier segment (scope, name, or slug).
func validatePart(kind, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", kind)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s cannot contain null bytes", kind)
	}
	if value != strings.ToLower(value) {
		return fmt.Errorf("%s must be lowercase: %q", kind, value)
	}
	if !validPartRegex.MatchString(value) {
		return fmt.Errorf("%s can only contain lowercase alphanumeric characters, dots, underscores, and dashes: %q", kind, value)
	}
	return nil
}
