// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/stacklok/agenthive/layout"
)

// File is one extracted file: its path as found inside the archive
// (validated and normalized), the project-relative destination it maps to,
// and its raw content and mode.
type File struct {
	RelPath  string
	DestPath string
	Content  []byte
	Mode     int64
}

// Result is the outcome of one extraction. Files appear in archive order.
type Result struct {
	Files []File

	// Root is the project-relative path installs record as their
	// installedPath: the package directory for directory placements, the
	// shared prefix for flattened ones.
	Root string

	// Legacy is true when the payload was a bare compressed file rather
	// than a tar container.
	Legacy bool

	// Notices are human-readable remarks about adjustments made during
	// extraction, such as main filename case normalization.
	Notices []string
}

// Extractor turns raw downloaded artifacts into verified logical files
// with destination paths. It never touches the filesystem, so it is
// testable on byte buffers alone.
type Extractor struct {
	maxFileSize     int64
	maxDecompressed int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxFileSize overrides the per-file size limit.
func WithMaxFileSize(n int64) Option {
	return func(e *Extractor) {
		e.maxFileSize = n
	}
}

// WithMaxDecompressedSize overrides the whole-payload decompression limit.
func WithMaxDecompressedSize(n int64) Option {
	return func(e *Extractor) {
		e.maxDecompressed = n
	}
}

// NewExtractor creates an Extractor with the default size limits.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		maxFileSize:     MaxFileSize,
		maxDecompressed: MaxDecompressedSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract decompresses and unpacks a downloaded artifact, validates every
// entry path, normalizes mandated main filenames, and maps each entry to
// its destination under the placement rule.
//
// A payload whose decompressed form is not a tar container at all is
// treated as a legacy single-file artifact named by the placement's
// canonical main filename. A container that breaks after yielding entries
// is corrupt, not legacy.
func (e *Extractor) Extract(raw []byte, rule layout.Placement, packageName string) (*Result, error) {
	if packageName == "" {
		return nil, fmt.Errorf("package name cannot be empty")
	}

	payload, err := decompressWithLimit(raw, e.maxDecompressed)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: installRoot(rule, packageName)}

	entries, err := walkTar(payload, e.maxFileSize)
	if errors.Is(err, errNotTar) {
		name := rule.MainFilename(packageName)
		res.Legacy = true
		res.Files = []File{{
			RelPath:  name,
			DestPath: destPath(rule, packageName, name),
			Content:  payload,
			Mode:     0o644,
		}}
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	for _, ent := range entries {
		rel := path.Clean(ent.path)

		if rule.MandatesMainCase() {
			rel = normalizeMainFilename(rel, rule.MainFile, &res.Notices)
		}

		dest := destPath(rule, packageName, rel)
		// The entry path was validated before mapping; re-check that the
		// mapped destination stayed under the placement prefix.
		if dest != rule.Prefix && !strings.HasPrefix(dest, rule.Prefix+"/") {
			return nil, fmt.Errorf("%w: entry %s maps outside %s", ErrPathTraversal, ent.path, rule.Prefix)
		}

		res.Files = append(res.Files, File{
			RelPath:  rel,
			DestPath: dest,
			Content:  ent.content,
			Mode:     ent.mode,
		})
	}

	return res, nil
}

// normalizeMainFilename renames an entry whose basename matches the
// mandated main filename case-insensitively but not exactly, recording a
// notice of the substitution. It applies at any directory depth.
func normalizeMainFilename(rel, canonical string, notices *[]string) string {
	dir, base := path.Split(rel)
	if !strings.EqualFold(base, canonical) || base == canonical {
		return rel
	}

	renamed := path.Join(dir, canonical)
	*notices = append(*notices, fmt.Sprintf("renamed %s to %s (canonical main filename)", rel, renamed))
	return renamed
}

// destPath maps one entry to its project-relative destination. Flatten
// placements drop directory structure and keep only the basename.
func destPath(rule layout.Placement, packageName, rel string) string {
	if rule.Flatten {
		return path.Join(rule.Prefix, path.Base(rel))
	}
	return path.Join(rule.Prefix, packageName, rel)
}

// installRoot is the path installs record as installedPath.
func installRoot(rule layout.Placement, packageName string) string {
	if rule.Flatten {
		return rule.Prefix
	}
	return path.Join(rule.Prefix, packageName)
}
