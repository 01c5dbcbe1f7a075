// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/stacklok/agenthive/layout"
)

// Manifest describes one installable package as published to the registry.
type Manifest struct {
	// Name is the package identifier, optionally scoped as @scope/name.
	Name string `json:"name"`

	// Version is the package's semantic version.
	Version string `json:"version"`

	Description string `json:"description,omitempty"`

	// Format is the consumer tool the package was published for.
	Format layout.Format `json:"format"`

	// Subtype is the role the package plays within the format.
	Subtype layout.Subtype `json:"subtype"`

	// Files lists the package's files. The wire form is a tagged union
	// (all plain paths or all records); it is normalized to [FileEntry]
	// at decode and nothing below this boundary sees the union.
	Files FileList `json:"files,omitempty"`

	// Main names the entry file within the package.
	Main string `json:"main,omitempty"`

	Dependencies     map[string]string `json:"dependencies,omitempty"`
	PeerDependencies map[string]string `json:"peerDependencies,omitempty"`

	License string `json:"license,omitempty"`
}

// FileEntry is the normalized form of one manifest files entry. Entries
// decoded from the plain-path wire form carry only Path.
type FileEntry struct {
	Path    string         `json:"path"`
	Format  layout.Format  `json:"format,omitempty"`
	Subtype layout.Subtype `json:"subtype,omitempty"`
}

// FileList decodes the manifest files union. The wire form is homogeneous:
// either every element is a plain relative path string or every element is
// a file record; mixing the two is a decode error.
type FileList []FileEntry

// UnmarshalJSON implements json.Unmarshaler.
func (l *FileList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding files list: %w", err)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}

	entries := make([]FileEntry, 0, len(raw))
	var sawPath, sawRecord bool
	for i, item := range raw {
		switch firstByte(item) {
		case '"':
			sawPath = true
			var p string
			if err := json.Unmarshal(item, &p); err != nil {
				return fmt.Errorf("decoding files[%d]: %w", i, err)
			}
			entries = append(entries, FileEntry{Path: p})
		case '{':
			sawRecord = true
			var rec FileEntry
			if err := json.Unmarshal(item, &rec); err != nil {
				return fmt.Errorf("decoding files[%d]: %w", i, err)
			}
			if rec.Path == "" {
				return fmt.Errorf("files[%d]: file record is missing path", i)
			}
			entries = append(entries, rec)
		default:
			return fmt.Errorf("files[%d]: entry must be a path string or a file record", i)
		}
		if sawPath && sawRecord {
			return fmt.Errorf("files cannot mix plain paths and file records")
		}
	}

	*l = entries
	return nil
}

// MarshalJSON implements json.Marshaler. Lists whose entries carry no
// per-file format or subtype round-trip to the plain-path wire form.
func (l FileList) MarshalJSON() ([]byte, error) {
	plain := true
	for _, e := range l {
		if e.Format != "" || e.Subtype != "" {
			plain = false
			break
		}
	}
	if plain {
		paths := make([]string, len(l))
		for i, e := range l {
			paths[i] = e.Path
		}
		return json.Marshal(paths)
	}
	return json.Marshal([]FileEntry(l))
}

// firstByte returns the first non-whitespace byte of a JSON value, or 0.
func firstByte(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}

// Parse validates raw manifest JSON against the embedded schema and decodes
// it. The files union is normalized as part of decoding.
func Parse(data []byte) (*Manifest, error) {
	if err := ValidateBytes(data); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}
