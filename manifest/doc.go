// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package manifest models the package manifest published to the AgentHive
registry and validates it against the embedded JSON schema.

The manifest `files` field is a tagged union on the wire: either every
element is a plain relative path string, or every element is a record
carrying its own path, format, and subtype. Mixing the two forms is
invalid. [FileList] enforces homogeneity during decode and normalizes both
forms into [FileEntry] values, so no code below this package ever sees the
union.

# Usage

Parse raw manifest JSON fetched from the registry:

	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	for _, f := range m.Files {
		fmt.Println(f.Path)
	}

[Parse] schema-validates before decoding; [ValidateBytes] exposes the
schema check on its own for callers that decode elsewhere.
*/
package manifest
