// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import "errors"

// Extraction failures are fatal for the containing install and are never
// retried: archives are untrusted input from a remote registry mirror.
var (
	// ErrCorruptArchive reports a payload that cannot be decompressed or
	// whose tar container breaks mid-stream.
	ErrCorruptArchive = errors.New("corrupt archive")

	// ErrPathTraversal reports an entry whose path is absolute, escapes
	// the archive root, or maps outside the placement prefix.
	ErrPathTraversal = errors.New("archive path traversal")

	// ErrEntryType reports a symlink, hardlink, device, or other
	// non-regular archive entry.
	ErrEntryType = errors.New("disallowed archive entry type")

	// ErrSizeLimit reports decompressed data over the configured limits.
	ErrSizeLimit = errors.New("archive size limit exceeded")
)

// errNotTar distinguishes "this payload is not a tar container at all"
// (legacy single-file artifacts) from a container that breaks after
// yielding entries (corruption).
var errNotTar = errors.New("payload is not a tar container")
