// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package archive turns raw downloaded package artifacts into verified
logical files with destination paths, without touching the filesystem.

Artifacts are untrusted input from a remote registry mirror, so extraction
is a security boundary. Every entry path is validated before it is mapped:
absolute paths, parent-directory escapes, and backslashes are rejected
with [ErrPathTraversal]; symlinks, hardlinks, and device entries with
[ErrEntryType]; and both the decompression stream and each file are capped
to defend against decompression bombs ([ErrSizeLimit]). All of these are
fatal for the containing install and are never retried.

Two payload forms are understood. Modern artifacts are gzip-compressed tar
containers whose entries extract in archive order. Legacy artifacts
predate multi-file packages: the decompressed payload is itself the single
file, and it installs under the placement's canonical main filename. The
fallback only triggers when the payload is not a tar container at all; a
container that breaks mid-stream is [ErrCorruptArchive].

Destination mapping follows the [layout.Placement] passed by the caller:
directory placements preserve archive structure under the package's own
directory, flatten placements keep only basenames under the shared rules
directory. Placements that mandate a main filename case (SKILL.md and
friends) rename case-insensitive matches at any depth and record a notice
on the [Result].
*/
package archive
