// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxFileSize is the default maximum size of a single archived file
// (100MB). This prevents decompression bombs hidden inside the container.
const MaxFileSize = 100 * 1024 * 1024

// entry is one regular file read out of the tar container.
type entry struct {
	path    string
	content []byte
	mode    int64
}

// walkTar enumerates regular file entries in archive order. A header error
// before the first valid header reports errNotTar so the caller can fall
// back to the legacy single-file form; an error after at least one valid
// header is corruption.
func walkTar(data []byte, maxFileSize int64) ([]entry, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	var entries []entry
	sawHeader := false

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !sawHeader {
				return nil, errNotTar
			}
			return nil, fmt.Errorf("%w: reading tar header: %w", ErrCorruptArchive, err)
		}
		sawHeader = true

		if err := validateEntryPath(hdr.Name); err != nil {
			return nil, err
		}

		// Directory entries carry no content; their structure is implied
		// by the file paths.
		if hdr.Typeflag == tar.TypeDir {
			continue
		}

		if hdr.Typeflag == tar.TypeSymlink || hdr.Typeflag == tar.TypeLink {
			return nil, fmt.Errorf("%w: link %s", ErrEntryType, hdr.Name)
		}
		if hdr.Typeflag != tar.TypeReg {
			return nil, fmt.Errorf("%w: entry type %d: %s", ErrEntryType, hdr.Typeflag, hdr.Name)
		}

		if hdr.Size > maxFileSize {
			return nil, fmt.Errorf("%w: file %s declares %d bytes (limit %d)", ErrSizeLimit, hdr.Name, hdr.Size, maxFileSize)
		}

		// The declared size is untrusted; enforce the limit during the
		// read as well.
		limitedReader := io.LimitReader(tr, maxFileSize+1)
		content, err := io.ReadAll(limitedReader)
		if err != nil {
			return nil, fmt.Errorf("%w: reading tar content for %s: %w", ErrCorruptArchive, hdr.Name, err)
		}
		if int64(len(content)) > maxFileSize {
			return nil, fmt.Errorf("%w: file %s exceeds maximum size of %d bytes", ErrSizeLimit, hdr.Name, maxFileSize)
		}

		entries = append(entries, entry{path: hdr.Name, content: content, mode: hdr.Mode})
	}

	return entries, nil
}

// validateEntryPath checks that a tar entry path is safe to map under the
// extraction root.
func validateEntryPath(p string) error {
	if p == "" || path.Clean(p) == "." {
		return fmt.Errorf("%w: empty entry path", ErrCorruptArchive)
	}
	if path.IsAbs(p) {
		return fmt.Errorf("%w: absolute path not allowed: %s", ErrPathTraversal, p)
	}
	// Backslashes are literal filename bytes in a tar on POSIX but path
	// separators once written on Windows; no published package uses them.
	if strings.ContainsRune(p, '\\') {
		return fmt.Errorf("%w: backslash in path: %s", ErrPathTraversal, p)
	}

	// path.Clean resolves all ".." segments; any remaining leading ".."
	// means the path escapes the archive root.
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%w: %s", ErrPathTraversal, p)
	}
	return nil
}
