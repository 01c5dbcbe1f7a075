// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
)

// MaxDecompressedSize is the default maximum size of decompressed data
// (100MB). This prevents decompression bombs.
const MaxDecompressedSize = 100 * 1024 * 1024

// decompressWithLimit decompresses a gzip payload with a size limit.
func decompressWithLimit(data []byte, maxSize int64) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: creating gzip reader: %w", ErrCorruptArchive, err)
	}
	defer func() { _ = gr.Close() }()

	// Limit read size to prevent decompression bombs
	limitedReader := io.LimitReader(gr, maxSize+1)
	result, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading gzip data: %w", ErrCorruptArchive, err)
	}

	if int64(len(result)) > maxSize {
		return nil, fmt.Errorf("%w: decompressed data exceeds maximum size of %d bytes", ErrSizeLimit, maxSize)
	}

	return result, nil
}
