// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
)

// ErrIntegrityMismatch reports that artifact bytes do not hash to a
// declared integrity value.
var ErrIntegrityMismatch = errors.New("artifact integrity mismatch")

// Integrity computes the lockfile integrity string for raw artifact bytes:
// "<algorithm>-<hexdigest>". The canonical algorithm is SHA-256.
func Integrity(raw []byte) string {
	d := digest.FromBytes(raw)
	return fmt.Sprintf("%s-%s", d.Algorithm(), d.Encoded())
}

// ParseIntegrity validates an integrity string and returns its digest.
func ParseIntegrity(integrity string) (digest.Digest, error) {
	algo, encoded, ok := strings.Cut(integrity, "-")
	if !ok || algo == "" || encoded == "" {
		return "", fmt.Errorf("invalid integrity %q: want <algorithm>-<hexdigest>", integrity)
	}

	alg := digest.Algorithm(algo)
	if !alg.Available() {
		return "", fmt.Errorf("unsupported integrity algorithm %q", algo)
	}

	d := digest.NewDigestFromEncoded(alg, encoded)
	if err := d.Validate(); err != nil {
		return "", fmt.Errorf("invalid integrity %q: %w", integrity, err)
	}
	return d, nil
}

// Verify checks raw artifact bytes against a declared integrity string.
func Verify(raw []byte, integrity string) error {
	want, err := ParseIntegrity(integrity)
	if err != nil {
		return err
	}

	got := want.Algorithm().FromBytes(raw)
	if got != want {
		return fmt.Errorf("%w: declared %s, computed %s-%s", ErrIntegrityMismatch, integrity, got.Algorithm(), got.Encoded())
	}
	return nil
}
