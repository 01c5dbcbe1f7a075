// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package lockfile

import (
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrity(t *testing.T) {
	t.Parallel()

	raw := []byte("artifact bytes")
	got := Integrity(raw)

	assert.True(t, strings.HasPrefix(got, "sha256-"), "canonical algorithm is sha256, got %s", got)
	assert.Equal(t, got, Integrity(raw), "same bytes always hash to the same integrity")
	assert.NotEqual(t, got, Integrity([]byte("other bytes")))

	// The hex part is the canonical digest of the same bytes.
	d := digest.FromBytes(raw)
	assert.Equal(t, "sha256-"+d.Encoded(), got)
}

func TestParseIntegrity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid sha256", Integrity([]byte("x")), false},
		{"missing separator", "sha256deadbeef", true},
		{"empty algorithm", "-deadbeef", true},
		{"empty digest", "sha256-", true},
		{"unsupported algorithm", "md5-deadbeef", true},
		{"wrong digest length", "sha256-deadbeef", true},
		{"empty string", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := ParseIntegrity(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, d.Validate())
		})
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	raw := []byte("artifact bytes")

	t.Run("matching bytes pass", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, Verify(raw, Integrity(raw)))
	})

	t.Run("mismatched bytes fail with the sentinel", func(t *testing.T) {
		t.Parallel()
		err := Verify([]byte("tampered"), Integrity(raw))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIntegrityMismatch)
	})

	t.Run("malformed integrity is not a mismatch", func(t *testing.T) {
		t.Parallel()
		err := Verify(raw, "not-an-integrity")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrIntegrityMismatch)
	})
}
