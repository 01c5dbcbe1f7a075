// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/agenthive/layout"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("plain path files normalize to entries", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{
			"name": "@stacklok/go-style",
			"version": "1.2.3",
			"description": "Go review rules",
			"format": "claude",
			"subtype": "skill",
			"files": ["SKILL.md", "examples/usage.md"],
			"main": "SKILL.md"
		}`)

		m, err := Parse(data)
		require.NoError(t, err)

		assert.Equal(t, "@stacklok/go-style", m.Name)
		assert.Equal(t, "1.2.3", m.Version)
		assert.Equal(t, layout.FormatClaude, m.Format)
		assert.Equal(t, layout.SubtypeSkill, m.Subtype)
		require.Len(t, m.Files, 2)
		assert.Equal(t, FileEntry{Path: "SKILL.md"}, m.Files[0])
		assert.Equal(t, FileEntry{Path: "examples/usage.md"}, m.Files[1])
	})

	t.Run("record files keep per-file metadata", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{
			"name": "mixed-rules",
			"version": "0.3.0",
			"format": "cursor",
			"subtype": "rule",
			"files": [
				{"path": "style.mdc", "format": "cursor", "subtype": "rule"},
				{"path": "extra.mdc"}
			]
		}`)

		m, err := Parse(data)
		require.NoError(t, err)

		require.Len(t, m.Files, 2)
		assert.Equal(t, FileEntry{Path: "style.mdc", Format: layout.FormatCursor, Subtype: layout.SubtypeRule}, m.Files[0])
		assert.Equal(t, FileEntry{Path: "extra.mdc"}, m.Files[1])
	})

	t.Run("missing required fields fail schema validation", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{"name": "no-version", "format": "claude", "subtype": "rule"}`)

		_, err := Parse(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "manifest schema validation failed")
	})

	t.Run("unknown format fails schema validation", func(t *testing.T) {
		t.Parallel()
		data := []byte(`{"name": "x", "version": "1.0.0", "format": "emacs", "subtype": "rule"}`)

		_, err := Parse(data)
		require.Error(t, err)
	})

	t.Run("invalid JSON is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{not json`))
		require.Error(t, err)
	})
}

func TestFileList_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    FileList
		wantErr string
	}{
		{
			name:  "all plain paths",
			input: `["a.md", "sub/b.md"]`,
			want:  FileList{{Path: "a.md"}, {Path: "sub/b.md"}},
		},
		{
			name:  "all records",
			input: `[{"path": "a.md"}, {"path": "b.md", "format": "claude", "subtype": "rule"}]`,
			want: FileList{
				{Path: "a.md"},
				{Path: "b.md", Format: layout.FormatClaude, Subtype: layout.SubtypeRule},
			},
		},
		{
			name:  "empty list",
			input: `[]`,
			want:  nil,
		},
		{
			name:    "mixed paths and records",
			input:   `["a.md", {"path": "b.md"}]`,
			wantErr: "cannot mix",
		},
		{
			name:    "mixed records then paths",
			input:   `[{"path": "a.md"}, "b.md"]`,
			wantErr: "cannot mix",
		},
		{
			name:    "record without path",
			input:   `[{"format": "claude"}]`,
			wantErr: "missing path",
		},
		{
			name:    "number entry",
			input:   `[42]`,
			wantErr: "must be a path string or a file record",
		},
		{
			name:    "not a list",
			input:   `"a.md"`,
			wantErr: "decoding files list",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got FileList
			err := json.Unmarshal([]byte(tc.input), &got)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileList_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("plain entries marshal to path strings", func(t *testing.T) {
		t.Parallel()
		l := FileList{{Path: "a.md"}, {Path: "b.md"}}

		data, err := json.Marshal(l)
		require.NoError(t, err)
		assert.JSONEq(t, `["a.md", "b.md"]`, string(data))
	})

	t.Run("entries with metadata marshal to records", func(t *testing.T) {
		t.Parallel()
		l := FileList{{Path: "a.md", Format: layout.FormatClaude}}

		data, err := json.Marshal(l)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"path": "a.md", "format": "claude"}]`, string(data))
	})
}

func TestManifest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid manifest passes", func(t *testing.T) {
		t.Parallel()
		m := &Manifest{
			Name:    "@stacklok/go-style",
			Version: "1.2.3",
			Format:  layout.FormatClaude,
			Subtype: layout.SubtypeSkill,
			Files:   FileList{{Path: "SKILL.md"}},
		}
		require.NoError(t, m.Validate())
	})

	t.Run("uppercase name fails the pattern", func(t *testing.T) {
		t.Parallel()
		m := &Manifest{
			Name:    "Go-Style",
			Version: "1.2.3",
			Format:  layout.FormatClaude,
			Subtype: layout.SubtypeRule,
		}
		require.Error(t, m.Validate())
	})
}
