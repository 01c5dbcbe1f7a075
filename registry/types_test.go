// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanEntryRequiredDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		doc          string
		wantRequired bool
	}{
		{name: "absent defaults to required", doc: `{"packageId":"pkg1","version":"1.0.0"}`, wantRequired: true},
		{name: "explicit true", doc: `{"packageId":"pkg1","version":"1.0.0","required":true}`, wantRequired: true},
		{name: "explicit false", doc: `{"packageId":"pkg1","version":"1.0.0","required":false}`, wantRequired: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var e PlanEntry
			require.NoError(t, json.Unmarshal([]byte(tc.doc), &e))
			assert.Equal(t, tc.wantRequired, e.Required)
		})
	}
}

func TestPlanEntryMalformed(t *testing.T) {
	t.Parallel()

	var e PlanEntry
	err := json.Unmarshal([]byte(`{"packageId": 42}`), &e)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding plan entry")
}

func TestInstallPlanNormalize(t *testing.T) {
	t.Parallel()

	plan := InstallPlan{
		Collection: Collection{Scope: "stacklok", NameSlug: "go-essentials", Version: "1.0.0"},
		Entries:    []PlanEntry{{PackageID: "pkg1"}, {PackageID: "pkg2"}},
		Total:      7,
	}
	plan.normalize()

	assert.Equal(t, 7, plan.Total, "a server-provided total is kept")
	for i := range plan.Entries {
		assert.Same(t, &plan.Collection, plan.Entries[i].Collection)
	}
}

func TestCollectionKey(t *testing.T) {
	t.Parallel()

	c := Collection{Scope: "stacklok", NameSlug: "go-essentials"}
	assert.Equal(t, "stacklok/go-essentials", c.Key())
}
