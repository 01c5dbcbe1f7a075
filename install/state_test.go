// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state EntryState
		want  string
	}{
		{EntryPending, "pending"},
		{EntryInstalling, "installing"},
		{EntryInstalled, "installed"},
		{EntryFailed, "failed"},
		{EntrySkipped, "skipped"},
		{EntryState(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state    State
		want     string
		terminal bool
	}{
		{StatePlanning, "planning", false},
		{StateDryRunReported, "dry-run-reported", true},
		{StateRunning, "running", false},
		{StateCompleted, "completed", true},
		{StateCompletedOptionalFailures, "completed-with-optional-failures", true},
		{StateAbortedRequiredFailure, "aborted-required-failure", true},
		{State(99), "unknown", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
		assert.Equal(t, tt.terminal, tt.state.Terminal(), "Terminal() for %s", tt.want)
	}
}
