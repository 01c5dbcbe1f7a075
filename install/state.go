// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

// EntryState tracks one plan entry through its install.
type EntryState int

// Entry states, in lifecycle order. Installing entries end as either
// installed or failed; skipped entries never start.
const (
	EntryPending EntryState = iota
	EntryInstalling
	EntryInstalled
	EntryFailed
	EntrySkipped
)

// String returns the state's name for progress output.
func (s EntryState) String() string {
	switch s {
	case EntryPending:
		return "pending"
	case EntryInstalling:
		return "installing"
	case EntryInstalled:
		return "installed"
	case EntryFailed:
		return "failed"
	case EntrySkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// State tracks a collection orchestration as a whole.
type State int

// Orchestration states. A run moves from planning to either a dry-run
// report or execution, and execution ends in one of the three terminal
// states.
const (
	StatePlanning State = iota
	StateDryRunReported
	StateRunning
	StateCompleted
	StateCompletedOptionalFailures
	StateAbortedRequiredFailure
)

// String returns the state's name for progress output.
func (s State) String() string {
	switch s {
	case StatePlanning:
		return "planning"
	case StateDryRunReported:
		return "dry-run-reported"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCompletedOptionalFailures:
		return "completed-with-optional-failures"
	case StateAbortedRequiredFailure:
		return "aborted-required-failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the orchestration has finished, successfully or
// not.
func (s State) Terminal() bool {
	switch s {
	case StateDryRunReported, StateCompleted, StateCompletedOptionalFailures, StateAbortedRequiredFailure:
		return true
	default:
		return false
	}
}
