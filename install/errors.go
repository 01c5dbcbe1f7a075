// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package install

import "errors"

var (
	// ErrWrite indicates a filesystem failure while placing extracted
	// files.
	ErrWrite = errors.New("writing package files failed")

	// ErrRequiredInstall indicates a required collection member failed to
	// install. The orchestration stops at the failing entry; already
	// installed entries are not rolled back.
	ErrRequiredInstall = errors.New("failed to install required package")
)
