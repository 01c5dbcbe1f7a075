// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import "errors"

var (
	// ErrNotFound indicates the requested package, version, or collection
	// does not exist in the registry.
	ErrNotFound = errors.New("not found in registry")

	// ErrAuthentication indicates the registry rejected the request for
	// missing or invalid credentials.
	ErrAuthentication = errors.New("registry authentication failed")

	// ErrDownload indicates an artifact download failed at the transport
	// level or returned an unusable response.
	ErrDownload = errors.New("artifact download failed")

	// ErrRegistry indicates a metadata request failed for a reason other
	// than the ones above, such as a server error or a malformed response.
	ErrRegistry = errors.New("registry request failed")
)
