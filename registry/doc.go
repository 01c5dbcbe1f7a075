// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package registry provides the client for the AgentHive package registry.

The registry is the remote authority for package metadata, artifact
locations, and collection install plans. This package defines the Client
interface the install engine depends on, the wire types exchanged with the
registry API, and HTTPClient, the default implementation backed by net/http.

All version and dependency-range resolution happens server side. The client
receives already-resolved documents: a PackageInfo names the latest version,
a VersionInfo locates one artifact, and an InstallPlan lists collection
members in install order with versions pinned.

Errors are classified into sentinel values (ErrNotFound, ErrAuthentication,
ErrDownload, ErrRegistry) so callers can branch with errors.Is without
inspecting HTTP status codes. The client performs no retries.
*/
package registry
