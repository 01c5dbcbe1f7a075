// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registry

import "context"

//go:generate mockgen -copyright_file=../.github/license-header.txt -source=client.go -destination=mocks/mock_client.go -package=mocks Client

// Client is the registry capability the install engine depends on.
// Implementations classify failures into the package's sentinel errors and
// perform no retries.
type Client interface {
	// GetPackage fetches package-level metadata, including the latest
	// version and the list of published versions.
	GetPackage(ctx context.Context, id string) (*PackageInfo, error)

	// GetPackageVersion fetches one version's manifest and artifact
	// location.
	GetPackageVersion(ctx context.Context, id, version string) (*VersionInfo, error)

	// DownloadPackage fetches the raw artifact bytes at the given URL.
	DownloadPackage(ctx context.Context, artifactURL string) ([]byte, error)

	// GetCollection fetches a collection document. An empty version selects
	// the latest published revision.
	GetCollection(ctx context.Context, scope, slug, version string) (*Collection, error)

	// ResolveInstallPlan expands a collection into an ordered install plan
	// with all member versions pinned.
	ResolveInstallPlan(ctx context.Context, req PlanRequest) (*InstallPlan, error)
}
