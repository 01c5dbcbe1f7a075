// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package install implements the install engine: it turns a package or
collection specifier into verified files on disk and a durable lockfile
record of what was installed.

# Installer

Installer resolves one package specifier through the registry, fetches and
verifies the artifact (consulting the local artifact cache when one is
configured), extracts it with the archive package, writes every file
through the FileSystem capability, and upserts the package row in the
lockfile store. Writes are not transactional across files; the lockfile is
only updated after every file has been written, so a crash mid-install
never produces a false "installed" record.

# Orchestrator

Orchestrator expands a collection specifier into the registry's resolved
install plan and drives the Installer once per entry, strictly in plan
order. Optional entries that fail are logged and recorded without stopping
the run; a required entry that fails aborts the remaining plan with
ErrRequiredInstall and skips the collection record. Dry-run mode reports
the plan without downloading anything or touching the lockfile.

Neither component retries: the registry client owns transport policy, and
extraction failures are fatal for the containing install.
*/
package install
