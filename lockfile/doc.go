// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

/*
Package lockfile owns the durable record of what is installed into a
project: the agenthive-lock.json file, its integrity string format, and
the store that mediates every read and write of it.

Nothing else in AgentHive touches the lockfile directly. The installer and
orchestrator mutate it only through [Store.Mutate], whose contract is one
read-merge-write cycle per call: load the whole file, apply the caller's
merge in memory, replace the whole file. [FileStore] holds an advisory
file lock (a sibling .lock file) across the cycle and writes through a
temporary file renamed over the target, so concurrent ahv invocations
against one project serialize instead of losing updates, and no reader
ever sees a half-written file.

# Integrity

Installed artifacts are recorded with an integrity string of the form
"<algorithm>-<hexdigest>" computed over the raw downloaded bytes,
canonically SHA-256:

	integrity := lockfile.Integrity(artifactBytes) // "sha256-ab12…"

[Verify] checks bytes against a declared integrity and reports
[ErrIntegrityMismatch] on disagreement.

# Legacy lockfiles

Generation-0 lockfiles (no lockfileVersion field) stored bare version
strings in the packages map. They load transparently: string rows migrate
to version-only [Package] rows whose integrity backfills the next time the
package is installed, and the file is stamped to the current generation on
its next mutation.

# Testing

[MemStore] implements [Store] in memory with the same stamping rules, plus
a mutation counter for asserting that dry runs leave the lockfile alone.
*/
package lockfile
