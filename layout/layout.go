// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package layout maps a (format, subtype) pair to the on-disk placement a
// consumer tool expects. Placement is a data table, so supporting a new
// consumer format is a table entry, not new code.
package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Format identifies a supported consumer tool layout.
type Format string

// The closed set of supported consumer formats.
const (
	// FormatClaude is the Claude Code project layout (.claude/...).
	FormatClaude Format = "claude"

	// FormatCursor is the Cursor rules layout (.cursor/rules/).
	FormatCursor Format = "cursor"

	// FormatWindsurf is the Windsurf rules layout (.windsurf/rules/).
	FormatWindsurf Format = "windsurf"

	// FormatCline is the Cline rules layout (.clinerules/).
	FormatCline Format = "cline"

	// FormatCopilot is the GitHub Copilot instructions layout
	// (.github/instructions/).
	FormatCopilot Format = "copilot"
)

// Subtype identifies the role a package plays within a format.
type Subtype string

// The closed set of package subtypes.
const (
	// SubtypeRule is a passive instruction file.
	SubtypeRule Subtype = "rule"

	// SubtypeAgent is an autonomous agent definition.
	SubtypeAgent Subtype = "agent"

	// SubtypeSkill is a multi-file skill directory.
	SubtypeSkill Subtype = "skill"

	// SubtypeSlashCommand is an invokable command definition.
	SubtypeSlashCommand Subtype = "slash-command"

	// SubtypeCollection marks registry-side bundles. Collections never
	// place files themselves, so no placement exists for this subtype.
	SubtypeCollection Subtype = "collection"
)

// Placement describes where one (format, subtype) pair puts its files,
// relative to the project root.
type Placement struct {
	// Prefix is the directory that receives the package's files.
	Prefix string

	// Flatten drops archive directory structure: every entry lands
	// directly under Prefix under its basename. When false the package
	// is a self-contained directory, Prefix/<package>/<entry path>.
	Flatten bool

	// MainFile is a fixed, case-mandated main filename such as
	// "SKILL.md". Archive entries matching it case-insensitively are
	// renamed to this exact spelling. Empty when the main filename is
	// derived from the package name instead.
	MainFile string

	// MainSuffix derives the main filename from the package name when
	// MainFile is empty: <package><MainSuffix>.
	MainSuffix string
}

// MainFilename returns the canonical main filename for a package installed
// under this placement.
func (p Placement) MainFilename(packageName string) string {
	if p.MainFile != "" {
		return p.MainFile
	}
	return packageName + p.MainSuffix
}

// MandatesMainCase reports whether the placement fixes the exact casing of
// its main filename.
func (p Placement) MandatesMainCase() bool {
	return p.MainFile != ""
}

// placements is the full policy table. Formats that model packages as
// self-contained directories carry one row per subtype; flat formats carry
// a single rule row that every subtype resolves to.
var placements = map[Format]map[Subtype]Placement{
	FormatClaude: {
		SubtypeSkill:        {Prefix: ".claude/skills", MainFile: "SKILL.md"},
		SubtypeAgent:        {Prefix: ".claude/agents", MainFile: "AGENT.md"},
		SubtypeSlashCommand: {Prefix: ".claude/commands", MainFile: "COMMAND.md"},
		SubtypeRule:         {Prefix: ".claude/rules", Flatten: true, MainSuffix: ".md"},
	},
	FormatCursor: {
		SubtypeRule: {Prefix: ".cursor/rules", Flatten: true, MainSuffix: ".mdc"},
	},
	FormatWindsurf: {
		SubtypeRule: {Prefix: ".windsurf/rules", Flatten: true, MainSuffix: ".md"},
	},
	FormatCline: {
		SubtypeRule: {Prefix: ".clinerules", Flatten: true, MainSuffix: ".md"},
	},
	FormatCopilot: {
		SubtypeRule: {Prefix: ".github/instructions", Flatten: true, MainSuffix: ".instructions.md"},
	},
}

// Lookup returns the placement for a format and subtype. Subtypes without
// a dedicated row resolve to the format's rule placement, which is how flat
// formats accept every role.
func Lookup(format Format, subtype Subtype) (Placement, error) {
	if subtype == SubtypeCollection {
		return Placement{}, fmt.Errorf("subtype %q does not place files", subtype)
	}

	rows, ok := placements[format]
	if !ok {
		return Placement{}, fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(FormatNames(), ", "))
	}

	if p, ok := rows[subtype]; ok {
		return p, nil
	}
	if p, ok := rows[SubtypeRule]; ok {
		return p, nil
	}
	return Placement{}, fmt.Errorf("format %q has no placement for subtype %q", format, subtype)
}

// ForInstall returns the effective placement for an install. When the
// target format differs from the published one (an install-time format
// conversion), the target format's flatten rule applies regardless of the
// published subtype.
func ForInstall(target, published Format, subtype Subtype) (Placement, error) {
	if target != published {
		return Lookup(target, SubtypeRule)
	}
	return Lookup(target, subtype)
}

// ParseFormat validates a format name from a manifest or a CLI flag.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := placements[f]; !ok {
		return "", fmt.Errorf("unknown format %q (supported: %s)", s, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// ParseSubtype validates a subtype name from a manifest.
func ParseSubtype(s string) (Subtype, error) {
	st := Subtype(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case SubtypeRule, SubtypeAgent, SubtypeSkill, SubtypeSlashCommand, SubtypeCollection:
		return st, nil
	default:
		return "", fmt.Errorf("unknown subtype %q (supported: rule, agent, skill, slash-command, collection)", s)
	}
}

// FormatNames returns the supported format names sorted alphabetically.
func FormatNames() []string {
	names := make([]string, 0, len(placements))
	for f := range placements {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
