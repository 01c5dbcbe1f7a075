// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stacklok/agenthive/install"
	"github.com/stacklok/agenthive/layout"
	"github.com/stacklok/agenthive/ref"
)

var (
	installAs           string
	installOutput       string
	installDryRun       bool
	installSkipOptional bool
	installCollection   bool
	installNoCache      bool
)

var installCmd = &cobra.Command{
	Use:     "install <spec>...",
	Aliases: []string{"i"},
	Short:   "Install packages or collections from the registry",
	Long: `Install packages or collections from the AgentHive registry into the
current project and record them in agenthive-lock.json.

Package specifiers are "name" or "@scope/name", collections are
"scope/slug" or a bare slug. Either form takes an optional trailing
"@version"; without one the registry's latest version is installed.

Examples:
  ahv install go-style                  # latest version, published format
  ahv install @stacklok/go-style@1.2.0  # pinned version
  ahv install go-style --as cursor      # convert to another assistant
  ahv install stacklok/starter          # a collection
  ahv install starter --dry-run         # resolve the plan, install nothing`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installAs, "as", "",
		"Install for a specific assistant format ("+strings.Join(layout.FormatNames(), ", ")+")")
	installCmd.Flags().StringVarP(&installOutput, "output", "o", "",
		"Write files under this directory instead of the project root")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false,
		"Resolve the install plan without installing (collections only)")
	installCmd.Flags().BoolVar(&installSkipOptional, "skip-optional", false,
		"Skip optional collection members")
	installCmd.Flags().BoolVar(&installCollection, "collection", false,
		"Treat every spec as a collection")
	installCmd.Flags().BoolVar(&installNoCache, "no-cache", false,
		"Bypass the artifact cache")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	eng, err := buildEngine(installNoCache)
	if err != nil {
		return err
	}

	// The --as flag wins over the configured default format.
	as := installAs
	if as == "" {
		as = eng.cfg.Format
	}
	var format layout.Format
	if as != "" {
		format, err = layout.ParseFormat(as)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	for _, spec := range args {
		if installCollection || ref.IsCollectionSpec(spec) {
			if err := installOneCollection(ctx, eng, spec, format); err != nil {
				return err
			}
			continue
		}
		if installDryRun {
			return fmt.Errorf("--dry-run applies to collections only, got package specifier %q", spec)
		}
		if err := installOnePackage(ctx, eng, spec, format); err != nil {
			return err
		}
	}
	return nil
}

func installOnePackage(ctx context.Context, eng *engine, spec string, format layout.Format) error {
	out.Stepf("Installing %s\n", spec)
	res, err := eng.installer.InstallPackage(ctx, spec, install.Options{
		As:     format,
		Output: installOutput,
	})
	if err != nil {
		return err
	}
	for _, notice := range res.Notices {
		out.Warnf("%s\n", notice)
	}
	out.Successf("Installed %s@%s (%s %s) at %s\n",
		res.ID, res.Version, res.Format, res.Subtype, res.InstalledPath)
	return nil
}

func installOneCollection(ctx context.Context, eng *engine, spec string, format layout.Format) error {
	out.Stepf("Installing collection %s\n", spec)
	res, err := eng.orchestrator.InstallCollection(ctx, spec, install.CollectionOptions{
		As:           format,
		Output:       installOutput,
		SkipOptional: installSkipOptional,
		DryRun:       installDryRun,
	})
	// A required-member failure still returns the partial result; show
	// what happened before surfacing the error.
	if res != nil {
		printCollectionResult(res)
	}
	return err
}

func printCollectionResult(res *install.CollectionResult) {
	name := res.Scope + "/" + res.Slug

	if res.DryRun {
		out.Printf("Install plan for %s@%s:\n", name, res.Version)
		for _, e := range res.Entries {
			switch e.State {
			case install.EntrySkipped:
				out.Printf("  %s@%s (optional, skipped)\n", e.PackageID, e.Version)
			default:
				out.Printf("  %s@%s (%s)\n", e.PackageID, e.Version, requirement(e.Required))
			}
		}
		out.Printf("Dry run: %d package(s) would be installed, nothing written.\n", res.Total)
		return
	}

	for _, e := range res.Entries {
		switch e.State {
		case install.EntryInstalled:
			out.Successf("%s@%s at %s\n", e.PackageID, e.Version, e.Result.InstalledPath)
		case install.EntryFailed:
			out.Warnf("%s (%s): %v\n", e.PackageID, requirement(e.Required), e.Err)
		case install.EntrySkipped:
			out.Printf("  %s skipped (optional)\n", e.PackageID)
		}
	}

	switch res.State {
	case install.StateCompleted:
		out.Successf("Collection %s@%s installed (%d package(s))\n", name, res.Version, res.Succeeded)
	case install.StateCompletedOptionalFailures:
		out.Warnf("Collection %s@%s installed with %d optional failure(s) (%d/%d succeeded)\n",
			name, res.Version, res.FailedOptional, res.Succeeded, res.Total)
	case install.StateAbortedRequiredFailure:
		out.Warnf("Collection %s@%s aborted; %d package(s) were installed before the failure\n",
			name, res.Version, res.Succeeded)
	}
}

func requirement(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}
