// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/stacklok/agenthive/lockfile"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packages and collections",
	Long: `List everything recorded in the project's agenthive-lock.json.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output the lockfile as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	store := lockfile.NewFileStore(projectRoot)
	lf, err := store.Load(cmd.Context())
	if err != nil {
		return err
	}

	if listJSON {
		data, err := json.MarshalIndent(lf, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding lockfile: %w", err)
		}
		out.Println(string(data))
		return nil
	}

	if len(lf.Packages) == 0 && len(lf.Collections) == 0 {
		out.Println("Nothing installed.")
		out.Println()
		out.Println("Run 'ahv install <package>' to add one.")
		return nil
	}

	if len(lf.Packages) > 0 {
		printPackageTable(lf)
	}
	if len(lf.Collections) > 0 {
		if len(lf.Packages) > 0 {
			out.Println()
		}
		printCollectionTable(lf)
	}
	return nil
}

func printPackageTable(lf *lockfile.Lockfile) {
	ids := make([]string, 0, len(lf.Packages))
	for id := range lf.Packages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out.Printf("%-30s %-12s %-10s %-10s %s\n", "PACKAGE", "VERSION", "FORMAT", "SUBTYPE", "PATH")
	for _, id := range ids {
		pkg := lf.Packages[id]
		out.Printf("%-30s %-12s %-10s %-10s %s\n",
			id, pkg.Version, pkg.Format, pkg.Subtype, pkg.InstalledPath)
	}
}

func printCollectionTable(lf *lockfile.Lockfile) {
	keys := make([]string, 0, len(lf.Collections))
	for key := range lf.Collections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out.Printf("%-30s %-12s %-22s %s\n", "COLLECTION", "VERSION", "INSTALLED", "PACKAGES")
	for _, key := range keys {
		col := lf.Collections[key]
		out.Printf("%-30s %-12s %-22s %d\n",
			key, col.Version, col.InstalledAt.UTC().Format(time.RFC3339), len(col.Packages))
	}
}
