// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stacklok/agenthive/cmd/ahv/printer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags shared by every subcommand.
var (
	projectRoot string
	registryURL string
	logLevel    string
	logFormat   string
)

// out is the progress printer every command writes through.
var out = printer.New(os.Stdout)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ahv",
	Short: "AgentHive - a package manager for AI assistant configuration",
	Long: `ahv installs versioned, hash-verified configuration packages (rules,
skills, agents, slash-commands) and curated collections from an AgentHive
registry into a local project, and records everything installed in
agenthive-lock.json so the same layout reproduces on every machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called once, by main.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the build-time version information on the CLI.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project", "p", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVar(&registryURL, "registry", "", "Registry base URL (overrides configuration)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
}
