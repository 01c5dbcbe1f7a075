// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"

	"github.com/stacklok/agenthive/cache"
	"github.com/stacklok/agenthive/config"
	"github.com/stacklok/agenthive/install"
	"github.com/stacklok/agenthive/lockfile"
	"github.com/stacklok/agenthive/logging"
	"github.com/stacklok/agenthive/policy"
	"github.com/stacklok/agenthive/registry"
)

// engine bundles the wired install surface for one invocation.
type engine struct {
	cfg          *config.Config
	installer    *install.Installer
	orchestrator *install.Orchestrator
}

// buildEngine resolves configuration, applies the global flag overrides,
// and wires the install engine. noCache bypasses the artifact cache for
// this invocation.
func buildEngine(noCache bool) (*engine, error) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	if registryURL != "" {
		cfg.Registry = registryURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	client := registry.NewHTTPClient(cfg.Registry, registry.WithUserAgent("ahv/"+version))
	store := lockfile.NewFileStore(projectRoot)

	opts := []install.InstallerOption{install.WithLogger(logger)}
	if !noCache && !cfg.Cache.Disabled {
		root := cfg.Cache.Dir
		if root == "" {
			root = cache.DefaultCacheRoot()
		}
		// A broken cache degrades to plain downloads; it never blocks an
		// install.
		if c, err := cache.New(root); err != nil {
			logger.Warn("artifact cache unavailable", "root", root, "error", err)
		} else {
			opts = append(opts, install.WithCache(c))
		}
	}
	if cfg.Policy != "" {
		gate, err := policy.Compile(cfg.Policy)
		if err != nil {
			return nil, fmt.Errorf("install policy: %w", err)
		}
		opts = append(opts, install.WithPolicyGate(gate))
	}

	installer := install.NewInstaller(client, store, install.OSFileSystem{}, projectRoot, opts...)
	return &engine{
		cfg:          cfg,
		installer:    installer,
		orchestrator: install.NewOrchestrator(client, installer, store),
	}, nil
}

// buildLogger creates the CLI logger. The CLI logs in text next to
// progress output unless configuration or flags say otherwise.
func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	format := logging.FormatText
	if cfg.Log.Format != "" {
		format, err = logging.ParseFormat(cfg.Log.Format)
		if err != nil {
			return nil, err
		}
	}

	return logging.New(logging.WithFormat(format), logging.WithLevel(level)), nil
}
