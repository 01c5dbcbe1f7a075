// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the effective ahv configuration from built-in
// defaults, the per-user file under the XDG config home, the project's
// .agenthive.yaml, and environment overrides, in that order. Later layers
// only replace the fields they set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stacklok/agenthive/env"
	"github.com/stacklok/agenthive/layout"
	"github.com/stacklok/agenthive/logging"
	"github.com/stacklok/agenthive/registry"
)

const (
	// ProjectFileName is the per-project configuration file, looked up at
	// the project root.
	ProjectFileName = ".agenthive.yaml"

	// userConfigName is the file name under the user config directory.
	userConfigName = "config.yaml"
)

// Environment variables overriding file configuration. A variable set to
// the empty string is ignored rather than blanking a configured value.
const (
	RegistryEnvVar  = "AGENTHIVE_REGISTRY"
	FormatEnvVar    = "AGENTHIVE_FORMAT"
	PolicyEnvVar    = "AGENTHIVE_POLICY"
	LogLevelEnvVar  = "AGENTHIVE_LOG_LEVEL"
	LogFormatEnvVar = "AGENTHIVE_LOG_FORMAT"
	CacheDirEnvVar  = "AGENTHIVE_CACHE_DIR"
)

// Config is the resolved ahv configuration.
type Config struct {
	// Registry is the registry base URL.
	Registry string `yaml:"registry,omitempty"`

	// Format, when set, is the default install format applied when the
	// user gives no explicit override.
	Format string `yaml:"format,omitempty"`

	// Policy is a CEL expression gating installs. Empty disables the gate.
	Policy string `yaml:"policy,omitempty"`

	Log   Log   `yaml:"log,omitempty"`
	Cache Cache `yaml:"cache,omitempty"`
}

// Log configures the logger. Empty fields defer to the logging package
// defaults.
type Log struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Cache configures the artifact cache.
type Cache struct {
	// Disabled turns the artifact cache off entirely.
	Disabled bool `yaml:"disabled,omitempty"`

	// Dir overrides the cache directory.
	Dir string `yaml:"dir,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Registry: registry.DefaultBaseURL,
	}
}

// Validate checks that every set field parses. It does not compile the
// policy expression; the caller owns that so compile errors surface where
// the gate is built.
func (c *Config) Validate() error {
	if c.Registry == "" {
		return fmt.Errorf("registry URL cannot be empty")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return err
	}
	if c.Format != "" {
		if _, err := layout.ParseFormat(c.Format); err != nil {
			return err
		}
	}
	return nil
}

// UserConfigPath returns the per-user configuration file path under the
// XDG config home.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "agenthive", userConfigName)
}

// loader holds the injectable inputs of Load.
type loader struct {
	env      env.Reader
	userFile string
}

// Option configures Load.
type Option func(*loader)

// WithEnv overrides the environment reader. Tests inject a mock.
func WithEnv(r env.Reader) Option {
	return func(l *loader) {
		l.env = r
	}
}

// WithUserFile overrides the per-user configuration file path.
func WithUserFile(path string) Option {
	return func(l *loader) {
		l.userFile = path
	}
}

// Load resolves the effective configuration for the project rooted at
// projectRoot. Missing configuration files are a valid state, not an error.
func Load(projectRoot string, opts ...Option) (*Config, error) {
	l := &loader{
		env:      &env.OSReader{},
		userFile: UserConfigPath(),
	}
	for _, opt := range opts {
		opt(l)
	}

	cfg := Default()

	layers := []string{l.userFile, filepath.Join(projectRoot, ProjectFileName)}
	for _, path := range layers {
		if err := mergeFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg, l.env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile decodes one YAML layer over the current values. Fields absent
// from the document keep their prior values.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnv applies environment overrides on top of the file layers.
func applyEnv(cfg *Config, r env.Reader) {
	set := func(dst *string, key string) {
		if v, ok := r.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&cfg.Registry, RegistryEnvVar)
	set(&cfg.Format, FormatEnvVar)
	set(&cfg.Policy, PolicyEnvVar)
	set(&cfg.Log.Level, LogLevelEnvVar)
	set(&cfg.Log.Format, LogFormatEnvVar)
	set(&cfg.Cache.Dir, CacheDirEnvVar)
}
