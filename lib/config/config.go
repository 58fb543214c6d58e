// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the staticpack
// CLI.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Defaults ([Default])
//  2. A YAML file, named explicitly by the STATICPACK_CONFIG
//     environment variable or the --config flag. There are no search
//     paths and no automatic discovery; a build either names its
//     config or runs on defaults.
//  3. STATICPACK_* environment variables.
//
// The file is optional: a CI step that only sets a variable or two
// should not have to ship a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	caarlos "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/staticpack/staticpack/lib/archive"
)

// EnvConfigFile names the config file, mirroring --config.
const EnvConfigFile = "STATICPACK_CONFIG"

// Config is the tool configuration.
type Config struct {
	// Python is the interpreter for manage.py invocations. A bare
	// name is resolved against the build environment's PATH. A
	// project descriptor or --python flag overrides it per app.
	Python string `yaml:"python" env:"STATICPACK_PYTHON"`

	// Timeout bounds the whole static-files step, inspection and
	// collectstatic together. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" env:"STATICPACK_TIMEOUT"`

	// Debug enables debug-level structured logging.
	Debug bool `yaml:"debug" env:"STATICPACK_DEBUG"`

	// Archive configures artifact creation for --archive runs.
	Archive ArchiveConfig `yaml:"archive" envPrefix:"STATICPACK_ARCHIVE_"`
}

// ArchiveConfig configures the archive step.
type ArchiveConfig struct {
	// Compression names the archive body encoding: none, lz4, zstd.
	Compression string `yaml:"compression" env:"COMPRESSION"`

	// Dir is where --archive runs write artifacts when no explicit
	// destination is given.
	Dir string `yaml:"dir" env:"DIR"`
}

// Default returns the default configuration: python3, no timeout,
// zstd-compressed artifacts under build/.
func Default() *Config {
	return &Config{
		Python: "python3",
		Archive: ArchiveConfig{
			Compression: archive.CompressionZstd.String(),
			Dir:         "build",
		},
	}
}

// Load resolves configuration with no explicit file path: the
// STATICPACK_CONFIG file if the variable is set, defaults otherwise,
// then environment overrides either way.
func Load() (*Config, error) {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return LoadFile(path)
	}
	return FromEnvironment()
}

// LoadFile loads configuration from an explicit YAML file, then
// applies environment overrides and validates.
func LoadFile(path string) (*Config, error) {
	configuration := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, configuration); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := configuration.finish(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return configuration, nil
}

// FromEnvironment returns defaults with environment overrides applied,
// for runs that name no config file.
func FromEnvironment() (*Config, error) {
	configuration := Default()
	if err := configuration.finish(); err != nil {
		return nil, fmt.Errorf("config from environment: %w", err)
	}
	return configuration, nil
}

func (c *Config) finish() error {
	if err := caarlos.Parse(c); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return c.Validate()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Python == "" {
		errs = append(errs, fmt.Errorf("python is required"))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative"))
	}
	if _, err := archive.ParseCompression(c.Archive.Compression); err != nil {
		errs = append(errs, fmt.Errorf("archive.compression: %w", err))
	}
	if c.Archive.Dir == "" {
		errs = append(errs, fmt.Errorf("archive.dir is required"))
	}

	return errors.Join(errs...)
}

// Compression returns the parsed archive compression. Call after
// Validate (or on configs produced by this package, which are always
// validated).
func (c *Config) Compression() archive.Compression {
	compression, err := archive.ParseCompression(c.Archive.Compression)
	if err != nil {
		return archive.CompressionZstd
	}
	return compression
}
