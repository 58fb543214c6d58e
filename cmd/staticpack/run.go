// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/staticpack/staticpack/lib/archive"
	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/lib/config"
	"github.com/staticpack/staticpack/staticfiles"
)

func runCmd(args []string, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
	appDir := flagSet.String("app-dir", ".", "application root directory")
	configPath := flagSet.String("config", "", "YAML config file (overrides STATICPACK_CONFIG)")
	python := flagSet.String("python", "", "interpreter for manage.py invocations")
	venvDir := flagSet.String("venv", "", "virtualenv directory to probe for Django")
	envEntries := flagSet.StringArray("env", nil, "extra NAME=VALUE for the manage.py environment (repeatable)")
	staticRoot := flagSet.String("static-root", "", "collected tree location, relative to the app root")
	archiveRequested := flagSet.Bool("archive", false, "archive the collected tree after generation")
	archiveDest := flagSet.String("archive-dest", "", "archive destination (implies --archive)")
	compressionName := flagSet.String("compression", "", "archive compression: none, lz4, zstd")
	timeout := flagSet.Duration("timeout", 0, "bound on the manage.py invocations (default from config)")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	configuration, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if configuration.Debug {
		logger = newLogger(true)
	}

	env := buildenv.FromCurrent()
	if err := applyEnvFlags(env, *envEntries); err != nil {
		return err
	}

	step := &staticfiles.Step{
		AppDir:     *appDir,
		Env:        env,
		Python:     configuration.Python,
		VenvDir:    *venvDir,
		Timeout:    configuration.Timeout,
		StaticRoot: *staticRoot,
		Log:        buildlog.New(os.Stdout, os.Stderr),
		Logger:     logger,
	}
	if *python != "" {
		step.Python = *python
	}
	if *timeout > 0 {
		step.Timeout = *timeout
	}

	if *archiveRequested || *archiveDest != "" {
		compression := configuration.Compression()
		if *compressionName != "" {
			compression, err = archive.ParseCompression(*compressionName)
			if err != nil {
				return err
			}
		}
		dest := *archiveDest
		if dest == "" {
			dest = filepath.Join(configuration.Archive.Dir, "static.tar"+compressionExt(compression))
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating archive directory: %w", err)
		}
		step.Archive = &staticfiles.ArchiveOptions{Dest: dest, Compression: compression}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, err := step.Run(ctx)
	if err != nil {
		staticfiles.RenderError(step.Log, err)
		return &reportedError{code: 1}
	}
	logger.Info("static files step finished", "status", result.Status.String())
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyEnvFlags folds repeated --env NAME=VALUE flags into the build
// environment, overriding inherited values.
func applyEnvFlags(env *buildenv.Env, entries []string) error {
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid --env entry %q, want NAME=VALUE", entry)
		}
		env.Set(name, value)
	}
	return nil
}

// compressionExt is the conventional file suffix appended to .tar for
// default archive destinations.
func compressionExt(compression archive.Compression) string {
	switch compression {
	case archive.CompressionLZ4:
		return ".lz4"
	case archive.CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}
