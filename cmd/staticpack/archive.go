// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/staticpack/staticpack/lib/archive"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/staticfiles"
)

// archiveCmd packs an arbitrary directory, for build pipelines that
// generate static files elsewhere but want the same artifact format.
func archiveCmd(args []string, logger *slog.Logger) error {
	flagSet := pflag.NewFlagSet("archive", pflag.ContinueOnError)
	compressionName := flagSet.String("compression", archive.CompressionZstd.String(),
		"archive compression: none, lz4, zstd")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	rest := flagSet.Args()
	if len(rest) != 2 {
		return fmt.Errorf("usage: staticpack archive [flags] <source-dir> <dest>")
	}
	sourceDir, dest := rest[0], rest[1]

	compression, err := archive.ParseCompression(*compressionName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	manifest, err := archive.Create(sourceDir, dest, archive.Options{Compression: compression})
	if err != nil {
		return err
	}
	logger.Debug("archive created", "dest", dest, "digest", manifest.Digest)
	fmt.Printf("Archived %d files (%d bytes) to '%s' (%s).\n",
		manifest.Files, manifest.Bytes, dest, manifest.Compression)
	fmt.Printf("Tree digest: %s\n", manifest.TreeDigest)
	return nil
}

// verifyCmd checks an archive against its manifest sidecar.
func verifyCmd(args []string) error {
	flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	rest := flagSet.Args()
	if len(rest) != 1 {
		return fmt.Errorf("usage: staticpack verify <archive>")
	}
	archivePath := rest[0]

	if err := archive.Verify(archivePath); err != nil {
		staticfiles.RenderError(buildlog.New(os.Stdout, os.Stderr), err)
		return &reportedError{code: 1}
	}

	manifest, err := archive.ReadManifest(archive.ManifestPath(archivePath))
	if err != nil {
		return err
	}
	fmt.Printf("OK: '%s' matches its manifest (%d files, %d bytes, %s).\n",
		archivePath, manifest.Files, manifest.Bytes, manifest.Compression)
	return nil
}
