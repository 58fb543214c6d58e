// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"os"
	"time"

	"github.com/staticpack/staticpack/lib/codec"
)

// ManifestFormat is the current manifest format version. Bump only on
// incompatible changes; readers reject versions they do not know.
const ManifestFormat = 1

// Manifest describes an archive. It is written as deterministic CBOR
// in a sidecar file next to the archive.
type Manifest struct {
	// Format is the manifest format version.
	Format int `cbor:"format"`

	// Files counts regular files and symlinks in the archive.
	Files int `cbor:"files"`

	// Bytes is the total size of regular file contents.
	Bytes int64 `cbor:"bytes"`

	// Digest is the hex archive-domain digest of the uncompressed
	// tar stream.
	Digest string `cbor:"digest"`

	// TreeDigest is the hex tree-domain digest of the source
	// directory at pack time. Two archives of identical trees share
	// this value even if their tar encodings ever diverge.
	TreeDigest string `cbor:"tree_digest"`

	// Compression names the body encoding ("none", "lz4", "zstd").
	Compression string `cbor:"compression"`

	// CreatedAt is the pack time in UTC. It does not participate in
	// any digest.
	CreatedAt time.Time `cbor:"created_at"`
}

// ManifestPath returns the sidecar path for an archive.
func ManifestPath(archivePath string) string {
	return archivePath + ".manifest"
}

// WriteManifest writes manifest to path as deterministic CBOR.
func WriteManifest(path string, manifest *Manifest) error {
	data, err := codec.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads and validates a manifest sidecar.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var manifest Manifest
	if err := codec.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	if manifest.Format != ManifestFormat {
		return nil, fmt.Errorf("manifest %s has format %d, this tool reads %d",
			path, manifest.Format, ManifestFormat)
	}
	return &manifest, nil
}
