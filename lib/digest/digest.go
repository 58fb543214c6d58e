// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the BLAKE3 digests staticpack uses to
// identify build outputs: a canonical digest over a directory tree
// (the collected static files) and a streaming digest over an archive
// body. Each use has its own keyed-hash domain so the same bytes can
// never collide across contexts.
package digest

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// String returns the canonical lowercase hex form used in manifests,
// logs, and CLI output.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Parse parses a 64-character hex string into a Digest.
func Parse(hexString string) (Digest, error) {
	var d Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return d, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != 32 {
		return d, fmt.Errorf("digest is %d bytes, want 32", len(decoded))
	}
	copy(d[:], decoded)
	return d, nil
}

// domainKey is a 32-byte key for BLAKE3 keyed hashing. The byte values
// are the ASCII encoding of the domain name, zero-padded to 32 bytes:
// readable in hex dumps, and opaque as far as the hash is concerned.
// Changing a key invalidates every existing digest in that domain.
type domainKey [32]byte

var (
	treeDomainKey = domainKey{
		's', 't', 'a', 't', 'i', 'c', 'p', 'a', 'c', 'k', '.',
		't', 'r', 'e', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	archiveDomainKey = domainKey{
		's', 't', 'a', 't', 'i', 'c', 'p', 'a', 'c', 'k', '.',
		'a', 'r', 'c', 'h', 'i', 'v', 'e', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

func newKeyed(key domainKey) *blake3.Hasher {
	// NewKeyed only fails for a wrong key length, which the fixed-size
	// type rules out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("digest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

// Stats summarizes the tree a digest covers. Files counts regular
// files and symlinks; Bytes sums regular file sizes.
type Stats struct {
	Files int
	Bytes int64
}

// Tree computes the tree-domain digest of a directory. The canonical
// form feeds, for every regular file and symlink in lexical
// relative-path order: the slash-separated path, a NUL, a type byte
// ('f' or 'l'), and the length-prefixed content (file bytes, or the
// symlink target). Directories contribute nothing; empty directories
// and file permissions are invisible to the digest, since both vary
// with the builder's umask and storage backend.
func Tree(dir string) (Digest, Stats, error) {
	hasher := newKeyed(treeDomainKey)
	var stats Stats

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		relative, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		hasher.WriteString(filepath.ToSlash(relative))
		hasher.Write([]byte{0})

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			hasher.Write([]byte{'l'})
			writeLength(hasher, int64(len(target)))
			hasher.WriteString(target)
			stats.Files++
			return nil
		}
		if !entry.Type().IsRegular() {
			return fmt.Errorf("unsupported file type %v: %s", entry.Type(), relative)
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}
		hasher.Write([]byte{'f'})
		writeLength(hasher, info.Size())

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		written, err := io.Copy(hasher, file)
		file.Close()
		if err != nil {
			return err
		}
		if written != info.Size() {
			return fmt.Errorf("%s changed size during hashing (%d != %d)", relative, written, info.Size())
		}

		stats.Files++
		stats.Bytes += info.Size()
		return nil
	})
	if err != nil {
		return Digest{}, Stats{}, fmt.Errorf("hashing tree %s: %w", dir, err)
	}

	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d, stats, nil
}

func writeLength(hasher *blake3.Hasher, n int64) {
	var buffer [8]byte
	binary.BigEndian.PutUint64(buffer[:], uint64(n))
	hasher.Write(buffer[:])
}

// ArchiveHasher computes the archive-domain digest of a byte stream.
// It is an io.Writer so callers can tee the stream through it.
type ArchiveHasher struct {
	hasher *blake3.Hasher
}

// NewArchiveHasher returns a hasher for an archive body. The digest is
// computed over the uncompressed serialized bytes, so it is stable
// across compression algorithm changes.
func NewArchiveHasher() *ArchiveHasher {
	return &ArchiveHasher{hasher: newKeyed(archiveDomainKey)}
}

func (h *ArchiveHasher) Write(p []byte) (int, error) {
	return h.hasher.Write(p)
}

// Sum returns the digest of everything written so far.
func (h *ArchiveHasher) Sum() Digest {
	var d Digest
	copy(d[:], h.hasher.Sum(nil))
	return d
}
