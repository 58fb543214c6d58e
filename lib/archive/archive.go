// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive packs a collected static-file tree into a
// deterministic tar artifact with a verifiable manifest sidecar.
//
// The tar stream is canonical: entries in lexical path order, owner
// and group zeroed, timestamps fixed at the epoch, permissions
// normalized. Equal trees therefore produce byte-equal tar streams,
// and the manifest digest (keyed BLAKE3 over the uncompressed stream)
// identifies the content independently of the compression choice.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/staticpack/staticpack/lib/digest"
)

// Options controls archive creation.
type Options struct {
	// Compression selects the body encoding. The zero value is
	// CompressionNone; callers normally pass CompressionZstd.
	Compression Compression
}

// Create packs sourceDir into destPath and writes the manifest sidecar
// next to it (destPath + ".manifest"). The returned manifest has
// already been written.
func Create(sourceDir, destPath string, options Options) (*Manifest, error) {
	treeDigest, stats, err := digest.Tree(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("creating archive of %s: %w", sourceDir, err)
	}

	file, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating archive %s: %w", destPath, err)
	}

	hasher := digest.NewArchiveHasher()
	manifest, err := writeBody(file, hasher, sourceDir, options.Compression)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("creating archive %s: %w", destPath, err)
	}

	manifest.Files = stats.Files
	manifest.Bytes = stats.Bytes
	manifest.Digest = hasher.Sum().String()
	manifest.TreeDigest = treeDigest.String()
	manifest.CreatedAt = time.Now().UTC()

	if err := WriteManifest(ManifestPath(destPath), manifest); err != nil {
		os.Remove(destPath)
		return nil, err
	}
	return manifest, nil
}

// writeBody writes the compressed tar stream to out while teeing the
// uncompressed stream through hasher.
func writeBody(out io.Writer, hasher *digest.ArchiveHasher, sourceDir string, compression Compression) (*Manifest, error) {
	compressor, err := newCompressWriter(out, compression)
	if err != nil {
		return nil, err
	}

	tarWriter := tar.NewWriter(io.MultiWriter(compressor, hasher))
	if err := writeEntries(tarWriter, sourceDir); err != nil {
		return nil, err
	}
	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return nil, fmt.Errorf("finalizing %s stream: %w", compression, err)
	}

	return &Manifest{Format: ManifestFormat, Compression: compression.String()}, nil
}

func writeEntries(tarWriter *tar.Writer, sourceDir string) error {
	return filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if relative == "." {
			return nil
		}
		name := filepath.ToSlash(relative)

		header := &tar.Header{
			Name:    name,
			ModTime: time.Unix(0, 0).UTC(),
			Format:  tar.FormatPAX,
		}

		switch {
		case entry.IsDir():
			header.Typeflag = tar.TypeDir
			header.Name += "/"
			header.Mode = 0o755
			return tarWriter.WriteHeader(header)

		case entry.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			header.Typeflag = tar.TypeSymlink
			header.Linkname = target
			header.Mode = 0o777
			return tarWriter.WriteHeader(header)

		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				return err
			}
			header.Typeflag = tar.TypeReg
			header.Size = info.Size()
			// Normalize to two modes: executable or not. Builder
			// umasks must not leak into the stream.
			header.Mode = 0o644
			if info.Mode().Perm()&0o111 != 0 {
				header.Mode = 0o755
			}
			if err := tarWriter.WriteHeader(header); err != nil {
				return err
			}
			file, err := os.Open(path)
			if err != nil {
				return err
			}
			written, err := io.Copy(tarWriter, file)
			file.Close()
			if err != nil {
				return err
			}
			if written != info.Size() {
				return fmt.Errorf("%s changed size during archiving (%d != %d)", name, written, info.Size())
			}
			return nil

		default:
			return fmt.Errorf("unsupported file type %v: %s", entry.Type(), name)
		}
	})
}

// VerifyError reports a manifest field that does not match the archive
// contents.
type VerifyError struct {
	Path  string
	Field string
	Want  string
	Got   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("archive %s failed verification: %s mismatch (manifest %s, archive %s)",
		e.Path, e.Field, e.Want, e.Got)
}

// Verify checks archivePath against its manifest sidecar: the digest
// of the uncompressed stream, then the entry count and byte total from
// a tar listing. It reports the first mismatch as a *VerifyError.
func Verify(archivePath string) error {
	manifest, err := ReadManifest(ManifestPath(archivePath))
	if err != nil {
		return err
	}
	compression, err := ParseCompression(manifest.Compression)
	if err != nil {
		return fmt.Errorf("verifying %s: %w", archivePath, err)
	}

	hasher := digest.NewArchiveHasher()
	err = withBody(archivePath, compression, func(body io.Reader) error {
		_, err := io.Copy(hasher, body)
		return err
	})
	if err != nil {
		return fmt.Errorf("verifying %s: %w", archivePath, err)
	}
	if got := hasher.Sum().String(); got != manifest.Digest {
		return &VerifyError{Path: archivePath, Field: "digest", Want: manifest.Digest, Got: got}
	}

	var files int
	var bytes int64
	err = withBody(archivePath, compression, func(body io.Reader) error {
		tarReader := tar.NewReader(body)
		for {
			header, err := tarReader.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			switch header.Typeflag {
			case tar.TypeReg:
				files++
				bytes += header.Size
			case tar.TypeSymlink:
				files++
			}
		}
	})
	if err != nil {
		return fmt.Errorf("verifying %s: %w", archivePath, err)
	}
	if files != manifest.Files {
		return &VerifyError{Path: archivePath, Field: "files",
			Want: fmt.Sprint(manifest.Files), Got: fmt.Sprint(files)}
	}
	if bytes != manifest.Bytes {
		return &VerifyError{Path: archivePath, Field: "bytes",
			Want: fmt.Sprint(manifest.Bytes), Got: fmt.Sprint(bytes)}
	}
	return nil
}

// withBody opens the archive and hands fn the uncompressed body.
func withBody(archivePath string, compression Compression, fn func(io.Reader) error) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	body, release, err := newDecompressReader(file, compression)
	if err != nil {
		return err
	}
	defer release()

	return fn(body)
}
