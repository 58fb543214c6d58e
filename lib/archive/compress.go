// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the algorithm applied to an archive body.
// The name is recorded in the manifest; Verify uses it to pick the
// matching reader. These values are format constants.
type Compression uint8

const (
	// CompressionNone stores the tar stream as-is. Use when the
	// static root is dominated by already-compressed assets (images,
	// fonts, pre-gzipped bundles).
	CompressionNone Compression = 0

	// CompressionLZ4 uses LZ4 frame compression. Fast with a modest
	// ratio; a reasonable choice when the archive is consumed on the
	// same machine that produced it.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at the default level. The best ratio
	// for the CSS/JS/SVG text that dominates collected static files,
	// and the default.
	CompressionZstd Compression = 2
)

// String returns the name recorded in manifests.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// nopWriteCloser passes writes through and makes Close a no-op, so
// CompressionNone has the same shape as the real compressors without
// closing the underlying file early.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func newCompressWriter(w io.Writer, compression Compression) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("unsupported compression: %d", compression)
	}
}

// newDecompressReader returns a reader over the uncompressed body and
// a release function for decoder resources.
func newDecompressReader(r io.Reader, compression Compression) (io.Reader, func(), error) {
	switch compression {
	case CompressionNone:
		return r, func() {}, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd decoder: %w", err)
		}
		return decoder, decoder.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %d", compression)
	}
}
