// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for staticpack
// packages.
//
// [WriteFile] and [WriteExecutable] lay out app directories and stub
// interpreters for unit tests that must not depend on a real Python
// installation. [CopyTree] clones fixture trees into temp directories,
// preserving symlinks, so tests that run collectstatic never write
// into testdata.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes contents to dir/relative (slash-separated),
// creating parent directories, and returns the absolute path.
func WriteFile(t *testing.T, dir, relative, contents string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directories for %s: %v", relative, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", relative, err)
	}
	return path
}

// WriteExecutable writes an executable script to dir/name and returns
// the absolute path. Use it to stub interpreters:
//
//	python := testutil.WriteExecutable(t, dir, "python3", "#!/bin/sh\nexit 0\n")
func WriteExecutable(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directories for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing executable %s: %v", name, err)
	}
	return path
}

// Symlink creates a symlink at dir/relative pointing at target.
func Symlink(t *testing.T, dir, relative, target string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directories for %s: %v", relative, err)
	}
	if err := os.Symlink(target, path); err != nil {
		t.Fatalf("creating symlink %s -> %s: %v", relative, target, err)
	}
}

// CopyTree copies source into dest recursively. Symlinks are recreated
// with their original targets, not followed; file permissions are
// preserved.
func CopyTree(t *testing.T, source, dest string) {
	t.Helper()
	err := filepath.WalkDir(source, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, relative)

		switch {
		case entry.IsDir():
			return os.MkdirAll(target, 0o755)
		case entry.Type()&fs.ModeSymlink != 0:
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(linkTarget, target)
		default:
			return copyFile(path, target, entry)
		}
	})
	if err != nil {
		t.Fatalf("copying %s to %s: %v", source, dest, err)
	}
}

func copyFile(source, dest string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return err
	}
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
