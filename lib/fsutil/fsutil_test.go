// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package fsutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "manage.py")
	if err := os.WriteFile(file, []byte("#!/usr/bin/env python3\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"existing directory", dir, true},
		{"missing file", filepath.Join(dir, "missing.py"), false},
		{"parent is a regular file", filepath.Join(file, "child"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FileExists(tt.path)
			if err != nil {
				t.Fatalf("FileExists(%q): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFileExistsFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "backend", "manage.py")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("print('ok')\n"), 0o644); err != nil {
		t.Fatalf("writing target: %v", err)
	}
	link := filepath.Join(dir, "manage.py")
	if err := os.Symlink(filepath.Join("backend", "manage.py"), link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	got, err := FileExists(link)
	if err != nil {
		t.Fatalf("FileExists(symlink): %v", err)
	}
	if !got {
		t.Error("FileExists(symlink to existing file) = false, want true")
	}

	if err := os.Remove(target); err != nil {
		t.Fatalf("removing target: %v", err)
	}
	got, err = FileExists(link)
	if err != nil {
		t.Fatalf("FileExists(broken symlink): %v", err)
	}
	if got {
		t.Error("FileExists(broken symlink) = true, want false")
	}
}

func TestFileExistsReportsIOErrors(t *testing.T) {
	_, err := FileExists("invalid\x00path")
	var existsErr *ExistsError
	if !errors.As(err, &existsErr) {
		t.Fatalf("FileExists(invalid path) error = %v, want *ExistsError", err)
	}
	if existsErr.Path != "invalid\x00path" {
		t.Errorf("ExistsError.Path = %q", existsErr.Path)
	}
}

func TestReadOptionalFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(file, []byte("django\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	contents, ok, err := ReadOptionalFile(file)
	if err != nil || !ok {
		t.Fatalf("ReadOptionalFile(existing) = ok=%v, err=%v", ok, err)
	}
	if string(contents) != "django\n" {
		t.Errorf("contents = %q, want %q", contents, "django\n")
	}

	for _, path := range []string{
		filepath.Join(dir, "missing.txt"),
		dir,
		filepath.Join(file, "child"),
	} {
		contents, ok, err := ReadOptionalFile(path)
		if err != nil {
			t.Fatalf("ReadOptionalFile(%q): %v", path, err)
		}
		if ok || contents != nil {
			t.Errorf("ReadOptionalFile(%q) = (%q, %v), want absent", path, contents, ok)
		}
	}
}

func TestReadOptionalFileReportsIOErrors(t *testing.T) {
	_, _, err := ReadOptionalFile("invalid\x00path")
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("ReadOptionalFile(invalid path) error = %v, want *ReadError", err)
	}
}
