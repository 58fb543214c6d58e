// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package fsutil provides filesystem probes whose "not there" answers
// are deliberately broad: a path is reported absent not only when the
// final component is missing, but also when a parent component is a
// regular file. App directories are user-controlled, so a stray file
// named like a directory must read as "no such file", not as an error.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// ExistsError reports an I/O failure while checking for a file. Plain
// absence is not an error; this is reserved for genuine failures such
// as permission problems.
type ExistsError struct {
	Path string
	Err  error
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("checking if %s exists: %v", e.Path, e.Err)
}

func (e *ExistsError) Unwrap() error { return e.Err }

// ReadError reports an I/O failure while reading a file that exists.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// FileExists reports whether path names an existing file or directory.
// Symlinks are followed, so a symlink counts only when its target
// exists. A missing path, or a path whose parent component is a regular
// file, is (false, nil). Any other failure is an *ExistsError.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, &ExistsError{Path: path, Err: err}
	}
}

// ReadOptionalFile reads path and reports whether it was present. The
// file being missing, being a directory, or having a regular file as a
// parent component all return ok=false with no error. Any other failure
// is a *ReadError.
func ReadOptionalFile(path string) (contents []byte, ok bool, err error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, syscall.EISDIR),
		errors.Is(err, syscall.ENOTDIR):
		return nil, false, nil
	default:
		return nil, false, &ReadError{Path: path, Err: err}
	}
}
