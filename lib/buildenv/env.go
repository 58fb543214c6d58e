// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package buildenv

import (
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Env is a set of environment variables for a build subprocess. The
// zero value is usable and empty. Env is not safe for concurrent
// mutation.
type Env struct {
	vars map[string]string
}

// New returns an empty Env.
func New() *Env {
	return &Env{vars: make(map[string]string)}
}

// FromCurrent captures the calling process's environment.
func FromCurrent() *Env {
	return FromList(os.Environ())
}

// FromList builds an Env from "NAME=value" entries, later entries
// winning. Entries without '=' or with an empty name are dropped.
func FromList(entries []string) *Env {
	env := New()
	for _, entry := range entries {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		env.vars[name] = value
	}
	return env
}

// Get returns the value of name and whether it is set.
func (e *Env) Get(name string) (string, bool) {
	value, ok := e.vars[name]
	return value, ok
}

// Set sets name to value, replacing any previous value.
func (e *Env) Set(name, value string) {
	if e.vars == nil {
		e.vars = make(map[string]string)
	}
	e.vars[name] = value
}

// Merge sets every variable in vars, replacing previous values.
func (e *Env) Merge(vars map[string]string) {
	for name, value := range vars {
		e.Set(name, value)
	}
}

// Len returns the number of variables set.
func (e *Env) Len() int {
	return len(e.vars)
}

// Clone returns an independent copy.
func (e *Env) Clone() *Env {
	clone := New()
	for name, value := range e.vars {
		clone.vars[name] = value
	}
	return clone
}

// List returns the variables as sorted "NAME=value" entries, the form
// exec.Cmd.Env takes. Sorting keeps subprocess invocations reproducible
// and transcripts diffable.
func (e *Env) List() []string {
	entries := make([]string, 0, len(e.vars))
	for name, value := range e.vars {
		entries = append(entries, name+"="+value)
	}
	sort.Strings(entries)
	return entries
}

// LookPath resolves program against the PATH inside this Env and
// returns an absolute path to the executable. A program containing a
// path separator is resolved directly, like exec.LookPath. Errors are
// *exec.Error values wrapping exec.ErrNotFound so callers can test
// with errors.Is.
func (e *Env) LookPath(program string) (string, error) {
	if strings.ContainsRune(program, os.PathSeparator) {
		if err := isExecutable(program); err != nil {
			return "", &exec.Error{Name: program, Err: err}
		}
		return filepath.Abs(program)
	}
	searchPath, _ := e.Get("PATH")
	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, program)
		if err := isExecutable(candidate); err == nil {
			return filepath.Abs(candidate)
		}
	}
	return "", &exec.Error{Name: program, Err: exec.ErrNotFound}
}

func isExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fs.ErrPermission
	}
	if info.Mode().Perm()&0o111 == 0 {
		return fs.ErrPermission
	}
	return nil
}
