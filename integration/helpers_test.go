// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package integration_test runs the static files step against real
// Django fixture projects using the host's Python interpreter. Every
// test skips when python3 or Django is unavailable, so plain unit
// test runs stay hermetic.
package integration_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/lib/testutil"
	"github.com/staticpack/staticpack/staticfiles"
)

// findDjangoPython returns a python3 with Django importable, skipping
// the test otherwise.
func findDjangoPython(t *testing.T) string {
	t.Helper()
	python, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not on PATH")
	}
	if err := exec.Command(python, "-c", "import django").Run(); err != nil {
		t.Skipf("django not importable by %s", python)
	}
	return python
}

// copyFixture clones a fixture into a temp directory so collectstatic
// never writes into testdata.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	dest := t.TempDir()
	testutil.CopyTree(t, filepath.Join("testdata", "fixtures", name), dest)
	return dest
}

// newStep builds a Step against a fixture copy. The build environment
// contains only PATH plus the given vars, the way build pipelines pass
// an explicit environment rather than inheriting the host's. A stub
// venv satisfies the Django installation probe; the real Django comes
// from the host interpreter.
func newStep(t *testing.T, fixture string, vars map[string]string) (*staticfiles.Step, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	python := findDjangoPython(t)
	venv := t.TempDir()
	testutil.WriteExecutable(t, filepath.Join(venv, "bin"), "django-admin", "#!/bin/sh\n")

	env := buildenv.New()
	env.Set("PATH", os.Getenv("PATH"))
	for name, value := range vars {
		env.Set(name, value)
	}

	var out, errOut bytes.Buffer
	return &staticfiles.Step{
		AppDir:  copyFixture(t, fixture),
		Env:     env,
		Python:  python,
		VenvDir: venv,
		Log:     buildlog.New(&out, &errOut),
	}, &out, &errOut
}
