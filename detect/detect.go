// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package detect decides whether a directory is a Python project. The
// static-files step refuses to run against arbitrary directories; an
// app has to look like Python before any interpreter is spawned.
package detect

import (
	"path/filepath"

	"github.com/staticpack/staticpack/lib/fsutil"
)

// KnownProjectFiles are the filenames whose presence in an app root
// marks it as a Python project. The list is deliberately generous:
// detection failing on a real Python app is far more annoying than
// detection passing on a polyglot repo.
var KnownProjectFiles = []string{
	".python-version",
	"__init__.py",
	"app.py",
	"main.py",
	"manage.py",
	"pdm.lock",
	"Pipfile",
	"Pipfile.lock",
	"poetry.lock",
	"pyproject.toml",
	"requirements.txt",
	"runtime.txt",
	"server.py",
	"setup.cfg",
	"setup.py",
	"uv.lock",
	// Common misspellings of requirements.txt. Builds that would have
	// worked save for a typo should detect, then fail later with a
	// clear message about the typo'd file.
	"requirement.txt",
	"Requirements.txt",
	"requirements.text",
	"requirements.txt.txt",
	"requirments.txt",
	// Virtual environment directories checked into the app.
	".venv",
	"venv",
}

// IsPythonProject reports whether dir contains any known Python
// project file. Symlinked markers count when their targets exist.
func IsPythonProject(dir string) (bool, error) {
	for _, name := range KnownProjectFiles {
		exists, err := fsutil.FileExists(filepath.Join(dir, name))
		if err != nil {
			return false, err
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
