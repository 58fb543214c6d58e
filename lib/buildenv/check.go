// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package buildenv

import "fmt"

// forbiddenVars are variables that change how pip installs packages or
// how the Python interpreter resolves them. Any of these being set
// makes the build behave differently from a clean environment, usually
// in ways that surface later as import errors inside the app.
var forbiddenVars = []string{
	"PIP_CACHE_DIR",
	"PIP_PREFIX",
	"PIP_PYTHON",
	"PIP_ROOT",
	"PIP_TARGET",
	"PIP_USER",
	"PYTHONHOME",
	"PYTHONINSPECT",
	"PYTHONNOUSERSITE",
	"PYTHONPLATLIBDIR",
	"PYTHONUSERBASE",
	"VIRTUAL_ENV",
}

// ForbiddenVarError reports a variable that [Check] rejects.
type ForbiddenVarError struct {
	Name string
}

func (e *ForbiddenVarError) Error() string {
	return fmt.Sprintf("forbidden environment variable %s is set", e.Name)
}

// Check rejects environments containing variables known to break
// Python builds. It returns a *ForbiddenVarError naming the first
// offending variable, or nil when the environment is safe.
func Check(env *Env) error {
	for _, name := range forbiddenVars {
		if _, ok := env.Get(name); ok {
			return &ForbiddenVarError{Name: name}
		}
	}
	return nil
}
