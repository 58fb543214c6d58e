// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package buildenv models the environment handed to build subprocesses.
//
// Subprocesses never inherit the tool's environment implicitly: callers
// assemble an [Env] (usually starting from [FromCurrent]), layer
// project and flag overrides onto it, and pass its [Env.List] form to
// the command runner. The explicit env is the contract the integration
// fixtures test: variables the caller sets must reach 'manage.py', and
// nothing else should.
//
// [Check] rejects variables that change how pip or the Python
// interpreter resolve packages. A build running with, say, PYTHONHOME
// pointed somewhere unexpected fails in ways that look like application
// bugs, so the check runs before any subprocess is spawned.
//
// [Env.LookPath] exists because exec.Command resolves the program name
// against the parent process's PATH, not the PATH inside the child's
// env. When the child env is explicit, resolution has to be too.
package buildenv
