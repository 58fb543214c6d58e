// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package django runs Django management commands for the static-files
// step: probing whether Django is installed, whether the app carries a
// management script with a working collectstatic command, and finally
// running collectstatic itself.
package django

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/lib/fsutil"
	"github.com/staticpack/staticpack/lib/runcmd"
)

// ManagementScriptName is the Django management script looked up in
// the app root.
const ManagementScriptName = "manage.py"

// Outcome reports what RunCollectstatic did. It is meaningful only
// when the returned error is nil.
type Outcome int

const (
	// OutcomeRan means collectstatic ran to completion.
	OutcomeRan Outcome = iota

	// OutcomeNoManagementScript means the app has no manage.py, so
	// static file generation was skipped.
	OutcomeNoManagementScript

	// OutcomeStaticfilesNotEnabled means manage.py exists but the
	// django.contrib.staticfiles app is not enabled, so generation
	// was skipped.
	OutcomeStaticfilesNotEnabled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRan:
		return "ran"
	case OutcomeNoManagementScript:
		return "no-management-script"
	case OutcomeStaticfilesNotEnabled:
		return "staticfiles-not-enabled"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// InspectError reports that 'manage.py help collectstatic' failed for
// a reason other than the command being unknown: usually broken app
// settings. It wraps the runcmd error, which carries the captured
// stderr when the command ran.
type InspectError struct {
	Err error
}

func (e *InspectError) Error() string {
	return fmt.Sprintf("inspecting Django configuration: %v", e.Err)
}

func (e *InspectError) Unwrap() error { return e.Err }

// CollectstaticError reports that the collectstatic command itself
// failed. Its output has already been streamed to the caller.
type CollectstaticError struct {
	Err error
}

func (e *CollectstaticError) Error() string {
	return fmt.Sprintf("running collectstatic: %v", e.Err)
}

func (e *CollectstaticError) Unwrap() error { return e.Err }

// Options configures RunCollectstatic.
type Options struct {
	// AppDir is the application root containing manage.py.
	AppDir string

	// Python is the interpreter to run manage.py with, as an absolute
	// path resolved against Env's PATH.
	Python string

	// Env is the full explicit environment for the manage.py
	// invocations. App-provided variables must be present here; the
	// settings modules of real apps read them at import time.
	Env *buildenv.Env

	// ExtraArgs are appended to the collectstatic invocation after
	// --noinput.
	ExtraArgs []string

	// Log receives the skip notices and progress lines.
	Log *buildlog.Logger

	// Stdout and Stderr receive collectstatic's streamed output. When
	// nil, Log's writers are used.
	Stdout io.Writer
	Stderr io.Writer
}

func (o *Options) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return o.Log.Stdout()
}

func (o *Options) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return o.Log.Stderr()
}

// Installed reports whether Django is importable in the build. With a
// dependency directory (virtualenv layout), the probe is the
// django-admin entry point script; otherwise django-admin is resolved
// against the environment's PATH.
func Installed(env *buildenv.Env, venvDir string) (bool, error) {
	if venvDir != "" {
		return fsutil.FileExists(filepath.Join(venvDir, "bin", "django-admin"))
	}
	if _, err := env.LookPath("django-admin"); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// HasManagementScript reports whether the app root contains manage.py
// or a symlink to one.
func HasManagementScript(appDir string) (bool, error) {
	return fsutil.FileExists(filepath.Join(appDir, ManagementScriptName))
}

// RunCollectstatic generates the app's static files. Apps without a
// management script, or without the staticfiles feature enabled, are
// skipped with a notice on the build transcript rather than failing:
// plenty of Django apps serve no static files at all.
func RunCollectstatic(ctx context.Context, opts Options) (Outcome, error) {
	exists, err := HasManagementScript(opts.AppDir)
	if err != nil {
		return 0, err
	}
	if !exists {
		opts.Log.Info("Skipping automatic static file generation since no Django 'manage.py'\nscript (or symlink to one) was found in the root directory of your\napplication.")
		return OutcomeNoManagementScript, nil
	}

	enabled, err := hasCollectstaticCommand(ctx, opts)
	if err != nil {
		return 0, err
	}
	if !enabled {
		opts.Log.Info("Skipping automatic static file generation since the 'django.contrib.staticfiles'\nfeature is not enabled in your app's Django configuration.")
		return OutcomeStaticfilesNotEnabled, nil
	}

	opts.Log.Info("Running 'manage.py collectstatic'")
	args := append([]string{ManagementScriptName, "collectstatic", "--noinput"}, opts.ExtraArgs...)
	cmd := runcmd.New(ctx, opts.AppDir, opts.Env.List(), opts.Python, args...)
	if err := runcmd.Stream(cmd, opts.stdout(), opts.stderr()); err != nil {
		return 0, &CollectstaticError{Err: err}
	}
	return OutcomeRan, nil
}

// hasCollectstaticCommand reports whether the app has the
// collectstatic command, which is only registered when
// django.contrib.staticfiles is in INSTALLED_APPS.
//
// The probe is 'help collectstatic' rather than 'help --commands':
// the latter exits zero even when the settings module is broken, so
// it cannot distinguish "feature disabled" from "app misconfigured".
// 'help collectstatic' also imports the app's settings, surfacing
// configuration errors here instead of midway through collection.
func hasCollectstaticCommand(ctx context.Context, opts Options) (bool, error) {
	cmd := runcmd.New(ctx, opts.AppDir, opts.Env.List(), opts.Python,
		ManagementScriptName, "help", "collectstatic")
	_, err := runcmd.Capture(cmd)
	if err == nil {
		return true, nil
	}

	// Django reports a missing command on stderr as "Unknown command"
	// and exits non-zero. That exact failure means the staticfiles
	// feature is disabled; anything else is a real error.
	var outputErr *runcmd.OutputError
	if errors.As(err, &outputErr) && strings.Contains(outputErr.Output.StderrString(), "Unknown command") {
		return false, nil
	}
	return false, &InspectError{Err: err}
}
