// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package staticfiles

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/staticpack/staticpack/django"
	"github.com/staticpack/staticpack/lib/archive"
	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/lib/fsutil"
	"github.com/staticpack/staticpack/lib/projectdesc"
	"github.com/staticpack/staticpack/lib/runcmd"
)

// NotPythonProjectError reports an app directory with none of the
// files that mark a Python project.
type NotPythonProjectError struct {
	Dir string
}

func (e *NotPythonProjectError) Error() string {
	return fmt.Sprintf("no Python project files found in %s", e.Dir)
}

// InterpreterError reports that the configured Python interpreter
// could not be resolved in the build environment.
type InterpreterError struct {
	Name string
	Err  error
}

func (e *InterpreterError) Error() string {
	return fmt.Sprintf("resolving interpreter %q: %v", e.Name, e.Err)
}

func (e *InterpreterError) Unwrap() error { return e.Err }

// TimeoutError reports that the manage.py invocations exceeded the
// step's configured timeout. It wraps the command error produced when
// the process group was killed.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("static file generation exceeded %v: %v", e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// internalErrorNotice closes error bodies for failures the app
// developer cannot have caused.
const internalErrorNotice = `This is an unexpected error that could be caused by a bug in this tool,
or an issue with the build environment.

Try building again to see if the error resolves itself.`

// RenderError writes the transcript block for an error returned by
// Run (or by the archive commands). Every typed error gets a specific
// title and remediation text; anything unrecognized falls back to an
// internal error block so the transcript never ends silently.
func RenderError(log *buildlog.Logger, err error) {
	var (
		forbiddenErr   *buildenv.ForbiddenVarError
		notPythonErr   *NotPythonProjectError
		descriptorErr  *projectdesc.InvalidDescriptorError
		interpreterErr *InterpreterError
		timeoutErr     *TimeoutError
		ioErr          *runcmd.IOError
		inspectErr     *django.InspectError
		runErr         *django.CollectstaticError
		existsErr      *fsutil.ExistsError
		readErr        *fsutil.ReadError
		verifyErr      *archive.VerifyError
	)

	switch {
	case errors.As(err, &forbiddenErr):
		log.Error("Unsafe environment variable found", fmt.Sprintf(
			`The environment variable '%s' is set, however, it can
cause problems with the build so we do not allow using it.

You must unset that environment variable. If you didn't set it
yourself, check that it wasn't set by an earlier step of your
build pipeline.`, forbiddenErr.Name))

	case errors.As(err, &notPythonErr):
		log.Error("No Python project files found", fmt.Sprintf(
			`The app directory does not contain any files known to mark a
Python project:
%s

A Python app must have at least one recognized file in its root
directory, such as manage.py, requirements.txt or pyproject.toml.`,
			notPythonErr.Dir))

	case errors.As(err, &descriptorErr):
		log.Error(fmt.Sprintf("Invalid %s", projectdesc.Filename), fmt.Sprintf(
			`The file '%s' could not be used:

%v

Fix the file, or delete it to fall back to the default behavior.`,
			descriptorErr.Path, descriptorErr.Err))

	case errors.As(err, &interpreterErr):
		log.Error("Unable to locate the Python interpreter", fmt.Sprintf(
			`The Python interpreter '%s' was not found in the build environment.

If your app needs a specific interpreter, set the python field in
%s to a name or path that exists inside the build
environment.`, interpreterErr.Name, projectdesc.Filename))

	case errors.As(err, &timeoutErr):
		log.Error("Django static file generation timed out", fmt.Sprintf(
			`The 'manage.py' command invocations did not complete within the
configured timeout of %v.

Check the log output above for a command that hangs, or raise the
timeout if your app legitimately needs longer.`, timeoutErr.Timeout))

	case errors.As(err, &ioErr):
		log.Error(fmt.Sprintf("Unable to run %s", filepath.Base(ioErr.Program)), fmt.Sprintf(
			`An I/O error occurred while trying to run:
`+"`%s`"+`

Details: %v

%s`, ioErr.Program, ioErr.Err, internalErrorNotice))

	case errors.As(err, &inspectErr):
		renderInspectError(log, inspectErr)

	case errors.As(err, &runErr):
		renderCollectstaticError(log, runErr)

	case errors.As(err, &existsErr):
		log.Error(fmt.Sprintf("Unable to check if %s exists", filepath.Base(existsErr.Path)), fmt.Sprintf(
			`An I/O error occurred while checking if this file exists:
%s

Details: %v

%s`, existsErr.Path, existsErr.Err, internalErrorNotice))

	case errors.As(err, &readErr):
		log.Error(fmt.Sprintf("Unable to read %s", filepath.Base(readErr.Path)), fmt.Sprintf(
			`An I/O error occurred while reading the file:
%s

Details: %v

%s`, readErr.Path, readErr.Err, internalErrorNotice))

	case errors.As(err, &verifyErr):
		log.Error("Archive verification failed", fmt.Sprintf(
			`The archive does not match its manifest:
%s

The %s recorded at pack time is %s, but the archive
contains %s. The archive was corrupted or modified after it
was written. Regenerate it from the original static files.`,
			verifyErr.Path, verifyErr.Field, verifyErr.Want, verifyErr.Got))

	default:
		log.Error("Internal error", fmt.Sprintf(
			`Error: %v

%s`, err, internalErrorNotice))
	}
}

// renderInspectError handles 'manage.py help collectstatic' failing
// for a reason other than an I/O error (those unwrap to runcmd.IOError
// and are rendered above). The captured stderr is the payload: it is
// the app's own traceback.
func renderInspectError(log *buildlog.Logger, inspectErr *django.InspectError) {
	var outputErr *runcmd.OutputError
	if !errors.As(inspectErr, &outputErr) {
		log.Error("Unable to inspect Django configuration", fmt.Sprintf(
			`Error: %v

%s`, inspectErr.Err, internalErrorNotice))
		return
	}

	log.Error("Unable to inspect Django configuration", fmt.Sprintf(
		`The 'python manage.py help collectstatic' Django management command
(used to check whether Django's static files feature is enabled)
failed (%v).

Details:

%s

This indicates there is a problem with your application code or Django
configuration. Try running the 'manage.py' script locally to see if the
same error occurs.`,
		outputErr.Output.State, strings.TrimSpace(outputErr.Output.StderrString())))
}

// renderCollectstaticError handles the collectstatic command itself
// exiting non-zero. Its output was already streamed to the transcript,
// so the block points back at it rather than repeating stderr.
func renderCollectstaticError(log *buildlog.Logger, runErr *django.CollectstaticError) {
	var exitErr *runcmd.ExitError
	if !errors.As(runErr, &exitErr) {
		log.Error("Unable to generate Django static files", fmt.Sprintf(
			`Error: %v

%s`, runErr.Err, internalErrorNotice))
		return
	}

	log.Error("Unable to generate Django static files", fmt.Sprintf(
		`The 'python manage.py collectstatic --noinput' Django management
command to generate static files failed (%v).

This is most likely due to an issue in your application code or Django
configuration. See the log output above for more information.

If you are using the WhiteNoise package to optimize the serving of static
files with Django (recommended), check that your app is using the Django
config options shown here:
https://whitenoise.readthedocs.io/en/stable/django.html

Or, if you do not need to use static files in your app, disable the
Django static files feature by removing 'django.contrib.staticfiles'
from 'INSTALLED_APPS' in your app's Django configuration.`,
		exitErr.State))
}
