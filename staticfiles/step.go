// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package staticfiles runs the Django static file generation step for
// a Python application directory: detect the project, validate the
// build environment, apply the app's staticpack.jsonc descriptor,
// invoke 'manage.py collectstatic' through the django package, and
// summarize (and optionally archive) the collected tree.
//
// The package separates the build transcript (buildlog.Logger, shown
// to the app developer) from structured diagnostics (slog, for the
// operator of the build system). Errors returned by Run are typed;
// RenderError turns them into the operator-facing transcript blocks.
package staticfiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/staticpack/staticpack/detect"
	"github.com/staticpack/staticpack/django"
	"github.com/staticpack/staticpack/lib/archive"
	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/lib/digest"
	"github.com/staticpack/staticpack/lib/fsutil"
	"github.com/staticpack/staticpack/lib/projectdesc"
)

// conventionalStaticRoot is where Django apps collect static files by
// convention (STATIC_ROOT = BASE_DIR / "staticfiles"). Apps that
// deviate declare static_root in their descriptor instead.
const conventionalStaticRoot = "staticfiles"

// Status reports how the step concluded when Run returns nil error.
type Status int

const (
	// StatusGenerated means collectstatic ran and succeeded.
	StatusGenerated Status = iota

	// StatusDisabled means the app's descriptor disabled the step.
	StatusDisabled

	// StatusNoManagementScript means the app has no manage.py, so
	// static file generation was skipped with a notice.
	StatusNoManagementScript

	// StatusStaticfilesNotEnabled means django.contrib.staticfiles is
	// not in the app's INSTALLED_APPS, so the step was skipped with a
	// notice.
	StatusStaticfilesNotEnabled

	// StatusDjangoNotInstalled means Django is not importable in the
	// build environment. The step skips silently: most Python apps are
	// not Django apps, and the transcript should not mention Django to
	// apps that never asked for it.
	StatusDjangoNotInstalled
)

func (s Status) String() string {
	switch s {
	case StatusGenerated:
		return "generated"
	case StatusDisabled:
		return "disabled"
	case StatusNoManagementScript:
		return "no-management-script"
	case StatusStaticfilesNotEnabled:
		return "staticfiles-not-enabled"
	case StatusDjangoNotInstalled:
		return "django-not-installed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ArchiveOptions requests packing the collected static root after a
// successful run.
type ArchiveOptions struct {
	// Dest is the archive file to write. Its manifest is written
	// next to it.
	Dest string

	// Compression selects the archive body encoding.
	Compression archive.Compression
}

// Step is a single static file generation run. Fields other than
// AppDir are optional.
type Step struct {
	// AppDir is the application root directory.
	AppDir string

	// Env is the explicit build environment for the manage.py
	// invocations. Nil means the current process environment. The
	// app's settings module runs inside exactly this environment, so
	// variables the app reads at import time must be present.
	Env *buildenv.Env

	// Python names the interpreter, as a bare name resolved against
	// Env's PATH or as a path. Empty means python3. The descriptor's
	// python field takes precedence.
	Python string

	// VenvDir is the app's dependency directory (virtualenv layout),
	// used to probe whether Django is installed. Empty means probe
	// django-admin on Env's PATH instead.
	VenvDir string

	// Timeout bounds the manage.py invocations. Zero means no limit
	// beyond the caller's context.
	Timeout time.Duration

	// StaticRoot overrides where the collected files land, relative
	// to AppDir. It takes precedence over the descriptor. Empty falls
	// back to the descriptor, then to the staticfiles/ convention.
	StaticRoot string

	// Archive, when non-nil, packs the static root after generation.
	Archive *ArchiveOptions

	// Log is the build transcript. Nil discards it.
	Log *buildlog.Logger

	// Logger receives structured diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Summary describes the collected static file tree.
type Summary struct {
	// StaticRoot is the absolute path of the collected tree.
	StaticRoot string

	// Files counts regular files and symlinks under the root.
	Files int

	// Bytes is the total size of regular file contents.
	Bytes int64

	// Digest is the tree digest of the root, stable across builds
	// that collect identical files.
	Digest digest.Digest
}

// Result is the outcome of a successful (non-error) run.
type Result struct {
	Status Status

	// Summary is set when Status is StatusGenerated and the static
	// root was found. It stays nil when the app collects to a
	// location the step does not know about.
	Summary *Summary

	// ArchivePath and Manifest are set when archiving was requested
	// and the static root was found.
	ArchivePath string
	Manifest    *archive.Manifest
}

func (s *Step) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

// Run executes the step. The returned error is one of the typed errors
// rendered by RenderError; the Result is non-nil exactly when the
// error is nil.
func (s *Step) Run(ctx context.Context) (*Result, error) {
	logger := s.logger()

	isPython, err := detect.IsPythonProject(s.AppDir)
	if err != nil {
		return nil, err
	}
	if !isPython {
		return nil, &NotPythonProjectError{Dir: s.AppDir}
	}

	env := s.Env
	if env == nil {
		env = buildenv.FromCurrent()
	}
	if err := buildenv.Check(env); err != nil {
		return nil, err
	}

	descriptor, err := projectdesc.Read(s.AppDir)
	if err != nil {
		return nil, err
	}

	python := s.Python
	if python == "" {
		python = "python3"
	}
	staticRoot := s.StaticRoot
	var extraArgs []string
	if descriptor != nil {
		if descriptor.Disabled {
			logger.Info("static file generation disabled by descriptor", "app_dir", s.AppDir)
			s.Log.Info(fmt.Sprintf("Static file generation disabled via %s.", projectdesc.Filename))
			return &Result{Status: StatusDisabled}, nil
		}
		if descriptor.Python != "" {
			python = descriptor.Python
		}
		extraArgs = descriptor.CollectstaticArgs
		if len(descriptor.Env) > 0 {
			env = env.Clone()
			env.Merge(descriptor.Env)
		}
		if staticRoot == "" {
			staticRoot = descriptor.StaticRoot
		}
	}

	interpreter, err := env.LookPath(python)
	if err != nil {
		return nil, &InterpreterError{Name: python, Err: err}
	}
	logger.Debug("resolved python interpreter", "name", python, "path", interpreter)

	installed, err := django.Installed(env, s.VenvDir)
	if err != nil {
		return nil, err
	}
	if !installed {
		logger.Debug("django not installed, skipping static file generation", "app_dir", s.AppDir)
		return &Result{Status: StatusDjangoNotInstalled}, nil
	}

	s.Log.Header("Generating Django static files")

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	outcome, err := django.RunCollectstatic(ctx, django.Options{
		AppDir:    s.AppDir,
		Python:    interpreter,
		Env:       env,
		ExtraArgs: extraArgs,
		Log:       s.Log,
	})
	if err != nil {
		if s.Timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Timeout: s.Timeout, Err: err}
		}
		return nil, err
	}

	switch outcome {
	case django.OutcomeNoManagementScript:
		return &Result{Status: StatusNoManagementScript}, nil
	case django.OutcomeStaticfilesNotEnabled:
		return &Result{Status: StatusStaticfilesNotEnabled}, nil
	}

	result := &Result{Status: StatusGenerated}

	rootDir, relRoot, err := s.resolveStaticRoot(staticRoot)
	if err != nil {
		return nil, err
	}
	if rootDir == "" {
		logger.Debug("static root not found, skipping summary",
			"app_dir", s.AppDir, "static_root", relRoot)
		if staticRoot != "" || s.Archive != nil {
			s.Log.Warning("No static files directory found", missingRootNotice(staticRoot, relRoot))
		}
		return result, nil
	}

	treeDigest, stats, err := digest.Tree(rootDir)
	if err != nil {
		return nil, err
	}
	result.Summary = &Summary{
		StaticRoot: rootDir,
		Files:      stats.Files,
		Bytes:      stats.Bytes,
		Digest:     treeDigest,
	}
	s.Log.Info(fmt.Sprintf("Collected %d files (%d bytes) in '%s' (tree %s)",
		stats.Files, stats.Bytes, relRoot, shortDigest(treeDigest.String())))
	logger.Info("collected static files",
		"static_root", rootDir, "files", stats.Files, "bytes", stats.Bytes,
		"digest", treeDigest.String())

	if s.Archive != nil {
		manifest, err := archive.Create(rootDir, s.Archive.Dest, archive.Options{
			Compression: s.Archive.Compression,
		})
		if err != nil {
			return nil, err
		}
		result.ArchivePath = s.Archive.Dest
		result.Manifest = manifest
		s.Log.Info(fmt.Sprintf("Archived static files to '%s' (%s, %d bytes of content)",
			s.Archive.Dest, manifest.Compression, manifest.Bytes))
		logger.Info("archived static files",
			"dest", s.Archive.Dest, "compression", manifest.Compression,
			"digest", manifest.Digest)
	}

	return result, nil
}

// resolveStaticRoot locates the collected tree after a successful
// collectstatic run. The return values are the absolute directory (""
// when it does not exist or is not a directory) and the relative path
// that was probed.
func (s *Step) resolveStaticRoot(configured string) (string, string, error) {
	relative := configured
	if relative == "" {
		relative = conventionalStaticRoot
	}
	absolute := filepath.Join(s.AppDir, relative)

	info, err := os.Stat(absolute)
	if errors.Is(err, fs.ErrNotExist) {
		return "", relative, nil
	}
	if err != nil {
		return "", relative, &fsutil.ExistsError{Path: absolute, Err: err}
	}
	if !info.IsDir() {
		return "", relative, nil
	}
	return absolute, relative, nil
}

// missingRootNotice is the warning body for a static root that did not
// appear after collectstatic ran. The configured case points at a
// mismatch between the descriptor and the app's settings; the
// conventional case only fires when archiving was requested.
func missingRootNotice(configured, relative string) string {
	if configured != "" {
		return fmt.Sprintf(`The static files directory '%s' does not exist after running
'manage.py collectstatic'. Check that the STATIC_ROOT setting in your
app's Django configuration matches the static_root value in %s.`,
			relative, projectdesc.Filename)
	}
	return fmt.Sprintf(`Archiving was requested, but no '%s' directory exists after
running 'manage.py collectstatic'. If your app's STATIC_ROOT setting
collects files somewhere else, declare it as static_root in %s.`,
		relative, projectdesc.Filename)
}

// shortDigest abbreviates a hex digest for transcript lines. Full
// digests appear in structured logs and manifests.
func shortDigest(hexDigest string) string {
	if len(hexDigest) > 12 {
		return hexDigest[:12]
	}
	return hexDigest
}
