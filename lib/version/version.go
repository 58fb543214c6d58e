// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build metadata stamped into the
// staticpack binary at link time.
//
// Release builds inject values with -ldflags:
//
//	go build -ldflags "\
//	  -X github.com/staticpack/staticpack/lib/version.Version=1.2.0 \
//	  -X github.com/staticpack/staticpack/lib/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags at build time.
var (
	// Version is the semantic version, set manually for releases.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA the binary was built from.
	GitCommit = "unknown"

	// GitDirty is "true" when the work tree had uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"
)

// Info returns the one-line form used by 'staticpack version'.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns the multi-line form with toolchain and platform
// details, used by 'staticpack version --full'.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
