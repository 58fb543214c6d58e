// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// staticpack generates, summarizes, and archives Django static files
// for Python application builds.
//
// Usage:
//
//	staticpack run [flags]
//	staticpack detect [flags]
//	staticpack check-env [flags]
//	staticpack archive [flags] <source-dir> <dest>
//	staticpack verify <archive>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/staticpack/staticpack/lib/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := newLogger(os.Getenv("STATICPACK_DEBUG") != "")

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "run":
		err = runCmd(args, logger)
	case "detect":
		err = detectCmd(args)
	case "check-env":
		err = checkEnvCmd(args)
	case "archive":
		err = archiveCmd(args, logger)
	case "verify":
		err = verifyCmd(args)
	case "version", "--version", "-v":
		if len(args) > 0 && args[0] == "--full" {
			fmt.Printf("staticpack %s\n", version.Full())
			return
		}
		fmt.Printf("staticpack %s\n", version.Info())
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		var reported *reportedError
		if errors.As(err, &reported) {
			os.Exit(reported.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// reportedError carries an exit code for failures that were already
// rendered on the build transcript; main exits without printing again.
type reportedError struct {
	code int
}

func (e *reportedError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

func printUsage() {
	fmt.Print(`staticpack - Generate and archive Django static files for Python app builds

USAGE
    staticpack <command> [flags] [args...]

COMMANDS
    run        Run the static files step against an app directory
    detect     Check whether a directory is a Python project
    check-env  Check the environment for variables that break builds
    archive    Pack a directory into a content-addressed archive
    verify     Check an archive against its manifest
    version    Show version

EXAMPLES
    # Generate static files for the app in the current directory
    staticpack run

    # Generate, then archive the collected tree
    staticpack run --app-dir /workspace/app --archive

    # Probe a directory the way the build pipeline does (exit 0/1/2)
    staticpack detect --app-dir /workspace/app

    # Verify a previously built artifact
    staticpack verify build/static.tar.zst

ENVIRONMENT
    STATICPACK_CONFIG   Path to a YAML config file (no search paths)
    STATICPACK_PYTHON   Interpreter for manage.py invocations
    STATICPACK_TIMEOUT  Step timeout as a Go duration (e.g. 5m)
    STATICPACK_DEBUG    Enable debug logging
`)
}
