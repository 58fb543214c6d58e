// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/staticpack/staticpack/detect"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/staticfiles"
)

// detectCmd probes a directory for Python project files. Exit codes
// follow build-pipeline conventions: 0 detected, 1 not a Python
// project, 2 the probe itself failed.
func detectCmd(args []string) error {
	flagSet := pflag.NewFlagSet("detect", pflag.ContinueOnError)
	appDir := flagSet.String("app-dir", ".", "directory to probe")
	quiet := flagSet.Bool("quiet", false, "suppress output, report by exit code only")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	isPython, err := detect.IsPythonProject(*appDir)
	if err != nil {
		staticfiles.RenderError(buildlog.New(os.Stdout, os.Stderr), err)
		return &reportedError{code: 2}
	}
	if !isPython {
		if !*quiet {
			fmt.Printf("No Python project files found in '%s'.\n", *appDir)
		}
		return &reportedError{code: 1}
	}
	if !*quiet {
		fmt.Printf("Detected a Python project in '%s'.\n", *appDir)
	}
	return nil
}
