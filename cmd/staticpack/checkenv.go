// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/staticpack/staticpack/lib/buildenv"
	"github.com/staticpack/staticpack/lib/buildlog"
	"github.com/staticpack/staticpack/staticfiles"
)

// checkEnvCmd validates the current process environment the way run
// does before touching the app, so pipeline authors can fail fast.
func checkEnvCmd(args []string) error {
	flagSet := pflag.NewFlagSet("check-env", pflag.ContinueOnError)
	printVars := flagSet.Bool("print", false, "print the diagnostic environment listing")
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	env := buildenv.FromCurrent()
	if *printVars {
		for _, pair := range env.Diagnostic() {
			fmt.Printf("%s=%s\n", pair.Name, pair.Value)
		}
	}

	if err := buildenv.Check(env); err != nil {
		staticfiles.RenderError(buildlog.New(os.Stdout, os.Stderr), err)
		return &reportedError{code: 1}
	}
	fmt.Printf("Environment OK (%d variables).\n", env.Len())
	return nil
}
