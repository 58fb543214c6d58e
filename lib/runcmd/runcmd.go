// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package runcmd runs build subprocesses with an explicit environment
// and process-group isolation. Commands are placed in their own process
// group, and context cancellation kills the whole group, so a Python
// process that forks helpers cannot outlive a cancelled build.
package runcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// IOError reports that a command could not be run at all: the program
// failed to start, or reading its output failed. This is distinct from
// the program running and exiting non-zero.
type IOError struct {
	Program string
	Err     error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Program, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ExitError reports a streamed command that ran and exited non-zero
// (or was killed by a signal). The command's output has already gone
// to the caller's writers.
type ExitError struct {
	Command string
	State   *os.ProcessState
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.State)
}

// ExitCode returns the command's exit code, or -1 if it was killed by
// a signal.
func (e *ExitError) ExitCode() int { return e.State.ExitCode() }

// Output holds a captured command's streams and final state.
type Output struct {
	Stdout []byte
	Stderr []byte
	State  *os.ProcessState
}

// StderrString returns the captured stderr as text.
func (o *Output) StderrString() string { return string(o.Stderr) }

// OutputError reports a captured command that ran and exited non-zero.
// It carries the full Output so callers can classify the failure from
// stderr before deciding whether it is fatal.
type OutputError struct {
	Command string
	Output  *Output
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Output.State)
}

// New builds a command with working directory dir, the explicit
// environment env (nil means empty, never the parent's environment),
// and its own process group. Cancelling ctx kills the entire group.
//
// The program is not resolved against env's PATH: pass an absolute
// path, normally from buildenv's LookPath, so resolution matches the
// environment the child actually sees.
func New(ctx context.Context, dir string, env []string, program string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir
	if env == nil {
		env = []string{}
	}
	cmd.Env = env

	// Own process group so the kill below reaches the command and all
	// its children (negative PID = all processes in the group).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	return cmd
}

// Stream runs cmd with its output streamed to stdout and stderr as it
// is produced. A non-zero exit returns *ExitError; a start or I/O
// failure returns *IOError.
func Stream(cmd *exec.Cmd, stdout, stderr io.Writer) error {
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return classify(cmd, cmd.Run(), nil)
}

// Capture runs cmd with stdout and stderr captured. On success the
// captured Output is returned. A non-zero exit returns *OutputError
// carrying the Output; a start or I/O failure returns *IOError.
func Capture(cmd *exec.Cmd) (*Output, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := &Output{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
		State:  cmd.ProcessState,
	}
	if err := classify(cmd, err, output); err != nil {
		return nil, err
	}
	return output, nil
}

// classify maps an exec.Cmd.Run error to this package's error types.
// output is non-nil for captured commands.
func classify(cmd *exec.Cmd, err error, output *Output) error {
	if err == nil {
		return nil
	}
	command := strings.Join(cmd.Args, " ")
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if output != nil {
			return &OutputError{Command: command, Output: output}
		}
		return &ExitError{Command: command, State: exitErr.ProcessState}
	}
	return &IOError{Program: cmd.Args[0], Err: err}
}
