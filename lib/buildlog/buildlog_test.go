// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package buildlog

import (
	"bytes"
	"io"
	"testing"
)

func TestHeaderInfoFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut)

	logger.Header("Generating Django static files")
	logger.Info("Running 'manage.py collectstatic'")

	want := "\n[Generating Django static files]\nRunning 'manage.py collectstatic'\n"
	if got := out.String(); got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
	if errOut.Len() != 0 {
		t.Errorf("error stream = %q, want empty", errOut.String())
	}
}

func TestInfoPreservesMultiLineMessages(t *testing.T) {
	var out bytes.Buffer
	logger := New(&out, io.Discard)

	logger.Info("first line\nsecond line")

	want := "first line\nsecond line\n"
	if got := out.String(); got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}
}

func TestErrorBlockFormat(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := New(&out, &errOut)

	logger.Error("Unable to generate Django static files", "details here")

	want := "\n[Error: Unable to generate Django static files]\ndetails here\n"
	if got := errOut.String(); got != want {
		t.Errorf("error stream = %q, want %q", got, want)
	}
	if out.Len() != 0 {
		t.Errorf("transcript = %q, want empty", out.String())
	}
}

func TestErrorTrimsTrailingNewlines(t *testing.T) {
	var errOut bytes.Buffer
	logger := New(io.Discard, &errOut)

	logger.Error("title", "body\n\n")

	want := "\n[Error: title]\nbody\n"
	if got := errOut.String(); got != want {
		t.Errorf("error stream = %q, want %q", got, want)
	}
}

func TestWarningBlockFormat(t *testing.T) {
	var errOut bytes.Buffer
	logger := New(io.Discard, &errOut)

	logger.Warning("No static root", "skipping archive")

	want := "\n[Warning: No static root]\nskipping archive\n"
	if got := errOut.String(); got != want {
		t.Errorf("error stream = %q, want %q", got, want)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger

	logger.Header("h")
	logger.Info("i")
	logger.Warning("w", "b")
	logger.Error("e", "b")

	if logger.Stdout() != io.Discard {
		t.Error("nil logger Stdout() should be io.Discard")
	}
	if logger.Stderr() != io.Discard {
		t.Error("nil logger Stderr() should be io.Discard")
	}
}
