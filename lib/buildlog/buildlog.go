// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package buildlog

import (
	"fmt"
	"io"
	"strings"
)

// Logger writes the build transcript: the section headers, progress
// lines, and error blocks that CI logs capture and that the integration
// tests assert on. It is a raw output channel, deliberately separate
// from the structured slog diagnostics.
//
// All methods are nil-safe: when the receiver is nil, they are no-ops.
// This lets library code log unconditionally whether or not the caller
// wired a transcript.
type Logger struct {
	out io.Writer
	err io.Writer
}

// New creates a Logger writing sections and progress to out and error
// blocks to err.
func New(out, err io.Writer) *Logger {
	return &Logger{out: out, err: err}
}

// Header starts a new build section:
//
//	\n[title]\n
func (l *Logger) Header(title string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.out, "\n[%s]\n", title)
}

// Info writes one or more progress lines beneath the current section.
// Multi-line messages are passed through unchanged, one write per call,
// so interleaved subprocess output cannot split a message.
func (l *Logger) Info(message string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.out, "%s\n", message)
}

// Warning writes a warning block to the error stream:
//
//	\n[Warning: title]\nbody\n
func (l *Logger) Warning(title, body string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.err, "\n[Warning: %s]\n%s\n", title, strings.TrimRight(body, "\n"))
}

// Error writes an error block to the error stream:
//
//	\n[Error: title]\nbody\n
func (l *Logger) Error(title, body string) {
	if l == nil {
		return
	}
	fmt.Fprintf(l.err, "\n[Error: %s]\n%s\n", title, strings.TrimRight(body, "\n"))
}

// Stdout returns the progress writer so subprocess output can stream
// into the same channel as Info lines. Returns io.Discard on a nil
// receiver.
func (l *Logger) Stdout() io.Writer {
	if l == nil {
		return io.Discard
	}
	return l.out
}

// Stderr returns the error writer. Returns io.Discard on a nil receiver.
func (l *Logger) Stderr() io.Writer {
	if l == nil {
		return io.Discard
	}
	return l.err
}
