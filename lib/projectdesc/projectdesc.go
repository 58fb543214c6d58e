// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package projectdesc reads the optional per-app descriptor that tunes
// the static-files step. The descriptor is authored as JSONC (JSON
// extended with // line comments, /* block comments */, and trailing
// commas) in a staticpack.jsonc file at the app root. Apps without one
// get default behavior; the descriptor exists for the exceptions:
// a nonstandard interpreter, extra collectstatic arguments, extra
// environment variables, or opting the step out entirely.
package projectdesc

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/staticpack/staticpack/lib/fsutil"
)

// Filename is the descriptor file name looked up in the app root.
const Filename = "staticpack.jsonc"

// Descriptor is the parsed staticpack.jsonc. All fields are optional.
type Descriptor struct {
	// Disabled skips static file generation for this app entirely.
	Disabled bool `json:"disabled"`

	// Python names the interpreter to run manage.py with. A bare name
	// is resolved against the build environment's PATH.
	Python string `json:"python"`

	// CollectstaticArgs are appended to the collectstatic invocation
	// after --noinput.
	CollectstaticArgs []string `json:"collectstatic_args"`

	// Env is merged into the build environment for the manage.py
	// invocations, overriding inherited values.
	Env map[string]string `json:"env"`

	// StaticRoot is where the app's settings collect static files,
	// relative to the app root. Set it when the app deviates from
	// the usual staticfiles/ so the step can summarize and archive
	// the output.
	StaticRoot string `json:"static_root"`
}

// InvalidDescriptorError reports a descriptor file that is present
// but unusable, either because it does not parse or because it failed
// validation.
type InvalidDescriptorError struct {
	Path string
	Err  error
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *InvalidDescriptorError) Unwrap() error { return e.Err }

// Parse strips JSONC syntax from data and unmarshals the descriptor.
func Parse(data []byte) (*Descriptor, error) {
	stripped := jsonc.ToJSON(data)

	var descriptor Descriptor
	if err := json.Unmarshal(stripped, &descriptor); err != nil {
		return nil, fmt.Errorf("parsing descriptor: %w", err)
	}
	return &descriptor, nil
}

// Read loads the descriptor from appDir. A missing file returns
// (nil, nil): absence is the common case, not an error. A present but
// invalid descriptor is an error; silently ignoring a file the user
// wrote would be worse than failing.
func Read(appDir string) (*Descriptor, error) {
	path := filepath.Join(appDir, Filename)
	data, ok, err := fsutil.ReadOptionalFile(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	descriptor, err := Parse(data)
	if err != nil {
		return nil, &InvalidDescriptorError{Path: path, Err: err}
	}
	if issues := descriptor.Validate(); len(issues) > 0 {
		return nil, &InvalidDescriptorError{Path: path, Err: errors.New(strings.Join(issues, "; "))}
	}
	return descriptor, nil
}

// Validate checks the descriptor for structural issues. Returns a list
// of human-readable issue descriptions; empty means valid.
func (d *Descriptor) Validate() []string {
	var issues []string

	for index, arg := range d.CollectstaticArgs {
		if strings.TrimSpace(arg) == "" {
			issues = append(issues, fmt.Sprintf("collectstatic_args[%d] is empty", index))
		}
	}

	for name := range d.Env {
		if name == "" {
			issues = append(issues, "env has an entry with an empty name")
			continue
		}
		if strings.Contains(name, "=") {
			issues = append(issues, fmt.Sprintf("env name %q contains '='", name))
		}
	}

	if d.StaticRoot != "" {
		if filepath.IsAbs(d.StaticRoot) {
			issues = append(issues, fmt.Sprintf("static_root %q is absolute (must be relative to the app root)", d.StaticRoot))
		}
		cleaned := filepath.Clean(d.StaticRoot)
		if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
			issues = append(issues, fmt.Sprintf("static_root %q escapes the app root", d.StaticRoot))
		}
	}

	return issues
}
