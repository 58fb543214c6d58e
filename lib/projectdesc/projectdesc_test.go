// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package projectdesc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseJSONCSyntax(t *testing.T) {
	data := []byte(`{
	// Run collectstatic with the uv-managed interpreter.
	"python": ".venv/bin/python",
	/* keep manifests out of the archive */
	"collectstatic_args": ["--ignore", "*.map"],
	"env": {
		"DJANGO_SETTINGS_MODULE": "config.settings.build",
	},
	"static_root": "dist/static",
}`)

	descriptor, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if descriptor.Python != ".venv/bin/python" {
		t.Errorf("Python = %q", descriptor.Python)
	}
	if len(descriptor.CollectstaticArgs) != 2 || descriptor.CollectstaticArgs[0] != "--ignore" {
		t.Errorf("CollectstaticArgs = %v", descriptor.CollectstaticArgs)
	}
	if descriptor.Env["DJANGO_SETTINGS_MODULE"] != "config.settings.build" {
		t.Errorf("Env = %v", descriptor.Env)
	}
	if descriptor.StaticRoot != "dist/static" {
		t.Errorf("StaticRoot = %q", descriptor.StaticRoot)
	}
	if descriptor.Disabled {
		t.Error("Disabled = true, want default false")
	}
}

func TestReadMissingDescriptor(t *testing.T) {
	descriptor, err := Read(t.TempDir())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if descriptor != nil {
		t.Errorf("Read = %+v, want nil for a missing descriptor", descriptor)
	}
}

func TestReadValidDescriptor(t *testing.T) {
	dir := t.TempDir()
	contents := "{\n\t// opt out while the frontend team owns assets\n\t\"disabled\": true,\n}\n"
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing descriptor: %v", err)
	}

	descriptor, err := Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if descriptor == nil || !descriptor.Disabled {
		t.Errorf("Read = %+v, want Disabled", descriptor)
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing descriptor: %v", err)
	}

	_, err := Read(dir)
	if err == nil || !strings.Contains(err.Error(), Filename) {
		t.Errorf("Read = %v, want parse error naming the file", err)
	}
	var invalidErr *InvalidDescriptorError
	if !errors.As(err, &invalidErr) {
		t.Errorf("Read error = %T, want *InvalidDescriptorError", err)
	}
}

func TestReadRejectsInvalidDescriptor(t *testing.T) {
	dir := t.TempDir()
	contents := `{"static_root": "../outside"}`
	if err := os.WriteFile(filepath.Join(dir, Filename), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing descriptor: %v", err)
	}

	_, err := Read(dir)
	var invalidErr *InvalidDescriptorError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("Read error = %v (%T), want *InvalidDescriptorError", err, err)
	}
	if !strings.Contains(invalidErr.Error(), "escapes the app root") {
		t.Errorf("error = %q, want it to name the validation issue", invalidErr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		descriptor Descriptor
		wantIssue  string
	}{
		{
			name:       "valid empty",
			descriptor: Descriptor{},
		},
		{
			name: "valid populated",
			descriptor: Descriptor{
				Python:            "python3.12",
				CollectstaticArgs: []string{"--clear"},
				Env:               map[string]string{"A": "1"},
				StaticRoot:        "staticfiles",
			},
		},
		{
			name:       "empty arg",
			descriptor: Descriptor{CollectstaticArgs: []string{"--clear", "  "}},
			wantIssue:  "collectstatic_args[1] is empty",
		},
		{
			name:       "env name with equals",
			descriptor: Descriptor{Env: map[string]string{"BAD=NAME": "x"}},
			wantIssue:  "contains '='",
		},
		{
			name:       "absolute static root",
			descriptor: Descriptor{StaticRoot: "/srv/static"},
			wantIssue:  "is absolute",
		},
		{
			name:       "escaping static root",
			descriptor: Descriptor{StaticRoot: "../shared/static"},
			wantIssue:  "escapes the app root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.descriptor.Validate()
			if tt.wantIssue == "" {
				if len(issues) != 0 {
					t.Errorf("Validate = %v, want no issues", issues)
				}
				return
			}
			if !strings.Contains(strings.Join(issues, "; "), tt.wantIssue) {
				t.Errorf("Validate = %v, want issue containing %q", issues, tt.wantIssue)
			}
		})
	}
}
