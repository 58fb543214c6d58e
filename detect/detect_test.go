// Copyright 2026 The Staticpack Authors
// SPDX-License-Identifier: Apache-2.0

package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/staticpack/staticpack/lib/testutil"
)

func TestIsPythonProject(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
		want  bool
	}{
		{
			name:  "empty directory",
			setup: func(t *testing.T, dir string) {},
			want:  false,
		},
		{
			name: "non-python project",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "package.json", "{}")
				testutil.WriteFile(t, dir, "index.js", "")
			},
			want: false,
		},
		{
			name: "manage.py",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "manage.py", "#!/usr/bin/env python3\n")
			},
			want: true,
		},
		{
			name: "requirements.txt",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "requirements.txt", "django\n")
			},
			want: true,
		},
		{
			name: "misspelled requirements",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "requirments.txt", "django\n")
			},
			want: true,
		},
		{
			name: "checked-in virtualenv directory",
			setup: func(t *testing.T, dir string) {
				if err := os.MkdirAll(filepath.Join(dir, ".venv", "bin"), 0o755); err != nil {
					t.Fatalf("mkdir: %v", err)
				}
			},
			want: true,
		},
		{
			name: "symlinked marker",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "backend/manage.py", "#!/usr/bin/env python3\n")
				testutil.Symlink(t, dir, "manage.py", filepath.Join("backend", "manage.py"))
			},
			want: true,
		},
		{
			name: "marker only in subdirectory",
			setup: func(t *testing.T, dir string) {
				testutil.WriteFile(t, dir, "backend/manage.py", "#!/usr/bin/env python3\n")
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)
			got, err := IsPythonProject(dir)
			if err != nil {
				t.Fatalf("IsPythonProject: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsPythonProject = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsPythonProjectPropagatesProbeErrors(t *testing.T) {
	if _, err := IsPythonProject("bad\x00dir"); err == nil {
		t.Error("IsPythonProject with an unprobeable dir should fail")
	}
}
