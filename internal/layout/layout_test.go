package layout

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLayout_PyMOLDir(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{goos: "linux", want: filepath.Join("/conda", "envs", "wiz", "lib", "python3.11", "site-packages", "pymol")},
		{goos: "darwin", want: filepath.Join("/conda", "envs", "wiz", "lib", "python3.11", "site-packages", "pymol")},
		{goos: "windows", want: filepath.Join("/conda", "envs", "wiz", "Lib", "site-packages", "pymol")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l := New(tt.goos, "/conda")
			got := l.PyMOLDir(l.Prefix("wiz"), "3.11")
			if got != tt.want {
				t.Errorf("PyMOLDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLayout_Prefix(t *testing.T) {
	l := New("linux", "/conda")
	if got := l.Prefix(BaseEnv); got != "/conda" {
		t.Errorf("Prefix(base) = %q, want /conda", got)
	}
	if got, want := l.Prefix("wiz"), filepath.Join("/conda", "envs", "wiz"); got != want {
		t.Errorf("Prefix(wiz) = %q, want %q", got, want)
	}
}

func TestLayout_EnvFile(t *testing.T) {
	touch := func(t *testing.T, root, name string) string {
		t.Helper()
		dir := filepath.Join(root, "envs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("name: x\n"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		return path
	}

	t.Run("generic file wins", func(t *testing.T) {
		root := t.TempDir()
		want := touch(t, root, "environment.yaml")
		touch(t, root, "linux_environment.yaml")

		got, err := New("linux", "/conda").EnvFile(root)
		if err != nil {
			t.Fatalf("EnvFile() error = %v", err)
		}
		if got != want {
			t.Errorf("EnvFile() = %q, want %q", got, want)
		}
	})

	t.Run("platform file", func(t *testing.T) {
		root := t.TempDir()
		touch(t, root, "linux_environment.yaml")
		want := touch(t, root, "windows_environment.yaml")

		got, err := New("windows", "/conda").EnvFile(root)
		if err != nil {
			t.Fatalf("EnvFile() error = %v", err)
		}
		if got != want {
			t.Errorf("EnvFile() = %q, want %q", got, want)
		}
	})

	t.Run("none", func(t *testing.T) {
		_, err := New("linux", "/conda").EnvFile(t.TempDir())
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("EnvFile() error = %v, want fs.ErrNotExist", err)
		}
	})
}

func TestResolveWithin(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "plain file", path: "align_wizard.py"},
		{name: "nested", path: "scripts/pre.py"},
		{name: "dotdot prefix in name", path: "..align.py"},
		{name: "traversal", path: "../outside.py", wantErr: true},
		{name: "empty", path: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveWithin(root, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveWithin() = %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveWithin() error = %v", err)
			}
			if want := filepath.Join(root, tt.path); got != want {
				t.Errorf("ResolveWithin() = %q, want %q", got, want)
			}
		})
	}
}
