package build

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pymol-wizard/installer/internal/conda"
	"github.com/pymol-wizard/installer/internal/layout"
	"github.com/pymol-wizard/installer/internal/runner/runnertest"
)

func newBuilder(t *testing.T, goos string) (*Builder, *runnertest.Recorder, string) {
	t.Helper()
	base := t.TempDir()
	rec := runnertest.New()
	cloneDir := filepath.Join(t.TempDir(), "tmp")
	return New(rec, conda.New(rec), layout.New(goos, base), cloneDir), rec, base
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestBuilder_InstallPyMOL(t *testing.T) {
	b, rec, _ := newBuilder(t, "linux")

	if err := b.InstallPyMOL(context.Background(), "wiz", "v3.0.0", true); err != nil {
		t.Fatalf("InstallPyMOL() error = %v", err)
	}

	src := filepath.Join(b.CloneDir(), "pymol-open-source")
	want := []string{
		"git clone -b v3.0.0 " + PyMOLRepo + " " + src,
		"conda run --no-capture-output --name wiz pip install --config-settings openvr=True " + src,
	}
	if diff := cmp.Diff(want, rec.Lines()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_CloneSkipsExistingCheckout(t *testing.T) {
	b, rec, _ := newBuilder(t, "linux")
	if err := os.MkdirAll(filepath.Join(b.CloneDir(), "openvr"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	if _, err := b.CloneOpenVR(context.Background(), "v1.0.17"); err != nil {
		t.Fatalf("CloneOpenVR() error = %v", err)
	}
	if rec.Ran("git clone") {
		t.Error("git clone ran for an existing checkout")
	}
}

func TestBuilder_InstallOpenVR(t *testing.T) {
	t.Run("linux", func(t *testing.T) {
		b, rec, base := newBuilder(t, "linux")
		src := filepath.Join(b.CloneDir(), "openvr")
		mustWrite(t, filepath.Join(src, "headers", "openvr.h"), "// header\n")

		if err := b.InstallOpenVR(context.Background(), "wiz", "v1.0.17"); err != nil {
			t.Fatalf("InstallOpenVR() error = %v", err)
		}

		want := []string{
			"conda run --no-capture-output --name wiz cmake -S . -B build -DCMAKE_BUILD_TYPE=Release",
			"conda run --no-capture-output --name wiz cmake --build build --config Release",
			"conda run --no-capture-output --name wiz sudo make install",
		}
		if diff := cmp.Diff(want, rec.Lines()); diff != "" {
			t.Errorf("commands mismatch (-want +got):\n%s", diff)
		}
		if dir := rec.Commands[2].Dir; dir != filepath.Join(src, "build") {
			t.Errorf("make install dir = %q, want %q", dir, filepath.Join(src, "build"))
		}

		header := filepath.Join(base, "envs", "wiz", "include", "openvr.h")
		if _, err := os.Stat(header); err != nil {
			t.Errorf("header not installed: %v", err)
		}
	})

	t.Run("windows", func(t *testing.T) {
		b, rec, base := newBuilder(t, "windows")
		src := filepath.Join(b.CloneDir(), "openvr")
		mustWrite(t, filepath.Join(src, "headers", "openvr.h"), "// header\n")

		prefix := filepath.Join(base, "envs", "wiz")
		mustWrite(t, filepath.Join(prefix, "Lib", "openvr_api64.lib"), "lib")
		mustWrite(t, filepath.Join(prefix, "Lib", "openvr_api64.dll"), "dll")

		if err := b.InstallOpenVR(context.Background(), "wiz", "v1.0.17"); err != nil {
			t.Fatalf("InstallOpenVR() error = %v", err)
		}

		if !rec.Ran("conda run --no-capture-output --name wiz cmake -S . -B build -DCMAKE_INSTALL_PREFIX=" + prefix) {
			t.Errorf("configure step missing, ran: %v", rec.Lines())
		}
		for _, path := range []string{
			filepath.Join(prefix, "Lib", "openvr_api.lib"),
			filepath.Join(prefix, "Library", "bin", "openvr_api64.dll"),
			filepath.Join(prefix, "include", "openvr.h"),
		} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected %s: %v", path, err)
			}
		}
		if _, err := os.Stat(filepath.Join(prefix, "Lib", "openvr_api64.dll")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("dll left in Lib (stat err = %v)", err)
		}
	})
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "align_wizard.py")
	mustWrite(t, src, "print('hi')\n")
	dst := filepath.Join(dir, "nested", "wizard", "align_wizard.py")

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "print('hi')\n" {
		t.Errorf("content = %q", got)
	}
}
