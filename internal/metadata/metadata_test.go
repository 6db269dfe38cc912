package metadata

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pymol-wizard/installer/internal/types"
)

func TestHandler_Parse(t *testing.T) {
	h := New()

	t.Run("full metadata", func(t *testing.T) {
		content := `
name: align_wizard
menu_entry: Align
default_env: align
use_vr: false
python_version: "3.11"
pymol_version: v3.0.0
openvr_version: v1.0.17
pre_script: scripts/pre.py
post_script: ""
`
		got, err := h.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		useVR := false
		want := types.Metadata{
			Name:          "align_wizard",
			MenuEntry:     "Align",
			DefaultEnv:    "align",
			UseVR:         &useVR,
			PythonVersion: "3.11",
			PyMOLVersion:  "v3.0.0",
			OpenVRVersion: "v1.0.17",
			PreScript:     "scripts/pre.py",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
		}
		if got.WantsVR() {
			t.Error("WantsVR() = true, want false")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		got, err := h.Parse([]byte("name: align_wizard\nmenu_entry: Align\npython_version: '3.12'\n"))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got.OpenVRVersion != DefaultOpenVRVersion {
			t.Errorf("OpenVRVersion = %q, want %q", got.OpenVRVersion, DefaultOpenVRVersion)
		}
		if got.DefaultEnv != "align_wizard" {
			t.Errorf("DefaultEnv = %q, want %q", got.DefaultEnv, "align_wizard")
		}
		if !got.WantsVR() {
			t.Error("WantsVR() = false, want true")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := h.Parse([]byte("name: [unterminated")); err == nil {
			t.Error("Parse() error = nil, want error")
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := h.Parse([]byte("default_env: x\n"))
		if err == nil {
			t.Fatal("Parse() error = nil, want error")
		}
		for _, field := range []string{"name", "menu_entry", "python_version"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q should mention %s", err, field)
			}
		}
	})
}

func TestHandler_Validate(t *testing.T) {
	valid := types.Metadata{
		Name:          "align_wizard",
		MenuEntry:     "Align",
		PythonVersion: "3.11",
		PyMOLVersion:  "v3.0.0",
	}

	tests := []struct {
		name    string
		mutate  func(m *types.Metadata)
		isValid bool
	}{
		{name: "valid", mutate: func(m *types.Metadata) {}, isValid: true},
		{name: "path in name", mutate: func(m *types.Metadata) { m.Name = "../evil" }, isValid: false},
		{name: "quote in menu entry", mutate: func(m *types.Metadata) { m.MenuEntry = `Al"ign` }, isValid: false},
		{name: "bad python version", mutate: func(m *types.Metadata) { m.PythonVersion = "three" }, isValid: false},
		{name: "absolute script", mutate: func(m *types.Metadata) { m.PostScript = "/tmp/post.py" }, isValid: false},
		{name: "spaces in menu entry", mutate: func(m *types.Metadata) { m.MenuEntry = "Align (fast)" }, isValid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := valid
			tt.mutate(&meta)
			result := New().Validate(meta)
			if result.IsValid != tt.isValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", result.IsValid, tt.isValid, result.Errors)
			}
		})
	}

	t.Run("missing pymol version warns", func(t *testing.T) {
		meta := valid
		meta.PyMOLVersion = ""
		result := New().Validate(meta)
		if !result.IsValid {
			t.Errorf("IsValid = false, errors: %v", result.Errors)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("Warnings = %v, want one warning", result.Warnings)
		}
	})
}

func TestHandler_Load(t *testing.T) {
	t.Run("reads metadata.yaml", func(t *testing.T) {
		root := t.TempDir()
		content := "name: align_wizard\nmenu_entry: Align\npython_version: '3.11'\n"
		if err := os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write metadata: %v", err)
		}

		meta, err := New().Load(root)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if meta.Name != "align_wizard" {
			t.Errorf("Name = %q, want %q", meta.Name, "align_wizard")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(t.TempDir())
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Load() error = %v, want fs.ErrNotExist", err)
		}
	})
}

func TestCheckEntry(t *testing.T) {
	tests := []struct {
		name      string
		wizard    string
		menuEntry string
		wantErr   bool
	}{
		{name: "valid", wizard: "align_wizard", menuEntry: "Align (beta)"},
		{name: "empty name", wizard: "", menuEntry: "Align", wantErr: true},
		{name: "dotted name", wizard: "align.wizard", menuEntry: "Align", wantErr: true},
		{name: "quoted label", wizard: "align_wizard", menuEntry: `Say "hi"`, wantErr: true},
		{name: "multiline label", wizard: "align_wizard", menuEntry: "Align\nMe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEntry(tt.wizard, tt.menuEntry)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckEntry(%q, %q) error = %v, wantErr %v", tt.wizard, tt.menuEntry, err, tt.wantErr)
			}
		})
	}
}
