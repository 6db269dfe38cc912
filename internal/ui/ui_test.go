package ui

import (
	"bytes"
	"testing"

	"github.com/pymol-wizard/installer/internal/types"
)

func TestPrinter_NoColorOnBuffers(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Header("Installing the %s wizard", "align_wizard")
	p.Warning("Could not find target in %s", "_gui.py")

	want := "Installing the align_wizard wizard\nCould not find target in _gui.py\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_PatchResult(t *testing.T) {
	var buf bytes.Buffer
	New(&buf).PatchResult(types.PatchResult{
		Changed: true,
		Reason:  types.ReasonInserted,
		Message: "Added entry to openvr.py",
		Diff:    "+[1, \"Align\", \"wizard align\"],\n",
	})

	want := "Added entry to openvr.py\n+[1, \"Align\", \"wizard align\"],\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true, want false")
	}
}
