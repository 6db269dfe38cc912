// Package metadata loads and validates a wizard's metadata.yaml.
package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pymol-wizard/installer/internal/types"
)

// FileName is the metadata file expected at the root of a wizard.
const FileName = "metadata.yaml"

// DefaultOpenVRVersion is the OpenVR tag cloned when the metadata names none.
const DefaultOpenVRVersion = "v1.0.17"

var (
	nameRe          = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	pythonVersionRe = regexp.MustCompile(`^\d+\.\d+$`)
)

// Handler handles metadata parsing and validation.
type Handler struct{}

// New creates a new Handler.
func New() *Handler {
	return &Handler{}
}

// Load reads metadata.yaml from a wizard root directory.
func (h *Handler) Load(wizardRoot string) (types.Metadata, error) {
	path := filepath.Join(wizardRoot, FileName)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Metadata{}, fmt.Errorf("metadata not found: %s: %w", path, err)
		}
		return types.Metadata{}, fmt.Errorf("failed to read metadata: %s - %w", path, err)
	}

	meta, err := h.Parse(content)
	if err != nil {
		return types.Metadata{}, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}

// Parse decodes and validates metadata.
func (h *Handler) Parse(content []byte) (types.Metadata, error) {
	var meta types.Metadata
	if err := yaml.Unmarshal(content, &meta); err != nil {
		return types.Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	meta.Name = strings.TrimSpace(meta.Name)
	meta.MenuEntry = strings.TrimSpace(meta.MenuEntry)
	if meta.OpenVRVersion == "" {
		meta.OpenVRVersion = DefaultOpenVRVersion
	}
	if meta.DefaultEnv == "" {
		meta.DefaultEnv = meta.Name
	}

	validation := h.Validate(meta)
	if !validation.IsValid {
		return types.Metadata{}, fmt.Errorf("invalid metadata: %s", strings.Join(validation.Errors, ", "))
	}
	return meta, nil
}

// Validate checks the fields the installer depends on.
func (h *Handler) Validate(meta types.Metadata) types.MetadataValidationResult {
	result := types.MetadataValidationResult{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	fail := func(format string, a ...any) {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf(format, a...))
	}

	for _, msg := range entryProblems(meta.Name, meta.MenuEntry) {
		fail("%s", msg)
	}

	switch {
	case meta.PythonVersion == "":
		fail("python_version is required")
	case !pythonVersionRe.MatchString(meta.PythonVersion):
		fail("python_version %q must look like 3.11", meta.PythonVersion)
	}

	if meta.PyMOLVersion == "" {
		result.Warnings = append(result.Warnings, "pymol_version is empty; PyMOL cannot be built from source")
	}

	for _, script := range []string{meta.PreScript, meta.PostScript} {
		if script != "" && filepath.IsAbs(script) {
			fail("script %q must be relative to the wizard root", script)
		}
	}

	return result
}

// CheckEntry validates a wizard name and menu label before they are
// written into PyMOL's menu files.
func CheckEntry(name, menuEntry string) error {
	if problems := entryProblems(name, menuEntry); len(problems) > 0 {
		return fmt.Errorf("invalid menu entry: %s", strings.Join(problems, ", "))
	}
	return nil
}

func entryProblems(name, menuEntry string) []string {
	var problems []string
	switch {
	case name == "":
		problems = append(problems, "name is required")
	case !nameRe.MatchString(name):
		problems = append(problems, fmt.Sprintf("name %q must be a valid Python module name", name))
	}

	switch {
	case menuEntry == "":
		problems = append(problems, "menu_entry is required")
	case strings.ContainsAny(menuEntry, "\"'\n"):
		problems = append(problems, fmt.Sprintf("menu_entry %q must not contain quotes or newlines", menuEntry))
	}
	return problems
}
