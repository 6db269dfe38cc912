// Package layout resolves where conda and PyMOL keep things on each platform.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BaseEnv is the name conda gives its root environment.
const BaseEnv = "base"

// Layout resolves installation paths for one operating system and conda install.
type Layout struct {
	goos      string
	condaBase string
}

// New creates a Layout for goos (as in runtime.GOOS) rooted at condaBase.
func New(goos, condaBase string) *Layout {
	return &Layout{goos: goos, condaBase: condaBase}
}

// Windows reports whether the layout follows Windows conventions.
func (l *Layout) Windows() bool {
	return l.goos == "windows"
}

// Prefix returns the directory of a conda environment.
func (l *Layout) Prefix(env string) string {
	if env == BaseEnv {
		return l.condaBase
	}
	return filepath.Join(l.condaBase, "envs", env)
}

// PyMOLDir returns the pymol package directory inside an environment prefix.
func (l *Layout) PyMOLDir(prefix, pythonVersion string) string {
	if l.Windows() {
		return filepath.Join(prefix, "Lib", "site-packages", "pymol")
	}
	return filepath.Join(prefix, "lib", "python"+pythonVersion, "site-packages", "pymol")
}

// WizardDir returns the directory PyMOL loads wizards from.
func (l *Layout) WizardDir(pymolDir string) string {
	return filepath.Join(pymolDir, "wizard")
}

// EnvFile picks the conda environment file shipped with a wizard. A generic
// environment.yaml wins over the platform specific one.
func (l *Layout) EnvFile(wizardRoot string) (string, error) {
	envsDir := filepath.Join(wizardRoot, "envs")
	defaultEnv := filepath.Join(envsDir, "environment.yaml")

	platformEnv := filepath.Join(envsDir, "linux_environment.yaml")
	if l.Windows() {
		platformEnv = filepath.Join(envsDir, "windows_environment.yaml")
	}

	for _, candidate := range []string{defaultEnv, platformEnv} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("neither %s nor %s exist, please check the installation files: %w",
		defaultEnv, platformEnv, fs.ErrNotExist)
}

// ResolveWithin joins relativePath onto root and rejects results outside root.
func ResolveWithin(root, relativePath string) (string, error) {
	relativePath = strings.TrimSpace(relativePath)
	if relativePath == "" {
		return "", errors.New("empty path")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(filepath.Join(absRoot, relativePath))
	if err != nil {
		return "", err
	}

	relPath, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return "", err
	}
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal not allowed: %s", relativePath)
	}

	return absPath, nil
}
