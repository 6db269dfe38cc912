// Package pyproject reads the Python package name of a wizard.
package pyproject

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the Python project file at the root of a wizard.
const FileName = "pyproject.toml"

// ErrNoName is returned when pyproject.toml has no project.name.
var ErrNoName = errors.New("'project.name' not found in pyproject.toml")

type file struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// PackageName returns project.name from <root>/pyproject.toml.
func PackageName(root string) (string, error) {
	path := filepath.Join(root, FileName)

	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if f.Project.Name == "" {
		return "", ErrNoName
	}
	return f.Project.Name, nil
}
