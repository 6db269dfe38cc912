package installer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/pymol-wizard/installer/internal/pyproject"
)

// Uninstall removes the wizard package, its script and its menu entries.
func (i *Installer) Uninstall(ctx context.Context) error {
	s, err := i.start(ctx)
	if err != nil {
		return err
	}
	i.out.Header("Uninstalling the %s wizard", s.meta.Name)

	env := i.cfg.EnvName
	if env == "" {
		rec, err := LoadRecord(s.root)
		if err != nil {
			return err
		}
		if rec != nil && rec.EnvName != "" {
			env = rec.EnvName
			i.out.Info("Using recorded environment: %s.", env)
		}
	}
	if env == "" {
		env, err = i.prompt.Ask(fmt.Sprintf(
			"The conda environment used in the installation was not recorded. Please enter the name of the environment, or leave empty for default (%q):",
			s.meta.DefaultEnv), s.meta.DefaultEnv)
		if err != nil {
			return err
		}
	}

	i.out.Info("Uninstalling package...")
	if pkg, err := pyproject.PackageName(s.root); err != nil {
		i.out.Warning("Skipping pip uninstall: %v", err)
	} else if err := i.conda.PipUninstall(ctx, env, pkg); err != nil {
		i.out.Error("Error uninstalling %s: %v", pkg, err)
	} else {
		i.out.Success("Successfully uninstalled %s", pkg)
	}

	pymolDir := s.layout.PyMOLDir(s.layout.Prefix(env), s.meta.PythonVersion)

	i.out.Info("Removing files...")
	script := filepath.Join(s.layout.WizardDir(pymolDir), s.meta.Name+".py")
	if err := os.Remove(script); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", script, err)
		}
		i.out.Info("No files to delete.")
	}

	i.out.Info("Removing menu entries...")
	// reverse of registration order
	order := slices.Clone(i.menus(s.meta, pymolDir))
	slices.Reverse(order)
	results, err := i.engine.RemoveEntries(pymolDir, s.meta.MenuEntry, s.meta.Name, order...)
	for _, r := range results {
		i.out.PatchResult(r)
	}
	if err != nil {
		return err
	}

	if err := removeRecord(s.root); err != nil {
		return err
	}

	i.out.Success("Successfully uninstalled wizard %s from environment %s.", s.meta.Name, env)
	return nil
}
