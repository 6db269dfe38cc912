package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/pymol-wizard/installer/internal/metadata"
	"github.com/pymol-wizard/installer/internal/patch"
	"github.com/pymol-wizard/installer/internal/ui"
)

// menuFlags selects a wizard and a PyMOL directory for the menu commands.
type menuFlags struct {
	pymolDir   string
	wizardRoot string
	name       string
	menuEntry  string
	menu       string
	dryRun     bool
}

func (f *menuFlags) register(cmd *cobra.Command, withDryRun bool) {
	cmd.Flags().StringVar(&f.pymolDir, "pymol-dir", "", "PyMOL package directory (site-packages/pymol)")
	cmd.Flags().StringVar(&f.wizardRoot, "wizard-root", "", "read name and menu entry from this wizard's metadata.yaml")
	cmd.Flags().StringVar(&f.name, "name", "", "wizard module name")
	cmd.Flags().StringVar(&f.menuEntry, "menu-entry", "", "label shown in the Wizard menu")
	cmd.Flags().StringVar(&f.menu, "menu", "all", "menus to change: all, external or internal")
	if withDryRun {
		cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print the change without writing")
	}
	_ = cmd.MarkFlagRequired("pymol-dir")
}

// resolve fills name and menu entry from metadata when asked to, and
// returns the selected menus.
func (f *menuFlags) resolve() ([]patch.Menu, error) {
	menus, err := patch.ParseMenus(f.menu)
	if err != nil {
		return nil, err
	}

	if f.wizardRoot != "" {
		meta, err := metadata.New().Load(f.wizardRoot)
		if err != nil {
			return nil, err
		}
		if f.name == "" {
			f.name = meta.Name
		}
		if f.menuEntry == "" {
			f.menuEntry = meta.MenuEntry
		}
	}

	if f.name == "" || f.menuEntry == "" {
		return nil, errors.New("--name and --menu-entry are required unless --wizard-root is given")
	}
	if err := metadata.CheckEntry(f.name, f.menuEntry); err != nil {
		return nil, err
	}
	return menus, nil
}

func newPatchCmd() *cobra.Command {
	var f menuFlags

	cmd := &cobra.Command{
		Use:     "patch",
		Short:   "Add a wizard to PyMOL's Wizard menus",
		Example: `pymol-wizard patch --pymol-dir $CONDA_PREFIX/lib/python3.11/site-packages/pymol --name align_wizard --menu-entry Align`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			menus, err := f.resolve()
			if err != nil {
				return err
			}
			out := ui.New(os.Stdout)
			results, err := patch.New(f.dryRun).AddEntries(f.pymolDir, f.menuEntry, f.name, menus...)
			for _, r := range results {
				out.PatchResult(r)
			}
			return err
		},
	}

	f.register(cmd, true)
	return cmd
}

func newUnpatchCmd() *cobra.Command {
	var f menuFlags

	cmd := &cobra.Command{
		Use:   "unpatch",
		Short: "Remove a wizard from PyMOL's Wizard menus",
		Long: `Remove a wizard's entries from PyMOL's Wizard menus. The previous
content of each changed file is kept next to it with a .bak suffix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			menus, err := f.resolve()
			if err != nil {
				return err
			}
			out := ui.New(os.Stdout)
			results, err := patch.New(f.dryRun).RemoveEntries(f.pymolDir, f.menuEntry, f.name, menus...)
			for _, r := range results {
				out.PatchResult(r)
			}
			return err
		},
	}

	f.register(cmd, true)
	return cmd
}

func newStatusCmd() *cobra.Command {
	var f menuFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether a wizard is listed in PyMOL's Wizard menus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := f.resolve(); err != nil {
				return err
			}
			statuses, err := patch.New(false).Status(f.pymolDir, f.menuEntry, f.name)
			if err != nil {
				return err
			}

			out := ui.New(os.Stdout)
			for i, s := range statuses {
				label := patch.Menus[i].String()
				switch {
				case !s.Exists:
					out.Warning("%-13s missing file %s", label, s.Path)
				case s.Present:
					out.Success("%-13s registered in %s", label, s.Path)
				default:
					out.Info("%-13s not registered in %s", label, s.Path)
				}
			}
			return nil
		},
	}

	f.register(cmd, false)
	return cmd
}
