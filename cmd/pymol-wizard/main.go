// Package main implements the pymol-wizard command line tool.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "pymol-wizard",
		Short: "Install PyMOL wizards into conda environments",
		Long: `pymol-wizard installs a PyMOL wizard into a conda environment.
It can create the environment, build PyMOL and OpenVR from source,
pip install the wizard package, copy the wizard script into PyMOL
and register it in PyMOL's Wizard menus.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newInstallCmd(),
		newUninstallCmd(),
		newPatchCmd(),
		newUnpatchCmd(),
		newStatusCmd(),
		newServeCmd(),
	)

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}
