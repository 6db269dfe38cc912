package main

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pymol-wizard/installer/internal/installer"
	"github.com/pymol-wizard/installer/internal/prompt"
	"github.com/pymol-wizard/installer/internal/runner"
	"github.com/pymol-wizard/installer/internal/ui"
)

// newInstaller wires an Installer to the process's terminal.
func newInstaller(cfg installer.Config) *installer.Installer {
	cfg.CurrentEnv = os.Getenv("CONDA_DEFAULT_ENV")
	cfg.GOOS = runtime.GOOS

	out := ui.New(os.Stdout)
	r := runner.New(os.Stdin, os.Stdout, os.Stderr)
	return installer.New(cfg, r, prompt.New(os.Stdin, out), out)
}

func newInstallCmd() *cobra.Command {
	var cfg installer.Config

	cmd := &cobra.Command{
		Use:   "install <wizard-root>",
		Short: "Install a wizard",
		Long: `Install the wizard found in <wizard-root>. The directory must contain
metadata.yaml, <name>.py and an envs/ directory with the conda
environment file.`,
		Example: `pymol-wizard install ./align-wizard --env-name align`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.WizardRoot = args[0]
			return newInstaller(cfg).Install(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.EnvName, "env-name", "", "conda environment to create or use (default: current)")
	cmd.Flags().BoolVar(&cfg.Fast, "fast", false, "only pip install the package and copy the wizard")
	cmd.Flags().BoolVar(&cfg.SkipMissingMenus, "skip-missing-menus", false, "warn instead of failing when a menu file is missing")
	return cmd
}

func newUninstallCmd() *cobra.Command {
	var cfg installer.Config

	cmd := &cobra.Command{
		Use:     "uninstall <wizard-root> [env-name]",
		Short:   "Uninstall a wizard",
		Example: `pymol-wizard uninstall ./align-wizard align`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.WizardRoot = args[0]
			if len(args) > 1 {
				cfg.EnvName = args[1]
			}
			return newInstaller(cfg).Uninstall(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.EnvName, "env-name", "", "conda environment the wizard was installed in (default: recorded)")
	cmd.Flags().BoolVar(&cfg.SkipMissingMenus, "skip-missing-menus", false, "warn instead of failing when a menu file is missing")
	return cmd
}
