package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/pymol-wizard/installer/internal/patch"
)

func newServeCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "serve [pymol-dir]",
		Short: "Serve menu patching tools over MCP",
		Long: `serve runs a Model Context Protocol (MCP) server on stdio that lets
an MCP client add, remove and inspect wizard entries in the Wizard
menus of one PyMOL installation. The PyMOL package directory defaults
to the current directory.`,
		Example: `pymol-wizard serve $CONDA_PREFIX/lib/python3.11/site-packages/pymol`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pymolDir, err := servedDir(args)
			if err != nil {
				return err
			}

			server := mcp.NewServer(&mcp.Implementation{
				Name:    "pymol-wizard",
				Version: version,
			}, nil)

			registerTools(server, &handlers{pymolDir: pymolDir, engine: patch.New(dryRun)})

			if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				return fmt.Errorf("error running server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report diffs without writing menu files")
	return cmd
}

func servedDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve PyMOL directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("PyMOL directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}
