package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pymol-wizard/installer/internal/types"
)

type (
	// EntryInput names a wizard and the menus to change.
	EntryInput struct {
		Name      string `json:"name" jsonschema:"Wizard module name, e.g. align_wizard"`
		MenuEntry string `json:"menuEntry" jsonschema:"Label shown in the Wizard menu"`
		Menu      string `json:"menu,omitempty" jsonschema:"Menus to change: all, external or internal (default: all)"`
	}

	// EntryOutput contains one result per changed menu.
	EntryOutput struct {
		Results []types.PatchResult `json:"results"`
		DryRun  bool                `json:"dryRun,omitempty"`
	}

	// StatusInput names the wizard to look up.
	StatusInput struct {
		Name      string `json:"name" jsonschema:"Wizard module name"`
		MenuEntry string `json:"menuEntry" jsonschema:"Label shown in the Wizard menu"`
	}

	// StatusOutput reports the wizard's presence in each menu.
	StatusOutput struct {
		Menus []MenuStatus `json:"menus"`
	}

	// MenuStatus is the status of a single menu file.
	MenuStatus struct {
		Menu    string `json:"menu"`
		Path    string `json:"path"`
		Exists  bool   `json:"exists"`
		Present bool   `json:"present"`
	}
)

func registerTools(server *mcp.Server, h *handlers) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_menu_entries",
		Description: "Register a wizard in PyMOL's Wizard menus. Idempotent: an entry already present is left alone.",
	}, h.handleAdd)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_menu_entries",
		Description: "Remove a wizard's entries from PyMOL's Wizard menus. The previous file content is kept with a .bak suffix.",
	}, h.handleRemove)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "menu_status",
		Description: "Report whether each Wizard menu file exists and lists the wizard.",
	}, h.handleStatus)
}
