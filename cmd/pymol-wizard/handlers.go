package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pymol-wizard/installer/internal/metadata"
	"github.com/pymol-wizard/installer/internal/patch"
)

type handlers struct {
	pymolDir string
	engine   *patch.Engine
}

func (h *handlers) handleAdd(ctx context.Context, req *mcp.CallToolRequest, input EntryInput) (*mcp.CallToolResult, EntryOutput, error) {
	menus, err := entryMenus(input)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, EntryOutput{}, err
	}

	results, err := h.engine.AddEntries(h.pymolDir, input.MenuEntry, input.Name, menus...)
	out := EntryOutput{Results: results, DryRun: h.engine.DryRun()}
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, out, err
	}
	return nil, out, nil
}

func (h *handlers) handleRemove(ctx context.Context, req *mcp.CallToolRequest, input EntryInput) (*mcp.CallToolResult, EntryOutput, error) {
	menus, err := entryMenus(input)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, EntryOutput{}, err
	}

	results, err := h.engine.RemoveEntries(h.pymolDir, input.MenuEntry, input.Name, menus...)
	out := EntryOutput{Results: results, DryRun: h.engine.DryRun()}
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, out, err
	}
	return nil, out, nil
}

func (h *handlers) handleStatus(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
	if err := metadata.CheckEntry(input.Name, input.MenuEntry); err != nil {
		return &mcp.CallToolResult{IsError: true}, StatusOutput{}, err
	}

	statuses, err := h.engine.Status(h.pymolDir, input.MenuEntry, input.Name)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, StatusOutput{}, err
	}

	out := StatusOutput{Menus: make([]MenuStatus, 0, len(statuses))}
	for i, s := range statuses {
		out.Menus = append(out.Menus, MenuStatus{
			Menu:    patch.Menus[i].String(),
			Path:    s.Path,
			Exists:  s.Exists,
			Present: s.Present,
		})
	}
	return nil, out, nil
}

func entryMenus(input EntryInput) ([]patch.Menu, error) {
	if err := metadata.CheckEntry(input.Name, input.MenuEntry); err != nil {
		return nil, err
	}
	return patch.ParseMenus(input.Menu)
}
