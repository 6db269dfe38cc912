package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pymol-wizard/installer/internal/types"
)

// Menu identifies one of the two PyMOL files that list wizards.
type Menu int

const (
	// ExternalMenu is the Wizard menu of the Tk/Qt GUI, defined in _gui.py.
	ExternalMenu Menu = iota
	// InternalMenu is the in-viewer VR menu, defined in wizard/openvr.py.
	InternalMenu
)

// Menus lists every menu in the order entries are added.
var Menus = []Menu{ExternalMenu, InternalMenu}

var (
	externalAnchor = regexp.MustCompile(`\(\s*["']menu["'],\s*["']Wizard["'],\s*\[`)
	internalAnchor = regexp.MustCompile(`\[2, ["']Wizard Menu["'], ["']["']\],`)
)

func (m Menu) String() string {
	switch m {
	case ExternalMenu:
		return "external GUI"
	case InternalMenu:
		return "internal GUI"
	default:
		return fmt.Sprintf("menu(%d)", int(m))
	}
}

// Path returns the menu file inside a PyMOL package directory.
func (m Menu) Path(pymolDir string) string {
	if m == InternalMenu {
		return filepath.Join(pymolDir, "wizard", "openvr.py")
	}
	return filepath.Join(pymolDir, "_gui.py")
}

// Entry returns the line that registers wizard name under menuEntry.
func (m Menu) Entry(menuEntry, name string) string {
	if m == InternalMenu {
		return fmt.Sprintf(`[1, "%s", "wizard %s"],`, menuEntry, name)
	}
	return fmt.Sprintf(`("command", "%s", "wizard %s"),`, menuEntry, name)
}

// Anchor returns the pattern the entry is inserted after.
func (m Menu) Anchor() *regexp.Regexp {
	if m == InternalMenu {
		return internalAnchor
	}
	return externalAnchor
}

// Target builds the insertion for a wizard in this menu. The entry goes on
// its own line directly after the anchor.
func (m Menu) Target(pymolDir, menuEntry, name string) types.PatchTarget {
	insert := "\n" + m.Entry(menuEntry, name)
	return types.PatchTarget{
		Path:     m.Path(pymolDir),
		Anchor:   m.Anchor(),
		Insert:   insert,
		Presence: QuoteAgnostic(insert),
	}
}

// RemovalPattern matches the physical line holding the entry, including
// its line terminator.
func (m Menu) RemovalPattern(menuEntry, name string) *regexp.Regexp {
	return regexp.MustCompile(quoteAgnosticExpr(m.Entry(menuEntry, name)) + `(?:\r?\n|$)`)
}

// QuoteAgnostic compiles literal into a pattern where every double quote
// also matches a single quote.
func QuoteAgnostic(literal string) *regexp.Regexp {
	return regexp.MustCompile(quoteAgnosticExpr(literal))
}

func quoteAgnosticExpr(literal string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(literal), `"`, `["']`)
}

// AddEntries registers wizard name in each menu. A missing anchor is only
// reported in the results; a missing file stops the run.
func (e *Engine) AddEntries(pymolDir, menuEntry, name string, menus ...Menu) ([]types.PatchResult, error) {
	var results []types.PatchResult
	for _, m := range menus {
		result, err := e.InsertAfter(m.Target(pymolDir, menuEntry, name))
		if err != nil {
			return results, fmt.Errorf("adding %s entry: %w", m, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// RemoveEntries drops wizard name from each menu.
func (e *Engine) RemoveEntries(pymolDir, menuEntry, name string, menus ...Menu) ([]types.PatchResult, error) {
	var results []types.PatchResult
	for _, m := range menus {
		result, err := e.RemoveMatching(m.Path(pymolDir), m.RemovalPattern(menuEntry, name))
		if err != nil {
			return results, fmt.Errorf("removing %s entry: %w", m, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Status reports, per menu, whether the menu file exists and lists the wizard.
func (e *Engine) Status(pymolDir, menuEntry, name string) ([]types.MenuEntryStatus, error) {
	statuses := make([]types.MenuEntryStatus, 0, len(Menus))
	for _, m := range Menus {
		target := m.Target(pymolDir, menuEntry, name)
		status := types.MenuEntryStatus{Path: target.Path}

		present, err := e.Contains(target.Path, target.Presence)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return nil, err
		default:
			status.Exists = true
			status.Present = present
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// HasMenu reports whether the menu file exists below pymolDir.
func (m Menu) HasMenu(pymolDir string) bool {
	_, err := os.Stat(m.Path(pymolDir))
	return !errors.Is(err, fs.ErrNotExist)
}

// ParseMenus maps a command line selector (all, external or internal) to menus.
func ParseMenus(selector string) ([]Menu, error) {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "", "all":
		return Menus, nil
	case "external", "gui":
		return []Menu{ExternalMenu}, nil
	case "internal", "vr":
		return []Menu{InternalMenu}, nil
	default:
		return nil, fmt.Errorf("unknown menu %q (want all, external or internal)", selector)
	}
}
