// Package types defines the data structures shared across the installer.
package types

import "regexp"

// Reason describes the outcome of a patch operation.
type Reason string

const (
	ReasonInserted       Reason = "inserted"
	ReasonAlreadyPresent Reason = "already_present"
	ReasonAnchorNotFound Reason = "anchor_not_found"
	ReasonRemoved        Reason = "removed"
	ReasonNotPresent     Reason = "not_present"
)

type (
	// PatchTarget describes one desired insertion into a text file.
	PatchTarget struct {
		Path     string
		Anchor   *regexp.Regexp
		Insert   string
		Presence *regexp.Regexp
	}

	// PatchResult contains the result of a patch operation.
	PatchResult struct {
		Changed bool   `json:"changed"`
		Reason  Reason `json:"reason"`
		Path    string `json:"path"`
		Message string `json:"message"`
		Diff    string `json:"diff,omitempty"` // only set in dry-run mode
	}

	// MenuEntryStatus reports whether a wizard is registered in one menu file.
	MenuEntryStatus struct {
		Path    string `json:"path"`
		Exists  bool   `json:"exists"`
		Present bool   `json:"present"`
	}
)
