// Package patch performs idempotent, anchor-based edits of PyMOL's menu files.
package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/pymol-wizard/installer/internal/types"
)

// BackupSuffix is appended to a file's name to hold its content before a removal.
const BackupSuffix = ".bak"

// ErrNotFound is returned when the file to patch does not exist.
var ErrNotFound = errors.New("target file not found")

// Engine applies insertions and removals to text files.
type Engine struct {
	dryRun bool
}

// New creates a new Engine. A dry-run engine never writes and reports a diff instead.
func New(dryRun bool) *Engine {
	return &Engine{dryRun: dryRun}
}

// DryRun reports whether the engine leaves files untouched.
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// InsertAfter splices target.Insert right after the first match of
// target.Anchor, unless target.Presence already matches the file.
func (e *Engine) InsertAfter(target types.PatchTarget) (types.PatchResult, error) {
	path := target.Path
	content, perm, err := readFile(path)
	if err != nil {
		return types.PatchResult{}, err
	}

	if target.Presence.MatchString(content) {
		return types.PatchResult{
			Changed: false,
			Reason:  types.ReasonAlreadyPresent,
			Path:    path,
			Message: fmt.Sprintf("Entry already exists in %s, skipping", path),
		}, nil
	}

	loc := target.Anchor.FindStringIndex(content)
	if loc == nil {
		return types.PatchResult{
			Changed: false,
			Reason:  types.ReasonAnchorNotFound,
			Path:    path,
			Message: fmt.Sprintf("Could not find target in %s", path),
		}, nil
	}

	end := loc[1]
	insert := target.Insert
	if lineEnding(content, end) == "\r\n" {
		insert = strings.ReplaceAll(strings.ReplaceAll(insert, "\r\n", "\n"), "\n", "\r\n")
	}
	updated := content[:end] + insert + content[end:]

	result := types.PatchResult{
		Changed: true,
		Reason:  types.ReasonInserted,
		Path:    path,
		Message: fmt.Sprintf("Added entry to %s", path),
	}
	if e.dryRun {
		result.Diff = lineDiff(content, updated)
		return result, nil
	}

	if err := writeAtomic(path, []byte(updated), perm); err != nil {
		return types.PatchResult{}, fmt.Errorf("failed to write file: %s - %w", path, err)
	}
	return result, nil
}

// RemoveMatching drops every line of the file matched by pattern. The
// pattern is tested against each line including its terminator. When
// something is dropped the previous content is kept in path+BackupSuffix.
func (e *Engine) RemoveMatching(path string, pattern *regexp.Regexp) (types.PatchResult, error) {
	content, perm, err := readFile(path)
	if err != nil {
		return types.PatchResult{}, err
	}

	var b strings.Builder
	b.Grow(len(content))
	removed := 0
	droppedLast := false
	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		if pattern.MatchString(line) {
			removed++
			// only the final line can lack a terminator
			droppedLast = !strings.HasSuffix(line, "\n")
			continue
		}
		b.WriteString(line)
	}

	if removed == 0 {
		return types.PatchResult{
			Changed: false,
			Reason:  types.ReasonNotPresent,
			Path:    path,
			Message: fmt.Sprintf("No matching entry in %s", path),
		}, nil
	}

	updated := b.String()
	if droppedLast {
		// The terminator before an unterminated last line belongs to it.
		if strings.HasSuffix(updated, "\r\n") {
			updated = updated[:len(updated)-2]
		} else {
			updated = strings.TrimSuffix(updated, "\n")
		}
	}

	plural := ""
	if removed > 1 {
		plural = "s"
	}
	result := types.PatchResult{
		Changed: true,
		Reason:  types.ReasonRemoved,
		Path:    path,
		Message: fmt.Sprintf("Removed %d line%s from %s", removed, plural, path),
	}
	if e.dryRun {
		result.Diff = lineDiff(content, updated)
		return result, nil
	}

	if err := writeAtomic(path+BackupSuffix, []byte(content), perm); err != nil {
		return types.PatchResult{}, fmt.Errorf("failed to write backup: %s - %w", path+BackupSuffix, err)
	}
	if err := writeAtomic(path, []byte(updated), perm); err != nil {
		return types.PatchResult{}, fmt.Errorf("failed to write file: %s - %w", path, err)
	}
	return result, nil
}

// Contains reports whether pattern matches anywhere in the file.
func (e *Engine) Contains(path string, pattern *regexp.Regexp) (bool, error) {
	content, _, err := readFile(path)
	if err != nil {
		return false, err
	}
	return pattern.MatchString(content), nil
}

func readFile(path string) (string, os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", 0, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return "", 0, fmt.Errorf("failed to stat file: %s - %w", path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("cannot patch directory: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", 0, fmt.Errorf("permission denied: %s - %w", path, err)
		}
		return "", 0, fmt.Errorf("failed to read file: %s - %w", path, err)
	}
	return string(content), info.Mode().Perm(), nil
}

// lineEnding returns the terminator of the line containing offset, falling
// back to the first terminator in content.
func lineEnding(content string, offset int) string {
	i := strings.IndexByte(content[offset:], '\n')
	if i >= 0 {
		i += offset
	} else if i = strings.IndexByte(content, '\n'); i < 0 {
		return "\n"
	}
	if i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// writeAtomic writes data to a temporary file next to path and renames it
// over path, so readers see either the old or the new content.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// lineDiff renders the changed lines between before and after with -/+ prefixes.
func lineDiff(before, after string) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(strings.TrimRight(line, "\r\n"))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
