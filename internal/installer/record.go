package installer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RecordFile is written to the wizard root after an install so that
// uninstall knows which environment to clean up.
const RecordFile = "installation_data.json"

// Record describes a completed installation.
type Record struct {
	EnvName   string `json:"env_name"`
	WizardDir string `json:"installed_wizard_dir"`
}

func recordPath(root string) string {
	return filepath.Join(root, RecordFile)
}

// LoadRecord reads the installation record of a wizard. It returns
// (nil, nil) when no record exists.
func LoadRecord(root string) (*Record, error) {
	data, err := os.ReadFile(recordPath(root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading installation record: %w", err)
	}

	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", RecordFile, err)
	}
	return &r, nil
}

func saveRecord(root string, r Record) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(recordPath(root), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing installation record: %w", err)
	}
	return nil
}

func removeRecord(root string) error {
	if err := os.Remove(recordPath(root)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing installation record: %w", err)
	}
	return nil
}
