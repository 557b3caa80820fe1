package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/noah-isme/practicum-admin-api/internal/viewstate"
)

// LoadSnapshots reads saved view state. A missing file is an empty state.
func LoadSnapshots(path string) (map[string]viewstate.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read view state: %w", err)
	}
	var snaps map[string]viewstate.Snapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return nil, fmt.Errorf("decode view state %s: %w", path, err)
	}
	return snaps, nil
}

// SaveSnapshots writes view state for the next session.
func SaveSnapshots(path string, snaps map[string]viewstate.Snapshot) error {
	raw, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("encode view state: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write view state: %w", err)
	}
	return nil
}
