package gpodder

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadLastTimestamp reads the persisted sync watermark. The second return
// value is false when no watermark has been saved yet.
func LoadLastTimestamp(path string) (int64, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read timestamp file %s: %w", path, err)
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse timestamp file %s: %w", path, err)
	}
	return ts, true, nil
}

// SaveLastTimestamp persists the sync watermark for the next run.
func SaveLastTimestamp(path string, timestamp int64) error {
	if err := os.WriteFile(path, []byte(strconv.FormatInt(timestamp, 10)), 0644); err != nil {
		return fmt.Errorf("failed to write timestamp file %s: %w", path, err)
	}
	return nil
}
