package episode

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadMetadata reads the detailed episodes file. A missing file is an error,
// the flashcard stage cannot run without metadata.
func LoadMetadata(path string) ([]Episode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read episode metadata %s: %w", path, err)
	}

	var episodes []Episode
	if err := json.Unmarshal(data, &episodes); err != nil {
		return nil, fmt.Errorf("failed to parse episode metadata %s: %w", path, err)
	}
	return episodes, nil
}

// SaveMetadata writes the episode list back to disk, pretty-printed so the
// file stays hand-inspectable.
func SaveMetadata(path string, episodes []Episode) error {
	data, err := json.MarshalIndent(episodes, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal episode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write episode metadata %s: %w", path, err)
	}
	return nil
}

// Dedupe removes duplicate entries by episode ID, keeping the latest
// occurrence and preserving the order of first appearance.
func Dedupe(episodes []Episode) []Episode {
	latest := make(map[string]Episode, len(episodes))
	order := make([]string, 0, len(episodes))

	for _, ep := range episodes {
		if _, seen := latest[ep.EpisodeID]; !seen {
			order = append(order, ep.EpisodeID)
		}
		latest[ep.EpisodeID] = ep
	}

	ret := make([]Episode, 0, len(order))
	for _, id := range order {
		ret = append(ret, latest[id])
	}
	return ret
}
