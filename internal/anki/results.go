package anki

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/zefanja/podcast2Anki/pkg/file"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// ResultStore persists AI-generated flashcard points per episode as a JSON
// object mapping episode ID to an ordered list of point strings. The store
// only grows: episodes already present are never overwritten.
type ResultStore struct {
	path string
}

func NewResultStore(path string) *ResultStore {
	return &ResultStore{path: path}
}

// Load reads the stored results. A missing file yields an empty map.
func (s *ResultStore) Load() (map[string][]string, error) {
	if !file.Exists(s.path) {
		return map[string][]string{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results %s: %w", s.path, err)
	}

	results := map[string][]string{}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse results %s: %w", s.path, err)
	}
	return results, nil
}

// Save rewrites the full results file.
func (s *ResultStore) Save(results map[string][]string) error {
	log.Info("Saving results....")
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results %s: %w", s.path, err)
	}
	return nil
}

// Merge adds newly parsed episodes into the result set. Existing entries
// win, keeping the store monotonic across runs.
func Merge(results, parsed map[string][]string) {
	for episodeID, points := range parsed {
		if _, exists := results[episodeID]; exists {
			log.Warn("Episode %s already has stored results, keeping existing entry", episodeID)
			continue
		}
		results[episodeID] = points
	}
}
