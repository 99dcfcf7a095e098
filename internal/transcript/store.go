package transcript

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/zefanja/podcast2Anki/pkg/file"
)

// Store reads transcripts produced by the external transcription stage.
// One plain text file per episode, keyed by episode ID. The store never
// writes.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the transcript location for an episode.
func (s *Store) Path(episodeID string) string {
	return filepath.Join(s.dir, episodeID+".txt")
}

// Load returns the transcript text for an episode. The second return value
// is false when the transcript does not exist yet, which is not an error:
// the episode is simply not ready for summarization.
func (s *Store) Load(episodeID string) (string, bool, error) {
	path := s.Path(episodeID)
	if !file.Exists(path) {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to read transcript %s: %w", path, err)
	}
	return string(data), true, nil
}

// DetectLanguage guesses the language of a transcript from its text.
func DetectLanguage(text string) language.Tag {
	if text == "" {
		return language.Und
	}
	iso := whatlanggo.DetectLang(text).Iso6391()
	return language.All.Make(iso)
}
