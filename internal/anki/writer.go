package anki

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/zefanja/podcast2Anki/pkg/log"
)

// WriteCSV saves flashcards in the four-column import format:
// quote, title, author, date. No header row.
func WriteCSV(path string, cards []Flashcard) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create flashcard file %s: %w", path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	for _, card := range cards {
		if err := writer.Write([]string{card.Quote, card.Title, card.Author, card.Date}); err != nil {
			return fmt.Errorf("failed to write flashcard row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush flashcard file %s: %w", path, err)
	}

	log.Info("Flashcards saved to %s", path)
	return nil
}
