package anki

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"

	"github.com/zefanja/podcast2Anki/internal/episode"
)

// Flashcard is one importable card. Quote carries the rendered point text,
// the remaining fields describe its source episode.
type Flashcard struct {
	Author string
	Date   string
	Title  string
	Quote  string
}

// BuildFlashcards emits one flashcard per stored point for every episode
// with known metadata, in metadata order. Missing metadata fields fall
// back to defaults.
func BuildFlashcards(episodes []episode.Episode, results map[string][]string, now time.Time) []Flashcard {
	var cards []Flashcard
	for _, ep := range episodes {
		points, ok := results[ep.EpisodeID]
		if !ok {
			continue
		}
		for _, point := range points {
			cards = append(cards, newFlashcard(ep, point, now))
		}
	}
	return cards
}

func newFlashcard(ep episode.Episode, point string, now time.Time) Flashcard {
	author := ep.PodcastAuthor
	if author == "" {
		author = "Unknown"
	}

	date := ep.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}

	podcastTitle := ep.PodcastTitle
	if podcastTitle == "" {
		podcastTitle = "Unknown Podcast"
	}
	episodeTitle := ep.EpisodeTitle
	if episodeTitle == "" {
		episodeTitle = "Unknown Episode"
	}

	return Flashcard{
		Author: author,
		Date:   date,
		Title:  fmt.Sprintf("%s - %s", podcastTitle, episodeTitle),
		Quote:  RenderQuote(point),
	}
}

// RenderQuote converts a point's lightweight markup (paragraphs and bullet
// sub-items) into HTML for the card front.
func RenderQuote(point string) string {
	html := markdown.ToHTML([]byte(strings.TrimSpace(point)), nil, nil)
	return strings.TrimSpace(string(html))
}
