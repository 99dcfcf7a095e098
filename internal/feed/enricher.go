package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Details carries the feed-sourced metadata for one episode.
type Details struct {
	PodcastTitle string
	EpisodeTitle string
	Author       string
}

// Enricher resolves episode details from podcast RSS feeds. Parsed feeds
// are cached per URL so a run touches each feed at most once.
type Enricher struct {
	parser *gofeed.Parser
	cache  map[string]*gofeed.Feed
}

func NewEnricher() *Enricher {
	return &Enricher{
		parser: gofeed.NewParser(),
		cache:  make(map[string]*gofeed.Feed),
	}
}

// EpisodeDetails looks up the feed entry matching the episode GUID and
// returns its title and author together with the podcast title.
func (e *Enricher) EpisodeDetails(ctx context.Context, podcastURL, guid string) (*Details, error) {
	feed, ok := e.cache[podcastURL]
	if !ok {
		parsed, err := e.parser.ParseURLWithContext(podcastURL, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to parse podcast feed %s: %w", podcastURL, err)
		}
		e.cache[podcastURL] = parsed
		feed = parsed
	}

	podcastTitle := feed.Title
	if podcastTitle == "" {
		podcastTitle = "Unknown Podcast"
	}

	for _, item := range feed.Items {
		if item.GUID != guid {
			continue
		}

		episodeTitle := item.Title
		if episodeTitle == "" {
			episodeTitle = "Unknown Episode"
		}

		return &Details{
			PodcastTitle: podcastTitle,
			EpisodeTitle: episodeTitle,
			Author:       itemAuthor(feed, item),
		}, nil
	}

	return nil, fmt.Errorf("episode %s not found in feed %s", guid, podcastURL)
}

// itemAuthor picks the most specific author available: item author, then
// the item's iTunes author, then the feed's, then a fallback.
func itemAuthor(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	if item.ITunesExt != nil && item.ITunesExt.Author != "" {
		return item.ITunesExt.Author
	}
	if feed.ITunesExt != nil && feed.ITunesExt.Author != "" {
		return feed.ITunesExt.Author
	}
	return "Unknown Author"
}
