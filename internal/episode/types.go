package episode

// Episode describes one fully listened podcast episode as recorded by the
// listening sync stage. The JSON field names match the on-disk metadata file.
type Episode struct {
	PodcastTitle  string `json:"podcast_title"`
	PodcastAuthor string `json:"podcast_author"`
	EpisodeTitle  string `json:"episode_title"`
	EpisodeID     string `json:"episode_id"`
	EpisodeURL    string `json:"episode_url"`
	Date          string `json:"date"`
	Language      string `json:"language,omitempty"`
}
