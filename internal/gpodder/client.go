package gpodder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// EpisodeAction is one listening event reported by a gpodder-compatible
// sync service.
type EpisodeAction struct {
	Podcast   string `json:"podcast"`
	Episode   string `json:"episode"`
	GUID      string `json:"guid"`
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Position  int    `json:"position"`
	Total     int    `json:"total"`
}

// ActionsResponse is the episode-actions endpoint payload. The server
// timestamp is echoed back on the next request as the since parameter.
type ActionsResponse struct {
	Actions   []EpisodeAction `json:"actions"`
	Timestamp int64           `json:"timestamp"`
}

// Client talks to a gpodder-compatible episode-actions API using HTTP
// basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// EpisodeActions fetches episode actions for the configured user. A nil
// since fetches the full history.
func (c *Client) EpisodeActions(ctx context.Context, since *int64) (*ActionsResponse, error) {
	endpoint := fmt.Sprintf("%sepisodes/%s.json", c.baseURL, url.PathEscape(c.username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	if since != nil {
		q := req.URL.Query()
		q.Set("since", strconv.FormatInt(*since, 10))
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch episode actions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read episode actions response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch episode actions: %d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var actions ActionsResponse
	if err := json.Unmarshal(body, &actions); err != nil {
		return nil, fmt.Errorf("failed to parse episode actions response: %w", err)
	}

	return &actions, nil
}

// FullyListened filters for play actions where the playback position
// reached the episode total.
func FullyListened(actions []EpisodeAction) []EpisodeAction {
	ret := make([]EpisodeAction, 0, len(actions))
	for _, action := range actions {
		if action.Action == "play" && action.Total > 0 && action.Position == action.Total {
			ret = append(ret, action)
		}
	}
	return ret
}

// ListenedDate converts a sync timestamp (UTC) into the local listening
// date format used in the metadata file. Timestamps are shifted to UTC+7
// and rendered as DD.MM.YYYY HH:MM.
func ListenedDate(timestamp string) (string, error) {
	utc, err := time.Parse("2006-01-02T15:04:05Z", timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to parse action timestamp %q: %w", timestamp, err)
	}
	return utc.Add(7 * time.Hour).Format("02.01.2006 15:04"), nil
}
