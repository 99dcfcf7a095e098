package gpodder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpisodeActions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "/episodes/alice.json", r.URL.Path)
		assert.Equal(t, "1700000000", r.URL.Query().Get("since"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"actions": [
				{"podcast": "https://feeds.example/show.xml", "episode": "https://cdn.example/ep1.mp3", "guid": "guid-1", "action": "play", "timestamp": "2026-01-02T10:00:00Z", "position": 3600, "total": 3600},
				{"podcast": "https://feeds.example/show.xml", "episode": "https://cdn.example/ep2.mp3", "guid": "guid-2", "action": "play", "timestamp": "2026-01-02T11:00:00Z", "position": 120, "total": 3600},
				{"podcast": "https://feeds.example/show.xml", "episode": "https://cdn.example/ep3.mp3", "guid": "guid-3", "action": "download", "timestamp": "2026-01-02T12:00:00Z", "position": 0, "total": 0}
			],
			"timestamp": 1700001234
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "alice", "secret")
	since := int64(1700000000)
	resp, err := client.EpisodeActions(context.Background(), &since)
	require.NoError(t, err)

	assert.Equal(t, int64(1700001234), resp.Timestamp)
	require.Len(t, resp.Actions, 3)

	listened := FullyListened(resp.Actions)
	require.Len(t, listened, 1)
	assert.Equal(t, "guid-1", listened[0].GUID)
}

func TestEpisodeActionsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "alice", "wrong")
	_, err := client.EpisodeActions(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestListenedDate(t *testing.T) {
	date, err := ListenedDate("2026-01-02T20:30:00Z")
	require.NoError(t, err)
	// UTC+7 rolls over to the next day
	assert.Equal(t, "03.01.2026 03:30", date)

	_, err = ListenedDate("not a timestamp")
	require.Error(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "last_timestamp.txt")

	_, ok, err := LoadLastTimestamp(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SaveLastTimestamp(path, 1700001234))

	ts, ok, err := LoadLastTimestamp(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700001234), ts)
}
