package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/zefanja/podcast2Anki/pkg/file"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// Downloader fetches episode audio into a local directory. Files that are
// already present are not downloaded again.
type Downloader struct {
	dir        string
	httpClient *http.Client
}

func NewDownloader(dir string) *Downloader {
	return &Downloader{
		dir: dir,
		httpClient: &http.Client{
			Timeout: 15 * time.Minute,
		},
	}
}

// Path returns the local audio location for an episode.
func (d *Downloader) Path(episodeID string) string {
	return filepath.Join(d.dir, episodeID+".mp3")
}

// Fetch downloads the episode audio and returns its local path. Downloads
// go through a temp file so an interrupted transfer never leaves a partial
// episode behind.
func (d *Downloader) Fetch(ctx context.Context, url, episodeID string) (string, error) {
	localPath := d.Path(episodeID)
	if file.Exists(localPath) {
		log.Debug("Episode %s already downloaded", episodeID)
		return localPath, nil
	}

	log.Info("Downloading episode %s...", episodeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download episode %s: %w", episodeID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download episode %s: status %d", episodeID, resp.StatusCode)
	}

	tmpPath := localPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write episode %s: %w", episodeID, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		return "", fmt.Errorf("failed to move episode %s into place: %w", episodeID, err)
	}

	log.Info("Episode %s downloaded to %s", episodeID, localPath)
	return localPath, nil
}
