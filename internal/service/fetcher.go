package service

import (
	"context"
	"os"

	"github.com/zefanja/podcast2Anki/pkg/log"
)

// Fetcher downloads the output of a completed batch job to a local
// artifact. The job handle is cleared only after the artifact is written,
// so a crash in between leaves the run resumable instead of losing the
// results.
type Fetcher struct {
	api        BatchAPI
	tracker    *JobTracker
	outputPath string
}

func NewFetcher(api BatchAPI, tracker *JobTracker, outputPath string) *Fetcher {
	return &Fetcher{
		api:        api,
		tracker:    tracker,
		outputPath: outputPath,
	}
}

// Fetch retrieves the job output verbatim, persists it and releases the
// job handle. Returns the local artifact path.
func (f *Fetcher) Fetch(ctx context.Context, outputFileID string) (string, error) {
	content, err := f.api.FileContent(ctx, outputFileID)
	if err != nil {
		return "", WrapError(err, ErrAPI, "failed to download batch output").WithContext("output_file_id", outputFileID)
	}

	// Persist before clearing the handle: this ordering is the
	// crash-safety boundary of the whole pipeline.
	if err := os.WriteFile(f.outputPath, content, 0644); err != nil {
		return "", WrapError(err, ErrFileWrite, "failed to persist batch output").WithContext("path", f.outputPath)
	}
	log.Info("Results saved to %s", f.outputPath)

	if err := f.tracker.Clear(); err != nil {
		log.Warn("Failed to clear job handle: %v", err)
	}

	return f.outputPath, nil
}
