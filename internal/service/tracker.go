package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/zefanja/podcast2Anki/pkg/log"
)

// JobTracker persists the identifier of the single in-flight batch job.
// Its presence at startup means an earlier run submitted a job whose
// results were not saved yet, so the run resumes instead of resubmitting.
type JobTracker struct {
	path string
}

func NewJobTracker(path string) *JobTracker {
	return &JobTracker{path: path}
}

// Load returns the persisted job ID. The second return value is false when
// no job is being tracked.
func (t *JobTracker) Load() (string, bool, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read job handle %s: %w", t.path, err)
	}

	jobID := strings.TrimSpace(string(data))
	if jobID == "" {
		return "", false, nil
	}
	return jobID, true, nil
}

// Store persists the job ID, replacing any prior value. There is never
// more than one in-flight job.
func (t *JobTracker) Store(jobID string) error {
	if err := os.WriteFile(t.path, []byte(jobID), 0644); err != nil {
		return fmt.Errorf("failed to write job handle %s: %w", t.path, err)
	}
	return nil
}

// Clear removes the persisted handle. Must only be called after the job
// output has been durably saved. A missing file is not an error.
func (t *JobTracker) Clear() error {
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		log.Debug("Job handle %s already removed", t.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove job handle %s: %w", t.path, err)
	}
	log.Info("%s has been deleted successfully.", t.path)
	return nil
}
