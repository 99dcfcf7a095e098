package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/zefanja/podcast2Anki/internal/llm"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// Submitter turns pending transcripts into a batch job: one task per
// episode, serialized as a line-delimited request file, uploaded and
// referenced by a newly created batch. The job ID is stored in the
// tracker right after creation so a crash later in the run resumes
// instead of resubmitting.
type Submitter struct {
	api       BatchAPI
	tracker   *JobTracker
	model     string
	prompt    string
	tasksPath string
}

func NewSubmitter(api BatchAPI, tracker *JobTracker, model, prompt, tasksPath string) *Submitter {
	return &Submitter{
		api:       api,
		tracker:   tracker,
		model:     model,
		prompt:    prompt,
		tasksPath: tasksPath,
	}
}

// Submit creates and registers a batch job for the given transcripts.
// Must not be called with an empty map.
func (s *Submitter) Submit(ctx context.Context, transcripts map[string]string) (string, error) {
	if len(transcripts) == 0 {
		return "", NewError(ErrConfig, "no transcripts to submit")
	}

	if err := s.writeTasksFile(transcripts); err != nil {
		return "", err
	}

	content, err := os.ReadFile(s.tasksPath)
	if err != nil {
		return "", WrapError(err, ErrFileRead, "failed to read tasks file")
	}

	fileID, err := s.api.UploadFile(ctx, filepath.Base(s.tasksPath), content, "batch")
	if err != nil {
		return "", WrapError(err, ErrAPI, "failed to upload tasks file")
	}
	log.Info("Uploaded JSONL file: %s", fileID)

	batch, err := s.api.CreateBatch(ctx, fileID)
	if err != nil {
		return "", WrapError(err, ErrAPI, "failed to create batch job")
	}

	if err := s.tracker.Store(batch.ID); err != nil {
		return "", WrapError(err, ErrFileWrite, "failed to persist job handle").WithContext("job_id", batch.ID)
	}

	return batch.ID, nil
}

// writeTasksFile serializes one task per episode as line-delimited JSON.
// Episodes are sorted so the artifact is deterministic.
func (s *Submitter) writeTasksFile(transcripts map[string]string) error {
	episodeIDs := make([]string, 0, len(transcripts))
	for episodeID := range transcripts {
		episodeIDs = append(episodeIDs, episodeID)
	}
	sort.Strings(episodeIDs)

	f, err := os.Create(s.tasksPath)
	if err != nil {
		return WrapError(err, ErrFileWrite, "failed to create tasks file")
	}
	defer f.Close()

	for _, episodeID := range episodeIDs {
		task := llm.BatchTask{
			CustomID: episodeID,
			Method:   "POST",
			URL:      "/v1/chat/completions",
			Body: llm.ChatBody{
				Model: s.model,
				Messages: []llm.Message{
					{Role: "user", Content: fmt.Sprintf("%s\n%s", s.prompt, transcripts[episodeID])},
				},
			},
		}

		line, err := json.Marshal(task)
		if err != nil {
			return WrapError(err, ErrParse, "failed to marshal batch task").WithContext("episode_id", episodeID)
		}
		if _, err := f.Write(append(line, '\n')); err != nil {
			return WrapError(err, ErrFileWrite, "failed to write batch task")
		}
	}

	log.Info("JSONL file created: %s", s.tasksPath)
	return nil
}
