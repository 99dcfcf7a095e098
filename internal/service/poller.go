package service

import (
	"context"
	"time"

	"github.com/zefanja/podcast2Anki/internal/llm"
	"github.com/zefanja/podcast2Anki/pkg/log"
)

// Poller waits for a batch job to reach a terminal state. The wait is
// unbounded: the remote service owns the deadline, locally the loop only
// sleeps a fixed interval between status queries.
type Poller struct {
	api      BatchAPI
	interval time.Duration
}

func NewPoller(api BatchAPI, interval time.Duration) *Poller {
	return &Poller{api: api, interval: interval}
}

// Wait polls the job status until it is terminal. On completion it
// returns the output file ID; a failed or cancelled job is fatal for
// the run. Safe to call repeatedly for the same job.
func (p *Poller) Wait(ctx context.Context, jobID string) (string, error) {
	for {
		batch, err := p.api.RetrieveBatch(ctx, jobID)
		if err != nil {
			return "", WrapError(err, ErrAPI, "failed to retrieve batch status").WithContext("job_id", jobID)
		}

		switch {
		case batch.Status == llm.BatchStatusCompleted:
			log.Info("Batch %s completed, output file: %s", jobID, batch.OutputFileID)
			return batch.OutputFileID, nil
		case batch.Status.Terminal():
			return "", NewError(ErrBatch, "batch job reached a terminal failure state").
				WithContext("job_id", jobID).
				WithContext("status", string(batch.Status))
		}

		log.Info("Batch %s status: %s... waiting...", jobID, batch.Status)
		select {
		case <-ctx.Done():
			return "", WrapError(ctx.Err(), ErrBatch, "polling interrupted").WithContext("job_id", jobID)
		case <-time.After(p.interval):
		}
	}
}
