package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/zefanja/podcast2Anki/internal/llm"
)

// fakeBatchAPI is a scriptable in-memory BatchAPI for tests.
type fakeBatchAPI struct {
	mu sync.Mutex

	uploads map[string][]byte

	// statuses are consumed one per RetrieveBatch call, the last one
	// repeats once the script runs out
	statuses     []llm.BatchStatus
	outputFileID string
	output       []byte

	uploadErr   error
	createErr   error
	retrieveErr error
	contentErr  error

	uploadCalls   int
	createCalls   int
	retrieveCalls int
	contentCalls  int
}

func newFakeBatchAPI() *fakeBatchAPI {
	return &fakeBatchAPI{
		uploads:      make(map[string][]byte),
		statuses:     []llm.BatchStatus{llm.BatchStatusCompleted},
		outputFileID: "file-out",
	}
}

func (f *fakeBatchAPI) UploadFile(_ context.Context, name string, content []byte, purpose string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if purpose != "batch" {
		return "", fmt.Errorf("unexpected purpose %q", purpose)
	}
	f.uploads[name] = content
	return fmt.Sprintf("file-%d", f.uploadCalls), nil
}

func (f *fakeBatchAPI) CreateBatch(_ context.Context, inputFileID string) (*llm.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &llm.Batch{
		ID:          fmt.Sprintf("batch-%d", f.createCalls),
		Status:      llm.BatchStatusPending,
		InputFileID: inputFileID,
	}, nil
}

func (f *fakeBatchAPI) RetrieveBatch(_ context.Context, batchID string) (*llm.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieveCalls++
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}

	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}

	batch := &llm.Batch{ID: batchID, Status: status}
	if status == llm.BatchStatusCompleted {
		batch.OutputFileID = f.outputFileID
	}
	return batch, nil
}

func (f *fakeBatchAPI) FileContent(_ context.Context, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contentCalls++
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	if fileID != f.outputFileID {
		return nil, fmt.Errorf("unknown file %q", fileID)
	}
	return f.output, nil
}
