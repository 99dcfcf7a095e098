package service

import (
	"context"

	"github.com/zefanja/podcast2Anki/internal/llm"
)

// BatchAPI is the remote surface the pipeline needs from the batch
// endpoint. *llm.Client satisfies it.
type BatchAPI interface {
	UploadFile(ctx context.Context, name string, content []byte, purpose string) (string, error)
	CreateBatch(ctx context.Context, inputFileID string) (*llm.Batch, error)
	RetrieveBatch(ctx context.Context, batchID string) (*llm.Batch, error)
	FileContent(ctx context.Context, fileID string) ([]byte, error)
}
