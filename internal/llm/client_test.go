package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *Config {
	return &Config{
		APIKey:  "test-key",
		APIURL:  url,
		Model:   "test-model",
		Timeout: 30,
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(testConfig("https://api.example.com"))
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, "test-model", client.Model())

	// Test with invalid config
	_, err = NewClient(&Config{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestUploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "batch", r.FormValue("purpose"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "batch_tasks.jsonl", header.Filename)
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, `{"custom_id":"ep-1"}`, string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "file-123", "filename": "batch_tasks.jsonl", "purpose": "batch"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	fileID, err := client.UploadFile(context.Background(), "batch_tasks.jsonl", []byte(`{"custom_id":"ep-1"}`), "batch")
	require.NoError(t, err)
	assert.Equal(t, "file-123", fileID)
}

func TestCreateBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"input_file_id":"file-123"`)
		assert.Contains(t, string(body), `"completion_window":"24h"`)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "batch-1", "status": "pending", "input_file_id": "file-123"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	batch, err := client.CreateBatch(context.Background(), "file-123")
	require.NoError(t, err)
	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, BatchStatusPending, batch.Status)
	assert.False(t, batch.Status.Terminal())
}

func TestRetrieveBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/batches/batch-1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "batch-1", "status": "completed", "output_file_id": "file-out"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	batch, err := client.RetrieveBatch(context.Background(), "batch-1")
	require.NoError(t, err)
	assert.Equal(t, BatchStatusCompleted, batch.Status)
	assert.True(t, batch.Status.Terminal())
	assert.Equal(t, "file-out", batch.OutputFileID)
}

func TestFileContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/file-out/content", r.URL.Path)
		_, _ = w.Write([]byte("line one\nline two\n"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	content, err := client.FileContent(context.Background(), "file-out")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(content))
}

func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid file", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.CreateBatch(context.Background(), "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file")
}

func TestBatchStatusTerminal(t *testing.T) {
	assert.False(t, BatchStatusPending.Terminal())
	assert.False(t, BatchStatusRunning.Terminal())
	assert.True(t, BatchStatusCompleted.Terminal())
	assert.True(t, BatchStatusFailed.Terminal())
	assert.True(t, BatchStatusCancelled.Terminal())
	assert.False(t, BatchStatus("validating").Terminal())
}

func TestOutputRecordContent(t *testing.T) {
	record := OutputRecord{
		Response: OutputResponse{
			StatusCode: 200,
			Body: OutputBody{
				Choices: []Choice{
					{Message: Message{Role: "assistant", Content: "first"}},
					{Message: Message{Role: "assistant", Content: "last"}},
				},
			},
		},
	}
	assert.Equal(t, "last", record.Content())
	assert.Empty(t, OutputRecord{}.Content())
}
