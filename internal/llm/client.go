package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client is a client for an OpenAI-compatible batch API
// Provides file upload, batch creation, status retrieval and file download
//
// config: Configuration for the API
// httpClient: HTTP client for API requests
// baseURL: Base URL for the API
type Client struct {
	config     *Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new batch API client with the given configuration
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	client := &Client{
		config:  config,
		baseURL: config.APIURL,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}

	return client, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.config.Model
}

// UploadFile uploads a file for batch processing and returns the file ID
func (c *Client) UploadFile(ctx context.Context, name string, content []byte, purpose string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", purpose); err != nil {
		return "", fmt.Errorf("failed to write purpose field: %w", err)
	}
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var file FileObject
	if err := c.makeRequest(ctx, http.MethodPost, "/files", writer.FormDataContentType(), &body, &file); err != nil {
		return "", fmt.Errorf("file upload failed: %w", err)
	}

	return file.ID, nil
}

// CreateBatch creates a batch job referencing an uploaded task file
func (c *Client) CreateBatch(ctx context.Context, inputFileID string) (*Batch, error) {
	request := BatchRequest{
		InputFileID:      inputFileID,
		Endpoint:         "/v1/chat/completions",
		CompletionWindow: "24h",
		Metadata: map[string]string{
			"description": "podcast2anki job",
		},
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch request: %w", err)
	}

	var batch Batch
	if err := c.makeRequest(ctx, http.MethodPost, "/batches", "application/json", bytes.NewReader(payload), &batch); err != nil {
		return nil, fmt.Errorf("batch creation failed: %w", err)
	}

	return &batch, nil
}

// RetrieveBatch fetches the current state of a batch job
func (c *Client) RetrieveBatch(ctx context.Context, batchID string) (*Batch, error) {
	var batch Batch
	if err := c.makeRequest(ctx, http.MethodGet, "/batches/"+batchID, "", nil, &batch); err != nil {
		return nil, fmt.Errorf("batch retrieval failed: %w", err)
	}
	return &batch, nil
}

// FileContent downloads the raw content of a stored file
func (c *Client) FileContent(ctx context.Context, fileID string) ([]byte, error) {
	body, err := c.rawRequest(ctx, http.MethodGet, "/files/"+fileID+"/content", "", nil)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	return body, nil
}

// makeRequest performs a request and decodes the JSON response into out
func (c *Client) makeRequest(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	responseBody, err := c.rawRequest(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// rawRequest performs a raw HTTP request against the configured API
func (c *Client) rawRequest(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.config.GetHeaders() {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for API errors
	var envelope errorEnvelope
	if err := json.Unmarshal(responseBody, &envelope); err == nil &&
		envelope.Error != nil && envelope.Error.Message != "" {
		return responseBody, envelope.Error
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseBody, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	return responseBody, nil
}
