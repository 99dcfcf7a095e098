package llm

import (
	"fmt"
)

// Message represents a chat message
//
// Role: "system", "user", or "assistant"
// Content: Text content of the message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatBody represents the chat completion body of a batch task
// Compatible with OpenAI API format
type ChatBody struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// BatchTask is one line of the batch request file. CustomID carries the
// episode ID so results can be correlated back.
type BatchTask struct {
	CustomID string   `json:"custom_id"`
	Method   string   `json:"method"`
	URL      string   `json:"url"`
	Body     ChatBody `json:"body"`
}

// BatchStatus is the remote lifecycle state of a batch job.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
	BatchStatusCancelled BatchStatus = "cancelled"
)

// Terminal reports whether the status is final. Anything the provider
// reports besides the terminal states counts as still in flight.
func (s BatchStatus) Terminal() bool {
	return s == BatchStatusCompleted || s == BatchStatusFailed || s == BatchStatusCancelled
}

// Batch represents a remote batch job
type Batch struct {
	ID           string      `json:"id"`
	Status       BatchStatus `json:"status"`
	InputFileID  string      `json:"input_file_id,omitempty"`
	OutputFileID string      `json:"output_file_id,omitempty"`
}

// BatchRequest is the payload for creating a batch job
type BatchRequest struct {
	InputFileID      string            `json:"input_file_id"`
	Endpoint         string            `json:"endpoint"`
	CompletionWindow string            `json:"completion_window"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// FileObject is the response of a file upload
type FileObject struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Purpose  string `json:"purpose"`
}

// Choice represents a completion choice inside a batch output record
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// OutputRecord is one line of the batch output file
type OutputRecord struct {
	CustomID string         `json:"custom_id"`
	Response OutputResponse `json:"response"`
}

// OutputResponse is the per-task remote response wrapper
type OutputResponse struct {
	StatusCode int        `json:"status_code"`
	Body       OutputBody `json:"body"`
}

// OutputBody carries the chat completion of one task
type OutputBody struct {
	Choices []Choice `json:"choices"`
}

// Content extracts the model text of the record. Mirrors the upstream
// convention of reading the last choice when several are present.
func (r OutputRecord) Content() string {
	content := ""
	for _, choice := range r.Response.Body.Choices {
		content = choice.Message.Content
	}
	return content
}

// Error represents an API error
type Error struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("LLM API Error: %s (type: %s, code: %s)", e.Message, e.Type, e.Code)
}

// errorEnvelope is how the API wraps errors in response bodies
type errorEnvelope struct {
	Error *Error `json:"error,omitempty"`
}
