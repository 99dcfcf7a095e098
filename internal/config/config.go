package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// LLM Configuration:
// - OPENAI_API_KEY: API key for the batch endpoint (required)
// - OPENAI_API_URL: API endpoint URL (default: https://api.openai.com/v1)
// - OPENAI_MODEL: Model name to use (default: gpt-4o-mini)
// - OPENAI_TIMEOUT: Request timeout in seconds (default: 60)
// - PROMPT: Summarization prompt prepended to each transcript (optional)
//
// Listening Sync Configuration:
// - API_BASE_URL: gpodder-compatible sync service base URL (optional)
// - USERNAME: sync service user (optional)
// - PASSWORD: sync service password (optional)
// - SYNC_ALL: ignore the saved watermark and fetch the full listening history (default: false)
//
// Pipeline Configuration:
// - DATA_DIR: base directory for results/, transcripts/ and episodes/ (default: .)
// - POLL_INTERVAL: batch status poll interval in seconds (default: 10)
// - CRON_EXPR: cron schedule; empty means run once and exit
// - LOG_FILE: write logs to this file instead of stdout (optional)
type Config struct {
	LLM      LLMConfig      `json:"llm"`
	Sync     SyncConfig     `json:"sync"`
	Data     DataConfig     `json:"data"`
	Pipeline PipelineConfig `json:"pipeline"`
}

// LLMConfig holds the configuration for the batch API client
type LLMConfig struct {
	APIKey  string `json:"api_key"`
	APIURL  string `json:"api_url"`
	Model   string `json:"model"`
	Timeout int    `json:"timeout"`
	Prompt  string `json:"prompt"`
}

// SyncConfig holds the configuration for the listening sync service
type SyncConfig struct {
	APIURL   string `json:"api_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	All      bool   `json:"all"`
}

// Enabled reports whether sync credentials are configured.
func (c SyncConfig) Enabled() bool {
	return c.APIURL != "" && c.Username != ""
}

// DataConfig holds the directory layout of the pipeline
type DataConfig struct {
	Dir string `json:"dir"`
}

func (c DataConfig) ResultsDir() string    { return filepath.Join(c.Dir, "results") }
func (c DataConfig) TranscriptDir() string { return filepath.Join(c.Dir, "transcripts") }
func (c DataConfig) EpisodeDir() string    { return filepath.Join(c.Dir, "episodes") }

func (c DataConfig) MetadataFile() string {
	return filepath.Join(c.ResultsDir(), "detailed_episodes.json")
}

func (c DataConfig) ResultsFile() string {
	return filepath.Join(c.ResultsDir(), "flashcard_results.json")
}

func (c DataConfig) TasksFile() string {
	return filepath.Join(c.ResultsDir(), "batch_tasks.jsonl")
}

func (c DataConfig) BatchOutputFile() string {
	return filepath.Join(c.ResultsDir(), "batch_output.jsonl")
}

func (c DataConfig) BatchIDFile() string {
	return filepath.Join(c.ResultsDir(), "last_batch_id")
}

func (c DataConfig) TimestampFile() string {
	return filepath.Join(c.ResultsDir(), "last_timestamp.txt")
}

func (c DataConfig) FlashcardsFile() string {
	return filepath.Join(c.ResultsDir(), "anki_flashcards.csv")
}

// PipelineConfig holds scheduling and polling behavior
type PipelineConfig struct {
	CronExpr     string        `json:"cron_expr"`
	PollInterval time.Duration `json:"poll_interval"`
	LogFile      string        `json:"log_file"`
}

// defaultPrompt mirrors the summarization instruction the batch tasks carry
// when no PROMPT override is set.
const defaultPrompt = "Summarize the transcript in up to 10 key points. For each point, provide up to 3 full multi-sentence quotes as supporting evidence:"

// Option is a function type for configuring Config
type Option func(*Config)

// New loads .env if present and builds the configuration from the environment.
func New(opts ...Option) (*Config, error) {
	_ = godotenv.Load()
	return NewFromEnv(opts...)
}

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		LLM: LLMConfig{
			APIKey:  getEnvString("OPENAI_API_KEY", ""),
			APIURL:  getEnvString("OPENAI_API_URL", "https://api.openai.com/v1"),
			Model:   getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvInt("OPENAI_TIMEOUT", 60),
			Prompt:  getEnvString("PROMPT", defaultPrompt),
		},
		Sync: SyncConfig{
			APIURL:   getEnvString("API_BASE_URL", ""),
			Username: getEnvString("USERNAME", ""),
			Password: getEnvString("PASSWORD", ""),
			All:      getEnvBool("SYNC_ALL", false),
		},
		Data: DataConfig{
			Dir: getEnvString("DATA_DIR", "."),
		},
		Pipeline: PipelineConfig{
			CronExpr:     getEnvString("CRON_EXPR", ""),
			PollInterval: time.Duration(getEnvInt("POLL_INTERVAL", 10)) * time.Second,
			LogFile:      getEnvString("LOG_FILE", ""),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.Pipeline.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be greater than 0")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
