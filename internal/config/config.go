// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTriggerPhrase is the literal answer that force-terminates an
// interview. The phrase and the reply are preserved verbatim from the
// product's original behavior and are not translated.
const DefaultTriggerPhrase = "차라리 날 죽여라!"

// DefaultTriggerReply is the fixed response returned on a forced termination.
const DefaultTriggerReply = "죽어라!!"

// Config represents the service configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must
// be provided via CLI flags or environment variables.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Backends
	DatabaseURL        string `json:"database_url,omitempty"`         // PostgreSQL connection URL
	APIKey             string `json:"api_key,omitempty"`              // Gemini API key
	TranscriberBaseURL string `json:"transcriber_base_url,omitempty"` // OpenAI-compatible Whisper endpoint
	TranscriberAPIKey  string `json:"transcriber_api_key,omitempty"`  // API key for the transcriber
	TranscriberModel   string `json:"transcriber_model,omitempty"`    // Transcription model name

	// Interview behavior
	TriggerPhrase string `json:"trigger_phrase,omitempty"` // Answer that force-ends an interview
	TriggerReply  string `json:"trigger_reply,omitempty"`  // Fixed reply on forced termination
	MaxQuestions  int    `json:"max_questions,omitempty"`  // Questions generated per interview

	// Behavior
	Verbose bool `json:"verbose,omitempty"`  // Print detailed debug information
	LogJSON bool `json:"log_json,omitempty"` // JSON log encoding
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked after merging, not here.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.MaxQuestions < 0 {
		return fmt.Errorf("config error: 'max_questions' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags and environment variables.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.TranscriberBaseURL == "" {
		result.TranscriberBaseURL = defaults.TranscriberBaseURL
	}
	if result.TranscriberAPIKey == "" {
		result.TranscriberAPIKey = defaults.TranscriberAPIKey
	}
	if result.TranscriberModel == "" {
		result.TranscriberModel = defaults.TranscriberModel
	}
	if result.TriggerPhrase == "" {
		if defaults.TriggerPhrase != "" {
			result.TriggerPhrase = defaults.TriggerPhrase
		} else {
			result.TriggerPhrase = DefaultTriggerPhrase
		}
	}
	if result.TriggerReply == "" {
		if defaults.TriggerReply != "" {
			result.TriggerReply = defaults.TriggerReply
		} else {
			result.TriggerReply = DefaultTriggerReply
		}
	}
	if result.MaxQuestions == 0 {
		if defaults.MaxQuestions > 0 {
			result.MaxQuestions = defaults.MaxQuestions
		} else {
			result.MaxQuestions = 10
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
