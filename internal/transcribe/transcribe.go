// Package transcribe converts candidate voice answers to text through an
// OpenAI-compatible transcription endpoint (Whisper or a drop-in server).
package transcribe

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/jonathan/interview-simulator/internal/logging"
)

// DefaultModel is used when no transcription model is configured
const DefaultModel = "whisper-1"

// Client wraps the transcription API
type Client struct {
	api    openai.Client
	model  string
	logger *zap.Logger
}

// New creates a transcription client. baseURL may be empty to use the
// default OpenAI endpoint; set it to point at a self-hosted Whisper server.
func New(baseURL, apiKey, model string, logger *zap.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// Transcribe converts an audio recording to text. The filename hints the
// container format to the server (e.g. "answer.wav").
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if filename == "" {
		filename = "answer.wav"
	}

	transcription, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.model),
		File:  openai.File(audio, filename, "audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	c.logger.Debug("transcribed audio answer",
		zap.String("file", filename),
		zap.String("text", logging.Truncate(transcription.Text, 120)))

	return transcription.Text, nil
}
