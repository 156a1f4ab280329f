package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// WhisperTranscriber calls the OpenAI audio transcription endpoint.
type WhisperTranscriber struct {
	client   *openai.Client
	model    string
	language string
	logger   *zap.SugaredLogger
}

type WhisperConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	Language string
}

func NewWhisperTranscriber(cfg WhisperConfig, logger *zap.SugaredLogger) *WhisperTranscriber {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	if logger == nil {
		logger = zap.S()
	}
	return &WhisperTranscriber{
		client:   openai.NewClientWithConfig(clientConfig),
		model:    model,
		language: cfg.Language,
		logger:   logger,
	}
}

func (w *WhisperTranscriber) Transcribe(ctx context.Context, audio Audio) (string, error) {
	if err := audio.Validate(); err != nil {
		return "", err
	}

	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: audio.Path,
		Language: w.language,
	}
	if len(audio.Data) > 0 {
		// FilePath only names the upload when a reader is supplied
		req.Reader = bytes.NewReader(audio.Data)
		req.FilePath = audio.Name()
	}

	start := time.Now()
	resp, err := w.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	w.logger.Infow("Transcription completed",
		"model", w.model,
		"audio", audio.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(resp.Text),
	)
	return strings.TrimSpace(resp.Text), nil
}
