package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexschlessinger/pollytool/llm"
	"github.com/alexschlessinger/pollytool/messages"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/transcript"
)

var ErrNoResponse = errors.New("model returned no response")

// PollyModel wraps pollytool's MultiPass to implement the Model capability
type PollyModel struct {
	client          *llm.MultiPass
	streamProcessor *messages.StreamProcessor
	cfg             *config.Configuration
	logger          *zap.SugaredLogger
}

// NewPollyModel creates a new pollytool-based model client
func NewPollyModel(cfg *config.Configuration, logger *zap.SugaredLogger) *PollyModel {
	apiKeys := map[string]string{
		"openai":    cfg.API.OpenAIKey,
		"anthropic": cfg.API.AnthropicKey,
		"gemini":    cfg.API.GeminiKey,
		"ollama":    cfg.API.OllamaKey,
	}
	if logger == nil {
		logger = zap.S()
	}

	return &PollyModel{
		client:          llm.NewMultiPass(apiKeys),
		streamProcessor: messages.NewStreamProcessor(),
		cfg:             cfg,
		logger:          logger,
	}
}

// NewCompletionRequest builds the pollytool request for one invocation
func NewCompletionRequest(cfg *config.Configuration, req *Request) *llm.CompletionRequest {
	creq := &llm.CompletionRequest{
		BaseURL:     baseURL(cfg),
		Timeout:     cfg.API.Timeout,
		Model:       cfg.Model.Model,
		MaxTokens:   cfg.Model.MaxTokens,
		Messages:    toChatMessages(req.System, req.Messages),
		Temperature: cfg.Model.Temperature,
		Tools:       req.Tools,
	}

	if cfg.Model.Thinking {
		creq.ThinkingEffort = "medium"
	}

	return creq
}

// baseURL selects the endpoint override for the configured provider
func baseURL(cfg *config.Configuration) string {
	provider, _, _ := strings.Cut(cfg.Model.Model, "/")
	switch provider {
	case "ollama":
		return cfg.API.OllamaURL
	case "openai":
		return cfg.API.OpenAIURL
	default:
		return ""
	}
}

// Invoke streams one completion and returns the assembled assistant message.
// Stream errors are returned as errors; they are never turned into content.
func (p *PollyModel) Invoke(ctx context.Context, req *Request) (transcript.Message, error) {
	creq := NewCompletionRequest(p.cfg, req)
	startTime := time.Now()

	msg, err := p.collect(ctx, p.client.ChatCompletionStream(ctx, creq, p.streamProcessor))

	p.logger.Infow("Request completed",
		"model", p.cfg.Model.Model,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	if err != nil {
		return transcript.Message{}, err
	}
	p.logger.Debugf("Message complete (ContentLen: %d, ToolCalls: %d)", len(msg.Content), len(msg.ToolCalls))
	return msg, nil
}

// collect drains events into the completed assistant message. Provider
// errors are wrapped so callers can match them with errors.Is and errors.As.
func (p *PollyModel) collect(ctx context.Context, events <-chan *messages.StreamEvent) (transcript.Message, error) {
	var (
		response  messages.ChatMessage
		completed bool
		streamErr error
	)
	// drain the stream fully so the producer can exit
	for event := range events {
		switch event.Type {
		case messages.EventTypeContent:
			p.logger.Debugf("Received content chunk: %q", event.Content)
		case messages.EventTypeComplete:
			if event.Message != nil {
				response = *event.Message
				completed = true
			}
		case messages.EventTypeError:
			if event.Error != nil && streamErr == nil {
				streamErr = fmt.Errorf("model stream: %w", event.Error)
			}
		}
	}

	if streamErr != nil {
		return transcript.Message{}, streamErr
	}
	if err := ctx.Err(); err != nil {
		return transcript.Message{}, err
	}
	if !completed {
		return transcript.Message{}, ErrNoResponse
	}
	return fromChatMessage(response), nil
}
