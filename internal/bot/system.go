package bot

import (
	"fmt"

	"go.uber.org/zap"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/llm"
	"pkdindustries/drafter/internal/toolbox"
	"pkdindustries/drafter/internal/transcribe"
)

// NewSystem wires one drafting session: an empty document, the tools bound
// to it, and an orchestrator driving model.
func NewSystem(c *config.Configuration, model llm.Model) (*core.SystemImpl, error) {
	logger := core.GetLogger()

	policy, err := agent.PolicyByName(c.Session.Policy)
	if err != nil {
		return nil, err
	}

	store := document.NewStore()
	registry := toolbox.NewRegistry(store, toolbox.Options{
		OutputDir:   c.Document.OutputDir,
		Transcriber: newTranscriber(c, logger),
		Extra:       c.Bot.Tools,
	}, logger)

	orchestrator, err := agent.New(model, store, toolbox.NewDispatcher(registry, logger, c.Bot.Verbose), agent.Options{
		Policy:   policy,
		Greeting: c.Session.Greeting,
		Prompt:   c.Session.Prompt,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	logger.Infow("Session ready",
		"policy", policy.Name(),
		"tools", len(registry.All()),
		"outdir", c.Document.OutputDir,
	)

	return &core.SystemImpl{
		Tools:    registry,
		Document: store,
		Agent:    orchestrator,
		Lock:     core.NewRequestLock(),
	}, nil
}

// newTranscriber returns the Whisper client, or nil when transcription is
// disabled or has no credentials.
func newTranscriber(c *config.Configuration, logger *zap.SugaredLogger) transcribe.Transcriber {
	if !c.Transcribe.Enabled {
		return nil
	}
	if c.API.OpenAIKey == "" {
		logger.Warn("Transcription disabled: no OpenAI key configured")
		return nil
	}
	return transcribe.NewWhisperTranscriber(transcribe.WhisperConfig{
		APIKey:   c.API.OpenAIKey,
		BaseURL:  c.API.OpenAIURL,
		Model:    c.Transcribe.Model,
		Language: c.Transcribe.Language,
	}, logger)
}
