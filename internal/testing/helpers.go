package testing

import (
	"time"

	"pkdindustries/drafter/internal/config"
)

// DefaultTestConfig returns a minimal configuration for testing
func DefaultTestConfig() *config.Configuration {
	return &config.Configuration{
		Server: &config.ServerConfig{
			Nick:    "drafter",
			Server:  "irc.test.local",
			Port:    6667,
			Channel: "#drafts",
			SSL:     false,
		},
		Bot: &config.BotConfig{
			Admins:    []string{},
			Verbose:   false,
			Addressed: true,
			Tools:     []string{},
		},
		Model: &config.ModelConfig{
			Model:       "test/model",
			MaxTokens:   100,
			Temperature: 0.7,
			Thinking:    false,
		},
		Session: &config.SessionConfig{
			Policy:   "savemarker",
			Greeting: config.DefaultGreeting,
			Prompt:   config.DefaultPrompt,
			ChunkMax: 350,
		},
		Document: &config.DocumentConfig{},
		Transcribe: &config.TranscribeConfig{
			Enabled: false,
			Model:   "whisper-1",
		},
		API: &config.APIConfig{
			Timeout: time.Second * 30,
		},
	}
}
