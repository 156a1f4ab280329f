package testing

import (
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/toolbox"
)

// NewMockSystem wires a real document store, tool registry and orchestrator
// around a scripted model. Saved drafts go to outDir.
func NewMockSystem(cfg *config.Configuration, model *MockModel, outDir string) *core.SystemImpl {
	logger := zap.NewNop().Sugar()
	store := document.NewStore()

	registry := toolbox.NewRegistry(store, toolbox.Options{OutputDir: outDir}, logger)
	dispatcher := toolbox.NewDispatcher(registry, logger, false)

	policy, err := agent.PolicyByName(cfg.Session.Policy)
	if err != nil {
		panic(err)
	}

	orchestrator, err := agent.New(model, store, dispatcher, agent.Options{
		Policy:   policy,
		Greeting: cfg.Session.Greeting,
		Prompt:   cfg.Session.Prompt,
		Logger:   logger,
	})
	if err != nil {
		panic(err)
	}

	return &core.SystemImpl{
		Tools:    registry,
		Document: store,
		Agent:    orchestrator,
		Lock:     core.NewRequestLock(),
	}
}
