package core

import (
	"github.com/alexschlessinger/pollytool/tools"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/document"
)

// System holds the collaborators of one drafting session
type System interface {
	GetToolRegistry() *tools.ToolRegistry
	GetDocument() *document.Store
	GetAgent() *agent.Orchestrator
	GetLock() *RequestLock
}

type SystemImpl struct {
	Tools    *tools.ToolRegistry
	Document *document.Store
	Agent    *agent.Orchestrator
	Lock     *RequestLock
}

func (s *SystemImpl) GetToolRegistry() *tools.ToolRegistry {
	return s.Tools
}

func (s *SystemImpl) GetDocument() *document.Store {
	return s.Document
}

func (s *SystemImpl) GetAgent() *agent.Orchestrator {
	return s.Agent
}

func (s *SystemImpl) GetLock() *RequestLock {
	if s.Lock == nil {
		s.Lock = NewRequestLock()
	}
	return s.Lock
}
