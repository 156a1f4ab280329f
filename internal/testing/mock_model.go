package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"pkdindustries/drafter/internal/llm"
	"pkdindustries/drafter/internal/transcript"
)

var ErrNoScriptedResponse = errors.New("mock model: no scripted response left")

// MockModel implements llm.Model with scripted responses
type MockModel struct {
	mu        sync.Mutex
	Responses []transcript.Message // returned in order, one per Invoke
	Err       error                // returned instead of a response
	ErrAt     int                  // 1-based call that fails with Err; 0 means every call
	Requests  []llm.Request        // captured requests
	OnInvoke  func(req *llm.Request)
}

// NewMockModel creates a model that answers with responses in order
func NewMockModel(responses ...transcript.Message) *MockModel {
	return &MockModel{Responses: responses}
}

// Invoke implements llm.Model
func (m *MockModel) Invoke(ctx context.Context, req *llm.Request) (transcript.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	captured := *req
	captured.Messages = append([]transcript.Message(nil), req.Messages...)
	m.Requests = append(m.Requests, captured)
	call := len(m.Requests)

	if m.OnInvoke != nil {
		m.OnInvoke(req)
	}
	if err := ctx.Err(); err != nil {
		return transcript.Message{}, err
	}
	if m.Err != nil && (m.ErrAt == 0 || m.ErrAt == call) {
		return transcript.Message{}, m.Err
	}
	if len(m.Responses) == 0 {
		return transcript.Message{}, ErrNoScriptedResponse
	}

	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

// Calls returns the number of invocations so far
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// Verify MockModel implements llm.Model
var _ llm.Model = (*MockModel)(nil)

// Reply scripts a plain text answer
func Reply(text string) transcript.Message {
	return transcript.Assistant(text)
}

// ToolCall builds a tool call with JSON encoded arguments
func ToolCall(id, name string, args map[string]any) transcript.ToolCall {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("mock tool call %s: %v", name, err))
	}
	return transcript.ToolCall{ID: id, Name: name, Arguments: string(raw)}
}

// CallTools scripts an answer that requests the given tool calls
func CallTools(text string, calls ...transcript.ToolCall) transcript.Message {
	return transcript.Assistant(text, calls...)
}
