package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role identifies the author of a message in the conversation transcript.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleToolResult
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleToolResult:
		return "tool"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON object as produced by the model
}

// Args decodes the call arguments. An empty argument string decodes to an empty map.
func (c ToolCall) Args() (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(c.Arguments) == "" {
		return args, nil
	}
	if err := json.Unmarshal([]byte(c.Arguments), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Message is one entry of the transcript. Content may be empty for an
// assistant message that only carries tool calls. ToolName and ToolCallID
// are set on tool results only.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolName   string
	ToolCallID string
}

func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func Assistant(content string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// ToolResult builds the result message answering call.
func ToolResult(call ToolCall, content string) Message {
	return Message{
		Role:       RoleToolResult,
		Content:    content,
		ToolName:   call.Name,
		ToolCallID: call.ID,
	}
}

// HasToolCalls reports whether an assistant message requests tool invocations.
func (m Message) HasToolCalls() bool {
	return m.Role == RoleAssistant && len(m.ToolCalls) > 0
}

func (m Message) clone() Message {
	if len(m.ToolCalls) > 0 {
		m.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
	}
	return m
}
