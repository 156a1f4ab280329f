package llm

import (
	"github.com/alexschlessinger/pollytool/messages"

	"pkdindustries/drafter/internal/transcript"
)

const (
	roleSystem    = "system"
	roleAssistant = "assistant"
)

// toChatMessages renders the system instruction followed by the transcript
// in pollytool's message format.
func toChatMessages(system string, history []transcript.Message) []messages.ChatMessage {
	out := make([]messages.ChatMessage, 0, len(history)+1)
	out = append(out, messages.ChatMessage{Role: roleSystem, Content: system})

	for _, m := range history {
		switch m.Role {
		case transcript.RoleUser:
			out = append(out, messages.ChatMessage{
				Role:    messages.MessageRoleUser,
				Content: m.Content,
			})
		case transcript.RoleAssistant:
			msg := messages.ChatMessage{
				Role:    roleAssistant,
				Content: m.Content,
			}
			for _, tc := range m.ToolCalls {
				msg.ToolCalls = append(msg.ToolCalls, messages.ChatMessageToolCall{
					ID:        tc.ID,
					Name:      tc.Name,
					Arguments: tc.Arguments,
				})
			}
			out = append(out, msg)
		case transcript.RoleToolResult:
			out = append(out, messages.ChatMessage{
				Role:       messages.MessageRoleTool,
				Content:    m.Content,
				ToolCallID: m.ToolCallID,
			})
		}
	}
	return out
}

// fromChatMessage converts a completed model response into an assistant message.
func fromChatMessage(msg messages.ChatMessage) transcript.Message {
	var calls []transcript.ToolCall
	for _, tc := range msg.ToolCalls {
		calls = append(calls, transcript.ToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}
	return transcript.Assistant(msg.Content, calls...)
}
