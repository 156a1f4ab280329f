// Package llm adapts the hosted language model to the drafting loop.
package llm

import (
	"context"

	"github.com/alexschlessinger/pollytool/tools"

	"pkdindustries/drafter/internal/transcript"
)

// Request is one model invocation: the system instruction rendered for this
// round, the full transcript, and the tools the model may call.
type Request struct {
	System   string
	Messages []transcript.Message
	Tools    []tools.Tool
}

// Model is the language model capability. Invoke blocks until the model has
// produced a complete assistant message.
type Model interface {
	Invoke(ctx context.Context, req *Request) (transcript.Message, error)
}
