// Package agent runs the drafting conversation: it alternates between the
// language model and the document tools until the user or a termination
// policy ends the session.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/alexschlessinger/pollytool/tools"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/llm"
	"pkdindustries/drafter/internal/transcript"
)

// Dispatcher executes tool calls. Dispatch must always produce exactly one
// tool result message for the call.
type Dispatcher interface {
	Tools() []tools.Tool
	Dispatch(ctx context.Context, call transcript.ToolCall) transcript.Message
}

// Options configures an Orchestrator. Zero values select the defaults.
type Options struct {
	Policy   Policy
	Greeting string
	Prompt   string
	Logger   *zap.SugaredLogger
}

// TurnResult describes what a single call to Turn did.
type TurnResult struct {
	Appended   []transcript.Message
	StopReason StopReason
	Rounds     int
	Greeting   bool
	Terminal   bool
}

// Orchestrator owns one drafting session. It is not safe for concurrent use;
// surfaces serialize turns.
type Orchestrator struct {
	model      llm.Model
	store      *document.Store
	dispatcher Dispatcher
	policy     Policy
	greeting   string
	prompt     *template.Template
	logger     *zap.SugaredLogger

	transcript *transcript.Transcript
	state      State
}

// New creates an orchestrator for a fresh session
func New(model llm.Model, store *document.Store, dispatcher Dispatcher, opts Options) (*Orchestrator, error) {
	if opts.Policy == nil {
		opts.Policy = SaveMarkerPolicy{}
	}
	if opts.Greeting == "" {
		opts.Greeting = config.DefaultGreeting
	}
	if opts.Prompt == "" {
		opts.Prompt = config.DefaultPrompt
	}
	if opts.Logger == nil {
		opts.Logger = zap.S()
	}

	prompt, err := template.New("system").Parse(opts.Prompt)
	if err != nil {
		return nil, fmt.Errorf("parsing system prompt: %w", err)
	}

	return &Orchestrator{
		model:      model,
		store:      store,
		dispatcher: dispatcher,
		policy:     opts.Policy,
		greeting:   opts.Greeting,
		prompt:     prompt,
		logger:     opts.Logger,
		transcript: transcript.New(),
		state:      StateAwaitingInput,
	}, nil
}

func (o *Orchestrator) State() State { return o.state }

func (o *Orchestrator) Policy() Policy { return o.policy }

// Document returns the current draft
func (o *Orchestrator) Document() string { return o.store.Read() }

// Transcript returns a copy of the conversation so far
func (o *Orchestrator) Transcript() []transcript.Message { return o.transcript.Messages() }

// NeedsInput reports whether the session has been opened with a greeting and
// is ready to take user input.
func (o *Orchestrator) NeedsInput() bool {
	return o.transcript.Len() > 0
}

// Greet opens the session. It is a no-op once the transcript is non-empty.
func (o *Orchestrator) Greet() (*TurnResult, error) {
	if o.state == StateTerminal {
		return nil, ErrSessionTerminated
	}
	res := &TurnResult{StopReason: StopAwaitingInput}
	if o.transcript.Len() == 0 {
		msg := transcript.Assistant(o.greeting)
		o.transcript.Append(msg)
		res.Appended = []transcript.Message{msg}
		res.Greeting = true
		res.StopReason = StopGreeting
	}
	return res, nil
}

// Turn processes one unit of user input and runs the model and tools until
// control returns to the user or the session ends.
func (o *Orchestrator) Turn(ctx context.Context, input string) (*TurnResult, error) {
	if o.state == StateTerminal {
		return nil, ErrSessionTerminated
	}

	// the first turn only greets; the input is left for the next one
	if o.transcript.Len() == 0 {
		return o.Greet()
	}

	start := o.transcript.Len()
	res := &TurnResult{}

	if IsExitCommand(input) {
		o.transcript.Append(transcript.Assistant(Farewell))
		o.state = StateTerminal
		res.StopReason = StopExit
		res.Terminal = true
		res.Appended = o.transcript.Since(start)
		o.logger.Infow("session ended by user", "stop_reason", res.StopReason)
		return res, nil
	}

	o.transcript.Append(transcript.User(input))

	for {
		if err := ctx.Err(); err != nil {
			o.state = StateAwaitingInput
			res.Appended = o.transcript.Since(start)
			return res, err
		}

		res.Rounds++
		reply, err := o.invoke(ctx, res.Rounds)
		if err != nil {
			o.state = StateTerminal
			res.StopReason = StopError
			res.Terminal = true
			res.Appended = o.transcript.Since(start)
			return res, &ModelInvocationError{Round: res.Rounds, Err: err}
		}
		o.transcript.Append(reply)

		if !reply.HasToolCalls() {
			o.state = StateAwaitingInput
			res.StopReason = StopAwaitingInput
			break
		}

		o.state = StateToolDispatch
		results := make([]transcript.Message, 0, len(reply.ToolCalls))
		for _, call := range reply.ToolCalls {
			result := o.dispatcher.Dispatch(ctx, call)
			o.transcript.Append(result)
			results = append(results, result)
		}

		if o.policy.Terminal(results) {
			o.state = StateTerminal
			res.StopReason = StopSaved
			res.Terminal = true
			break
		}
	}

	res.Appended = o.transcript.Since(start)
	o.logger.Debugw("turn complete",
		"rounds", res.Rounds,
		"stop_reason", res.StopReason,
		"appended", len(res.Appended),
	)
	return res, nil
}

// invoke renders the system prompt from the current draft and calls the model
func (o *Orchestrator) invoke(ctx context.Context, round int) (transcript.Message, error) {
	o.state = StateModelInvoked

	system, err := o.renderPrompt()
	if err != nil {
		return transcript.Message{}, err
	}

	req := &llm.Request{
		System:   system,
		Messages: o.transcript.Messages(),
		Tools:    o.dispatcher.Tools(),
	}

	reply, err := o.model.Invoke(ctx, req)
	if err != nil {
		o.logger.Errorw("model invocation failed", "round", round, "error", err)
		return transcript.Message{}, err
	}
	o.logger.Debugw("model invoked",
		"round", round,
		"tool_calls", len(reply.ToolCalls),
	)
	return reply, nil
}

func (o *Orchestrator) renderPrompt() (string, error) {
	var buf bytes.Buffer
	data := struct{ Document string }{Document: o.store.Read()}
	if err := o.prompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering system prompt: %w", err)
	}
	return buf.String(), nil
}
