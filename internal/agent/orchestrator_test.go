package agent_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/llm"
	mocktest "pkdindustries/drafter/internal/testing"
	"pkdindustries/drafter/internal/toolbox"
	"pkdindustries/drafter/internal/transcript"
)

type session struct {
	orch  *agent.Orchestrator
	model *mocktest.MockModel
	store *document.Store
	dir   string
}

func newSession(t *testing.T, policy agent.Policy, responses ...transcript.Message) *session {
	t.Helper()
	logger := zap.NewNop().Sugar()
	dir := t.TempDir()
	store := document.NewStore()
	registry := toolbox.NewRegistry(store, toolbox.Options{OutputDir: dir}, logger)
	model := mocktest.NewMockModel(responses...)

	orch, err := agent.New(model, store, toolbox.NewDispatcher(registry, logger, false), agent.Options{
		Policy: policy,
		Prompt: "draft: {{.Document}}",
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &session{orch: orch, model: model, store: store, dir: dir}
}

// started returns a session that has already been greeted
func started(t *testing.T, policy agent.Policy, responses ...transcript.Message) *session {
	t.Helper()
	s := newSession(t, policy, responses...)
	if _, err := s.orch.Greet(); err != nil {
		t.Fatalf("Greet: %v", err)
	}
	return s
}

func roles(msgs []transcript.Message) []transcript.Role {
	out := make([]transcript.Role, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

func TestTurn_FirstTurnGreetsWithoutModel(t *testing.T) {
	s := newSession(t, nil)

	if s.orch.NeedsInput() {
		t.Fatal("fresh session should not be ready for input")
	}

	res, err := s.orch.Turn(context.Background(), "write a haiku")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !res.Greeting || res.StopReason != agent.StopGreeting {
		t.Errorf("expected greeting result, got %+v", res)
	}
	if s.model.Calls() != 0 {
		t.Errorf("greeting must not invoke the model, got %d calls", s.model.Calls())
	}
	if len(res.Appended) != 1 || res.Appended[0].Role != transcript.RoleAssistant {
		t.Fatalf("expected a single assistant greeting, got %+v", res.Appended)
	}
	if res.Appended[0].Content != "I'm ready to help you update a document. What would you like to create?" {
		t.Errorf("unexpected greeting %q", res.Appended[0].Content)
	}
	if !s.orch.NeedsInput() || s.orch.State() != agent.StateAwaitingInput {
		t.Errorf("expected awaiting input after greeting, state %s", s.orch.State())
	}
}

func TestGreet_OnlyOnce(t *testing.T) {
	s := started(t, nil)

	res, err := s.orch.Greet()
	if err != nil {
		t.Fatalf("Greet: %v", err)
	}
	if res.Greeting || len(res.Appended) != 0 {
		t.Errorf("second greet must be a no-op, got %+v", res)
	}
	if len(s.orch.Transcript()) != 1 {
		t.Errorf("expected one message, got %d", len(s.orch.Transcript()))
	}
}

func TestTurn_NoToolCalls(t *testing.T) {
	s := started(t, nil, mocktest.Reply("What should the document be about?"))

	res, err := s.orch.Turn(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}

	if s.model.Calls() != 1 || res.Rounds != 1 {
		t.Errorf("expected exactly one invocation, got calls=%d rounds=%d", s.model.Calls(), res.Rounds)
	}
	want := []transcript.Role{transcript.RoleUser, transcript.RoleAssistant}
	if diff := cmp.Diff(want, roles(res.Appended)); diff != "" {
		t.Errorf("appended roles (-want +got):\n%s", diff)
	}
	if res.StopReason != agent.StopAwaitingInput || res.Terminal {
		t.Errorf("expected to await input, got %+v", res)
	}
	if s.orch.State() != agent.StateAwaitingInput {
		t.Errorf("unexpected state %s", s.orch.State())
	}
}

func TestTurn_ToolResultsInRequestOrder(t *testing.T) {
	calls := []transcript.ToolCall{
		mocktest.ToolCall("c1", "update", map[string]any{"content": "one"}),
		mocktest.ToolCall("c2", "missing", map[string]any{}),
		mocktest.ToolCall("c3", "update", map[string]any{"content": "three"}),
	}
	s := started(t, nil,
		mocktest.CallTools("", calls...),
		mocktest.Reply("done"),
	)

	res, err := s.orch.Turn(context.Background(), "go")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}

	want := []transcript.Role{
		transcript.RoleUser,
		transcript.RoleAssistant,
		transcript.RoleToolResult, transcript.RoleToolResult, transcript.RoleToolResult,
		transcript.RoleAssistant,
	}
	if diff := cmp.Diff(want, roles(res.Appended)); diff != "" {
		t.Fatalf("appended roles (-want +got):\n%s", diff)
	}
	for i, call := range calls {
		if got := res.Appended[2+i].ToolCallID; got != call.ID {
			t.Errorf("result %d answers %q, want %q", i, got, call.ID)
		}
	}
	if !strings.HasPrefix(res.Appended[3].Content, "Tool not found: missing") {
		t.Errorf("unknown tool should yield a textual result, got %q", res.Appended[3].Content)
	}
	if s.store.Read() != "three" {
		t.Errorf("expected last update to win, got %q", s.store.Read())
	}

	// the second invocation sees every result before it runs
	second := s.model.Requests[1]
	if got := roles(second.Messages[len(second.Messages)-3:]); !cmp.Equal(got, want[2:5]) {
		t.Errorf("second request must end with the three results, got %v", got)
	}
	if res.Rounds != 2 {
		t.Errorf("expected 2 rounds, got %d", res.Rounds)
	}
}

func TestTurn_PromptRecomputedEachRound(t *testing.T) {
	s := started(t, nil,
		mocktest.CallTools("", mocktest.ToolCall("c1", "update", map[string]any{"content": "waves at dusk"})),
		mocktest.Reply("updated"),
	)

	if _, err := s.orch.Turn(context.Background(), "write it"); err != nil {
		t.Fatalf("Turn: %v", err)
	}

	systems := []string{s.model.Requests[0].System, s.model.Requests[1].System}
	want := []string{"draft: ", "draft: waves at dusk"}
	if diff := cmp.Diff(want, systems); diff != "" {
		t.Errorf("system prompts (-want +got):\n%s", diff)
	}
	for i, req := range s.model.Requests {
		if len(req.Tools) == 0 {
			t.Errorf("request %d carried no tool schemas", i)
		}
		for _, m := range req.Messages {
			if strings.HasPrefix(m.Content, "draft:") {
				t.Errorf("system instruction leaked into the transcript in request %d", i)
			}
		}
	}
}

func TestTurn_HaikuScenario(t *testing.T) {
	const haiku = "Waves fold into foam\nsalt wind carries gull voices\nthe tide keeps its time"
	s := started(t, agent.SaveMarkerPolicy{},
		mocktest.CallTools("", mocktest.ToolCall("c1", "update", map[string]any{"content": haiku})),
		mocktest.Reply("Here is your haiku:\n"+haiku),
		mocktest.CallTools("", mocktest.ToolCall("c2", "save", map[string]any{"filename": "sea"})),
		mocktest.Reply("should never be requested"),
	)

	res, err := s.orch.Turn(context.Background(), "Write a haiku about the sea")
	if err != nil {
		t.Fatalf("Turn 1: %v", err)
	}
	if res.StopReason != agent.StopAwaitingInput {
		t.Fatalf("expected to await input after drafting, got %s", res.StopReason)
	}
	if s.orch.Document() != haiku {
		t.Errorf("expected haiku in document, got %q", s.orch.Document())
	}

	res, err = s.orch.Turn(context.Background(), "save it as sea")
	if err != nil {
		t.Fatalf("Turn 2: %v", err)
	}
	if !res.Terminal || res.StopReason != agent.StopSaved || s.orch.State() != agent.StateTerminal {
		t.Errorf("expected terminal save, got %+v state %s", res, s.orch.State())
	}
	if s.model.Calls() != 3 {
		t.Errorf("no model call may follow the save, got %d calls", s.model.Calls())
	}

	data, err := os.ReadFile(filepath.Join(s.dir, "sea.txt"))
	if err != nil {
		t.Fatalf("expected sea.txt: %v", err)
	}
	if string(data) != haiku {
		t.Errorf("saved content mismatch: %q", string(data))
	}

	if _, err := s.orch.Turn(context.Background(), "more"); !errors.Is(err, agent.ErrSessionTerminated) {
		t.Errorf("expected ErrSessionTerminated, got %v", err)
	}
}

func TestTurn_UserControlPolicyContinuesAfterSave(t *testing.T) {
	s := started(t, agent.UserControlPolicy{},
		mocktest.CallTools("", mocktest.ToolCall("c1", "save", map[string]any{"filename": "notes"})),
		mocktest.Reply("Saved. Anything else?"),
	)

	res, err := s.orch.Turn(context.Background(), "save as notes")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if res.Terminal || res.StopReason != agent.StopAwaitingInput {
		t.Errorf("usercontrol must not end on save, got %+v", res)
	}
	if s.model.Calls() != 2 {
		t.Errorf("expected the model to be re-invoked after the save, got %d", s.model.Calls())
	}
	if _, err := os.Stat(filepath.Join(s.dir, "notes.txt")); err != nil {
		t.Errorf("expected notes.txt: %v", err)
	}

	res, err = s.orch.Turn(context.Background(), "quit")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !res.Terminal || res.StopReason != agent.StopExit {
		t.Errorf("expected exit, got %+v", res)
	}
}

func TestTurn_FailedSaveIsNotTerminal(t *testing.T) {
	s := started(t, agent.SaveMarkerPolicy{},
		mocktest.CallTools("", mocktest.ToolCall("c1", "save", map[string]any{"filename": "no/such/dir/draft"})),
		mocktest.Reply("I could not save the document."),
	)

	res, err := s.orch.Turn(context.Background(), "save it")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if res.Terminal {
		t.Fatal("a failed save must not end the session")
	}
	if !strings.HasPrefix(res.Appended[2].Content, "Error saving document:") {
		t.Errorf("expected save failure text, got %q", res.Appended[2].Content)
	}
}

func TestTurn_FailedSaveUnderSavedDirIsNotTerminal(t *testing.T) {
	s := started(t, agent.SaveMarkerPolicy{},
		mocktest.CallTools("", mocktest.ToolCall("c1", "save", map[string]any{"filename": "saved/draft"})),
		mocktest.Reply("The saved folder does not exist, pick another name."),
	)

	res, err := s.orch.Turn(context.Background(), "save it in saved/draft")
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if res.Terminal || res.StopReason == agent.StopSaved {
		t.Fatalf("a failed save must not end the session, got %+v", res)
	}
	if s.model.Calls() != 2 {
		t.Errorf("expected the model to see the failure, got %d calls", s.model.Calls())
	}
	if got := res.Appended[2].Content; strings.Contains(strings.ToLower(got), "saved") {
		t.Errorf("failure text must not carry the save markers: %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.dir, "saved", "draft.txt")); !os.IsNotExist(err) {
		t.Errorf("expected nothing written, stat err %v", err)
	}
}

func TestTurn_ExitTokens(t *testing.T) {
	for _, input := range []string{"quit", "EXIT", "  q  ", "Quit"} {
		t.Run(input, func(t *testing.T) {
			s := started(t, nil)

			res, err := s.orch.Turn(context.Background(), input)
			if err != nil {
				t.Fatalf("Turn: %v", err)
			}
			if !res.Terminal || res.StopReason != agent.StopExit {
				t.Errorf("expected exit, got %+v", res)
			}
			if s.model.Calls() != 0 {
				t.Errorf("exit must not invoke the model")
			}
			if len(res.Appended) != 1 || res.Appended[0].Content != agent.Farewell {
				t.Errorf("expected farewell, got %+v", res.Appended)
			}
		})
	}
}

func TestTurn_ModelErrorIsTerminal(t *testing.T) {
	cause := errors.New("upstream unavailable")
	s := started(t, nil, mocktest.CallTools("", mocktest.ToolCall("c1", "update", map[string]any{"content": "x"})))
	s.model.Err = cause
	s.model.ErrAt = 2

	res, err := s.orch.Turn(context.Background(), "write")
	var invErr *agent.ModelInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ModelInvocationError, got %v", err)
	}
	if invErr.Round != 2 || !errors.Is(err, cause) {
		t.Errorf("unexpected error %v (round %d)", err, invErr.Round)
	}
	if !res.Terminal || res.StopReason != agent.StopError || s.orch.State() != agent.StateTerminal {
		t.Errorf("expected terminal error result, got %+v", res)
	}
	// side effects of the completed round survive
	if s.store.Read() != "x" {
		t.Errorf("expected update to persist, got %q", s.store.Read())
	}

	if _, err := s.orch.Turn(context.Background(), "again"); !errors.Is(err, agent.ErrSessionTerminated) {
		t.Errorf("expected ErrSessionTerminated, got %v", err)
	}
}

func TestTurn_CancelledContext(t *testing.T) {
	s := started(t, nil, mocktest.Reply("never"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.orch.Turn(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.model.Calls() != 0 {
		t.Errorf("cancelled turn must not invoke the model")
	}
	if s.orch.State() == agent.StateTerminal {
		t.Error("an interrupt does not terminate the session by itself")
	}
}

func TestNew_BadPrompt(t *testing.T) {
	_, err := agent.New(mocktest.NewMockModel(), document.NewStore(), nil, agent.Options{Prompt: "{{.Document"})
	if err == nil {
		t.Fatal("expected template parse error")
	}
}

func TestTurn_RequestCarriesFullTranscript(t *testing.T) {
	s := started(t, nil, mocktest.Reply("one"), mocktest.Reply("two"))

	for _, input := range []string{"first", "second"} {
		if _, err := s.orch.Turn(context.Background(), input); err != nil {
			t.Fatalf("Turn(%q): %v", input, err)
		}
	}

	var last llm.Request = s.model.Requests[1]
	var contents []string
	for _, m := range last.Messages {
		contents = append(contents, m.Content)
	}
	want := []string{"I'm ready to help you update a document. What would you like to create?", "first", "one", "second"}
	if diff := cmp.Diff(want, contents); diff != "" {
		t.Errorf("request transcript (-want +got):\n%s", diff)
	}
}
