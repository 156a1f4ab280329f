package console

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"pkdindustries/drafter/internal/agent"
	mocktest "pkdindustries/drafter/internal/testing"
)

func runConsole(t *testing.T, input string, model *mocktest.MockModel) (out, dir string, err error) {
	t.Helper()
	dir = t.TempDir()
	sys := mocktest.NewMockSystem(mocktest.DefaultTestConfig(), model, dir)

	var buf bytes.Buffer
	c := New(sys.GetAgent(), strings.NewReader(input), &buf, zap.NewNop().Sugar())
	err = c.Run(context.Background())
	return buf.String(), dir, err
}

func TestConsole_GreetsAndExits(t *testing.T) {
	model := mocktest.NewMockModel()
	out, _, err := runConsole(t, "quit\n", model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.Contains(out, "What would you like to create?") {
		t.Errorf("expected greeting, got:\n%s", out)
	}
	if !strings.Contains(out, agent.Farewell) {
		t.Errorf("expected farewell, got:\n%s", out)
	}
	if model.Calls() != 0 {
		t.Errorf("exit must not reach the model, got %d calls", model.Calls())
	}
}

func TestConsole_DraftAndSave(t *testing.T) {
	model := mocktest.NewMockModel(
		mocktest.CallTools("", mocktest.ToolCall("c1", "update", map[string]any{"content": "hello"})),
		mocktest.Reply("Updated the draft."),
		mocktest.CallTools("", mocktest.ToolCall("c2", "save", map[string]any{"filename": "draft"})),
	)

	out, dir, err := runConsole(t, "write hello\n/document\nsave it as draft\nnever read\n", model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, want := range []string{
		"USING TOOLS: update",
		"TOOL RESULT (update): Document has been updated successfully!",
		"Updated the draft.",
		"Document has been saved to: " + filepath.Join(dir, "draft.txt"),
		"Session complete.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "draft.txt"))
	if err != nil || string(data) != "hello" {
		t.Errorf("expected draft.txt with hello, got %q (%v)", data, err)
	}
	if model.Calls() != 3 {
		t.Errorf("expected 3 model calls, got %d", model.Calls())
	}
}

func TestConsole_TranscribeCommand(t *testing.T) {
	model := mocktest.NewMockModel(mocktest.Reply("I don't have a transcriber configured."))

	_, _, err := runConsole(t, "/transcribe\n/transcribe /tmp/memo.mp3\nq\n", model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if model.Calls() != 1 {
		t.Fatalf("expected one model call, got %d", model.Calls())
	}
	msgs := model.Requests[0].Messages
	if got := msgs[len(msgs)-1].Content; got != "Please transcribe the audio located at this path: /tmp/memo.mp3" {
		t.Errorf("unexpected transcribe instruction %q", got)
	}
}

func TestConsole_ModelErrorEndsSession(t *testing.T) {
	model := mocktest.NewMockModel()
	model.Err = errors.New("rate limited")

	out, _, err := runConsole(t, "hello\nstill there?\n", model)

	var invErr *agent.ModelInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ModelInvocationError, got %v", err)
	}
	if !strings.Contains(out, "rate limited") {
		t.Errorf("error should be shown to the user:\n%s", out)
	}
	if model.Calls() != 1 {
		t.Errorf("expected no retry, got %d calls", model.Calls())
	}
	if i, j := strings.Index(out, "rate limited"), strings.LastIndex(out, agent.Farewell); j < i {
		t.Errorf("expected farewell after the error:\n%s", out)
	}
}

func TestConsole_ToolResultPreviewIsValidUTF8(t *testing.T) {
	long := strings.Repeat("é", previewLen)
	model := mocktest.NewMockModel(
		mocktest.CallTools("", mocktest.ToolCall("c1", "update", map[string]any{"content": long})),
		mocktest.Reply("Updated."),
	)

	out, _, err := runConsole(t, "fill it\nq\n", model)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !utf8.ValidString(out) {
		t.Error("tool result preview split a rune")
	}
	if !strings.Contains(out, "...") {
		t.Errorf("expected a truncated preview:\n%s", out)
	}
}

func TestConsole_EndOfInput(t *testing.T) {
	out, _, err := runConsole(t, "", mocktest.NewMockModel())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out, agent.Farewell) {
		t.Errorf("expected farewell at end of input:\n%s", out)
	}
}

func TestConsole_Command(t *testing.T) {
	c := New(nil, strings.NewReader(""), &bytes.Buffer{}, nil)

	tests := []struct {
		line    string
		input   string
		handled bool
	}{
		{"", "", true},
		{"/help", "", true},
		{"/transcribe", "", true},
		{"/transcribe  a.wav ", TranscribeInstruction("a.wav"), false},
		{"/transcribed notes", "/transcribed notes", false},
		{"make it shorter", "make it shorter", false},
	}
	for _, tt := range tests {
		input, handled := c.command(tt.line)
		if input != tt.input || handled != tt.handled {
			t.Errorf("command(%q) = %q, %t; want %q, %t", tt.line, input, handled, tt.input, tt.handled)
		}
	}
}
