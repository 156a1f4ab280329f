package commands

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alexschlessinger/pollytool/tools"
	"github.com/google/jsonschema-go/jsonschema"

	mocktest "pkdindustries/drafter/internal/testing"
)

func newToolsContext(t *testing.T) (*mocktest.MockChatContext, *mocktest.MockModel) {
	t.Helper()
	cfg := mocktest.DefaultTestConfig()
	model := mocktest.NewMockModel()
	sys := mocktest.NewMockSystem(cfg, model, t.TempDir())
	return mocktest.NewMockContext().WithConfig(cfg).WithSystem(sys), model
}

func TestToolsCommand_ListsDraftingTools(t *testing.T) {
	ctx, _ := newToolsContext(t)
	ctx.WithText("/tools")

	(&ToolsCommand{}).Execute(ctx)

	if ctx.LastReply() != "Tools: save, update" {
		t.Errorf("unexpected tool list %q", ctx.LastReply())
	}
}

func TestToolsCommand_ListTruncatesOnRuneBoundary(t *testing.T) {
	ctx, _ := newToolsContext(t)
	// "Tools: save, update, " is 21 bytes, so the cut lands inside the é
	ctx.GetConfig().Session.ChunkMax = 25
	ctx.GetSystem().GetToolRegistry().Register(&mockTool{name: "ébauche"})
	ctx.WithText("/tools")

	(&ToolsCommand{}).Execute(ctx)

	reply := ctx.LastReply()
	if reply != "Tools: save, update, ..." {
		t.Errorf("expected a truncated list, got %q", reply)
	}
	if !utf8.ValidString(reply) {
		t.Errorf("truncation split a rune: %q", reply)
	}
}

func TestToolsCommand_SubcommandsRequireAdmin(t *testing.T) {
	for _, text := range []string{"/tools add /some/path", "/tools remove extra"} {
		ctx, _ := newToolsContext(t)
		ctx.WithAdmin(false).WithText(text)

		(&ToolsCommand{}).Execute(ctx)

		if !strings.Contains(ctx.LastReply(), "permission") {
			t.Errorf("%s: expected permission error, got %q", text, ctx.LastReply())
		}
	}
}

func TestToolsCommand_RemoveKeepsDraftingTools(t *testing.T) {
	ctx, _ := newToolsContext(t)
	registry := ctx.GetSystem().GetToolRegistry()
	registry.RegisterNative("native__weather", func() tools.Tool {
		return &mockTool{name: "native__weather"}
	})
	if _, err := registry.LoadToolAuto("native__weather"); err != nil {
		t.Fatalf("LoadToolAuto: %v", err)
	}

	ctx.WithAdmin(true).WithText("/tools remove *")
	(&ToolsCommand{}).Execute(ctx)

	if !strings.Contains(ctx.LastReply(), "Removed") || !strings.Contains(ctx.LastReply(), "weather") {
		t.Errorf("unexpected reply %q", ctx.LastReply())
	}
	for _, name := range []string{"update", "save"} {
		if _, ok := registry.Get(name); !ok {
			t.Errorf("%s must survive /tools remove", name)
		}
	}
}

func TestToolsCommand_Usage(t *testing.T) {
	ctx, _ := newToolsContext(t)
	ctx.WithAdmin(true).WithText("/tools frobnicate")

	(&ToolsCommand{}).Execute(ctx)

	if !strings.HasPrefix(ctx.LastReply(), "Usage:") {
		t.Errorf("expected usage, got %q", ctx.LastReply())
	}
}

// mockTool implements tools.Tool for testing
type mockTool struct {
	name string
}

func (t *mockTool) GetName() string                                             { return t.name }
func (t *mockTool) GetSchema() *jsonschema.Schema                               { return nil }
func (t *mockTool) GetType() string                                             { return "native" }
func (t *mockTool) GetSource() string                                           { return "test" }
func (t *mockTool) Execute(_ context.Context, _ map[string]any) (string, error) { return "", nil }

var _ tools.Tool = (*mockTool)(nil)
