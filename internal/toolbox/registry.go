package toolbox

import (
	"github.com/alexschlessinger/pollytool/tools"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/document"
	"pkdindustries/drafter/internal/transcribe"
)

// Options configures the tools registered for a session
type Options struct {
	// OutputDir is where relative save paths are resolved; empty means the working directory.
	OutputDir string
	// Transcriber enables the transcribe tool when non-nil.
	Transcriber transcribe.Transcriber
	// Extra lists additional tool specs (shell scripts, MCP server files) to load.
	Extra []string
}

// NewRegistry builds the tool registry for one session, binding the native
// tools to store.
func NewRegistry(store *document.Store, opts Options, logger *zap.SugaredLogger) *tools.ToolRegistry {
	if logger == nil {
		logger = zap.S()
	}

	native := []tools.Tool{
		NewUpdateTool(store),
		NewSaveTool(store, opts.OutputDir),
	}
	if opts.Transcriber != nil {
		native = append(native, NewTranscribeTool(opts.Transcriber))
	}
	registry := tools.NewToolRegistry(native)

	for _, spec := range opts.Extra {
		if _, err := registry.LoadToolAuto(spec); err != nil {
			logger.Warnw("Warning loading tool", "tool", spec, "error", err)
			continue
		}
	}
	logger.Infow("Loaded tools", "count", len(registry.All()))
	return registry
}
