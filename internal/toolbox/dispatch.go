package toolbox

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/alexschlessinger/pollytool/tools"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/transcript"
)

const previewLen = 200

// Preview shortens s to at most max bytes on a rune boundary, marking the cut
// with "...".
func Preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Dispatcher executes tool calls against a registry. Every call yields
// exactly one tool result message; failures become the result text.
type Dispatcher struct {
	registry *tools.ToolRegistry
	logger   *zap.SugaredLogger
	verbose  bool
}

func NewDispatcher(registry *tools.ToolRegistry, logger *zap.SugaredLogger, verbose bool) *Dispatcher {
	if logger == nil {
		logger = core.WithFields("component", "toolbox")
	}
	return &Dispatcher{registry: registry, logger: logger, verbose: verbose}
}

// Tools returns the tools advertised to the model.
func (d *Dispatcher) Tools() []tools.Tool {
	return d.registry.All()
}

func (d *Dispatcher) Dispatch(ctx context.Context, call transcript.ToolCall) transcript.Message {
	args, err := call.Args()
	if err != nil {
		d.logger.Errorw("Failed to parse tool arguments", "tool", call.Name, "error", err)
		return transcript.ToolResult(call, fmt.Sprintf("Error parsing arguments: %v", err))
	}

	toolLogger := d.logger.With("tool", call.Name, "tool_args", args)

	tool, exists := d.registry.Get(call.Name)
	if !exists {
		toolLogger.Warn("Tool not found")
		return transcript.ToolResult(call, fmt.Sprintf("Tool not found: %s", call.Name))
	}

	defer core.LogDuration(toolLogger, "tool "+call.Name, time.Now())
	toolLogger.Info("Executing tool")
	result, err := tool.Execute(ctx, args)

	if err != nil {
		result = fmt.Sprintf("Error: %v", err)
		toolLogger.Errorw("Tool execution failed", "error", err.Error())
	} else {
		outputPreview := result
		if !d.verbose {
			outputPreview = Preview(result, previewLen)
		}
		toolLogger.With("result_size", len(result)).Infof("Tool execution completed: %s", outputPreview)
	}

	return transcript.ToolResult(call, result)
}
