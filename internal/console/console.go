// Package console is the interactive line-oriented front end.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/toolbox"
	"pkdindustries/drafter/internal/transcript"
)

const (
	previewLen = 300

	helpText = `Commands:
  /document           show the current draft
  /transcribe <path>  transcribe an audio file into the conversation
  /help               show this help
  quit, exit, q       leave without saving`
)

// TranscribeInstruction is the user turn injected by /transcribe.
func TranscribeInstruction(path string) string {
	return "Please transcribe the audio located at this path: " + path
}

// Console drives an orchestrator from a line reader.
type Console struct {
	agent  *agent.Orchestrator
	in     io.Reader
	out    io.Writer
	logger *zap.SugaredLogger
}

func New(orch *agent.Orchestrator, in io.Reader, out io.Writer, logger *zap.SugaredLogger) *Console {
	if logger == nil {
		logger = zap.S()
	}
	return &Console{agent: orch, in: in, out: out, logger: logger}
}

// Run greets the user and processes lines until the session ends, the input
// is exhausted or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.logger.Warnw("input error", "error", err)
		}
	}()

	if !c.agent.NeedsInput() {
		res, err := c.agent.Greet()
		if err != nil {
			return err
		}
		c.render(res)
	}

	for {
		fmt.Fprint(c.out, "\n"+userStyle.Render("USER:")+" ")

		var line string
		select {
		case <-ctx.Done():
			c.farewell()
			return nil
		case l, ok := <-lines:
			if !ok {
				c.farewell()
				return nil
			}
			line = strings.TrimSpace(l)
		}

		input, handled := c.command(line)
		if handled {
			continue
		}

		start := time.Now()
		res, err := c.agent.Turn(ctx, input)
		core.LogDuration(c.logger, "turn", start)
		if res != nil {
			c.render(res)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.farewell()
				return nil
			}
			fmt.Fprintln(c.out, errorStyle.Render("Error: "+err.Error()))
			c.farewell()
			return err
		}
		if res.Terminal {
			if res.StopReason == agent.StopSaved {
				fmt.Fprintln(c.out, hintStyle.Render("Session complete."))
			}
			return nil
		}
	}
}

// command handles console-only commands. It returns the text to send to the
// orchestrator, or handled=true when nothing should be sent.
func (c *Console) command(line string) (input string, handled bool) {
	switch {
	case line == "":
		return "", true
	case line == "/help":
		fmt.Fprintln(c.out, hintStyle.Render(helpText))
		return "", true
	case line == "/document":
		c.showDocument()
		return "", true
	case line == "/transcribe" || strings.HasPrefix(line, "/transcribe "):
		path := strings.TrimSpace(strings.TrimPrefix(line, "/transcribe"))
		if path == "" {
			fmt.Fprintln(c.out, hintStyle.Render("Usage: /transcribe <path>"))
			return "", true
		}
		return TranscribeInstruction(path), false
	default:
		return line, false
	}
}

func (c *Console) showDocument() {
	doc := c.agent.Document()
	if doc == "" {
		fmt.Fprintln(c.out, hintStyle.Render("(the document is empty)"))
		return
	}
	fmt.Fprintln(c.out, documentStyle.Render(doc))
}

func (c *Console) farewell() {
	fmt.Fprintln(c.out, "\n"+assistantStyle.Render("AI:")+" "+agent.Farewell)
}

// render prints the messages a turn produced, skipping the user's own input
func (c *Console) render(res *agent.TurnResult) {
	for _, msg := range res.Appended {
		switch msg.Role {
		case transcript.RoleUser:
		case transcript.RoleAssistant:
			if msg.Content != "" {
				fmt.Fprintln(c.out, "\n"+assistantStyle.Render("AI:")+" "+msg.Content)
			}
			if msg.HasToolCalls() {
				names := make([]string, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					names[i] = tc.Name
				}
				fmt.Fprintln(c.out, toolStyle.Render("USING TOOLS: "+strings.Join(names, ", ")))
			}
		case transcript.RoleToolResult:
			fmt.Fprintln(c.out, toolStyle.Render("TOOL RESULT ("+msg.ToolName+"): "+toolbox.Preview(msg.Content, previewLen)))
			if path, ok := toolbox.SavedPath(msg.Content); ok {
				fmt.Fprintln(c.out, savedStyle.Render("Document has been saved to: "+path))
			}
		}
	}
}
