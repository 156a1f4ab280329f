package commands

import (
	"errors"
	"strings"
	"time"

	"pkdindustries/drafter/internal/agent"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/irc"
	"pkdindustries/drafter/internal/toolbox"
	"pkdindustries/drafter/internal/transcript"
)

// DraftCommand is the default command: the message text becomes one turn of
// the drafting session.
type DraftCommand struct{}

func (c *DraftCommand) Name() string    { return "" }
func (c *DraftCommand) AdminOnly() bool { return false }

// Execute runs the message as a turn. Exit words end the session for the
// whole channel, so like /quit they are reserved for admins.
func (c *DraftCommand) Execute(ctx irc.ChatContextInterface) {
	text := ctx.GetText()
	if agent.IsExitCommand(text) && !ctx.IsAdmin() {
		ctx.GetLogger().Infow("exit refused", "input", text)
		ctx.Reply(ctx.GetSource() + ": only admins can end the drafting session.")
		return
	}
	RunTurn(ctx, text)
}

// RunTurn feeds input to the session's orchestrator and relays what it
// produced. The caller holds the session lock.
func RunTurn(ctx irc.ChatContextInterface, input string) {
	orch := ctx.GetSystem().GetAgent()
	logger := ctx.GetLogger()
	defer core.LogDuration(logger, "turn", time.Now())

	// a session that missed its join greeting still opens with one
	if !orch.NeedsInput() {
		if greeting, err := orch.Greet(); err == nil {
			ReplyTurn(ctx, greeting)
		}
	}

	res, err := orch.Turn(ctx, input)
	if res != nil {
		ReplyTurn(ctx, res)
	}

	var invErr *agent.ModelInvocationError
	switch {
	case errors.Is(err, agent.ErrSessionTerminated):
		ctx.Reply("This drafting session has ended.")
		return
	case errors.As(err, &invErr):
		logger.Errorw("model invocation failed", "round", invErr.Round, "error", invErr.Err)
		ctx.Reply("Error: " + invErr.Error())
		ctx.Quit(agent.Farewell)
		return
	case err != nil:
		logger.Warnw("turn aborted", "error", err)
		ctx.Reply("Request aborted: " + err.Error())
		return
	}

	logger.Infow("turn complete", "rounds", res.Rounds, "stop_reason", res.StopReason)
	if res.Terminal {
		if res.StopReason == agent.StopSaved {
			ctx.Reply(agent.Farewell)
		}
		ctx.Quit(agent.Farewell)
	}
}

// ReplyTurn relays the messages a turn appended, except the user's own input
func ReplyTurn(ctx irc.ChatContextInterface, res *agent.TurnResult) {
	chunkMax := ctx.GetConfig().Session.ChunkMax

	for _, msg := range res.Appended {
		switch msg.Role {
		case transcript.RoleUser:
		case transcript.RoleAssistant:
			for _, line := range irc.Split(msg.Content, chunkMax) {
				ctx.Reply(line)
			}
			if msg.HasToolCalls() {
				names := make([]string, len(msg.ToolCalls))
				for i, tc := range msg.ToolCalls {
					names[i] = tc.Name
				}
				ctx.Action("using " + strings.Join(names, ", "))
			}
		case transcript.RoleToolResult:
			if path, ok := toolbox.SavedPath(msg.Content); ok {
				ctx.Reply("Document has been saved to: " + path)
			} else if strings.HasPrefix(msg.Content, "Error") {
				ctx.Action(msg.ToolName + " failed: " + firstLine(msg.Content))
			}
		}
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
