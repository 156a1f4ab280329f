package bot

import (
	"pkdindustries/drafter/internal/commands"
	"pkdindustries/drafter/internal/irc"
)

// Greeting opens the drafting session when the bot joins a channel
func Greeting(ctx irc.ChatContextInterface) {
	res, err := ctx.GetSystem().GetAgent().Greet()
	if err != nil {
		ctx.GetLogger().Warnw("Greeting skipped", "error", err)
		return
	}
	commands.ReplyTurn(ctx, res)
}
