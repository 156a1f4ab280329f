package commands

import (
	"pkdindustries/drafter/internal/irc"
)

// DocumentCommand handles the /document command, showing the current draft
type DocumentCommand struct{}

func (c *DocumentCommand) Name() string    { return "/document" }
func (c *DocumentCommand) AdminOnly() bool { return false }

func (c *DocumentCommand) Execute(ctx irc.ChatContextInterface) {
	doc := ctx.GetSystem().GetDocument().Read()
	if doc == "" {
		ctx.Reply("The document is empty.")
		return
	}
	for _, line := range irc.Split(doc, ctx.GetConfig().Session.ChunkMax) {
		ctx.Reply(line)
	}
}
