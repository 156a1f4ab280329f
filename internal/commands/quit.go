package commands

import (
	"pkdindustries/drafter/internal/irc"
)

// QuitCommand ends the drafting session without saving
type QuitCommand struct{}

func (c *QuitCommand) Name() string    { return "/quit" }
func (c *QuitCommand) AdminOnly() bool { return true }

func (c *QuitCommand) Execute(ctx irc.ChatContextInterface) {
	RunTurn(ctx, "quit")
}
