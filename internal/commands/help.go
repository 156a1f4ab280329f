package commands

import (
	"strings"

	"pkdindustries/drafter/internal/irc"
)

// HelpCommand handles the /help command
type HelpCommand struct {
	registry *Registry
}

// NewHelpCommand creates a help command that can list registered commands
func NewHelpCommand(registry *Registry) *HelpCommand {
	return &HelpCommand{registry: registry}
}

func (c *HelpCommand) Name() string    { return "/help" }
func (c *HelpCommand) AdminOnly() bool { return false }

func (c *HelpCommand) Execute(ctx irc.ChatContextInterface) {
	var names []string
	isAdmin := ctx.IsAdmin()

	for _, cmd := range c.registry.All() {
		if cmd.AdminOnly() && !isAdmin {
			continue
		}
		names = append(names, cmd.Name())
	}

	ctx.Reply("Supported commands: " + strings.Join(names, ", "))
	ctx.Reply("Anything else is a drafting instruction, e.g. \"write a haiku about the sea\" or \"save it as sea\".")
}
