package commands

import (
	"sort"
	"strings"

	"pkdindustries/drafter/internal/irc"
)

// Command defines the interface for bot commands
type Command interface {
	Name() string
	Execute(ctx irc.ChatContextInterface)
	AdminOnly() bool
}

// Registry manages command registration and dispatch
type Registry struct {
	commands       map[string]Command
	defaultCommand Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
// Commands with empty name are registered as the default fallback
func (r *Registry) Register(cmd Command) {
	name := cmd.Name()
	if name == "" {
		r.defaultCommand = cmd
		return
	}
	r.commands[name] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Dispatch executes the appropriate command based on context.
// Plain text goes to the default command; unknown slash commands are refused
// so typos never reach the model.
// Returns true if a command was executed, false otherwise
func (r *Registry) Dispatch(ctx irc.ChatContextInterface) bool {
	cmdName := ctx.GetCommand()

	cmd, ok := r.commands[cmdName]
	if !ok {
		if strings.HasPrefix(cmdName, "/") {
			ctx.Reply("Unknown command " + cmdName + ", try /help")
			return true
		}
		if r.defaultCommand != nil {
			r.defaultCommand.Execute(ctx)
			return true
		}
		return false
	}

	if cmd.AdminOnly() && !ctx.IsAdmin() {
		ctx.Reply("You don't have permission to perform this action.")
		return true
	}

	cmd.Execute(ctx)
	return true
}

// All returns all registered commands (excluding default), sorted by name
func (r *Registry) All() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}
