package commands

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"pkdindustries/drafter/internal/irc"
	"pkdindustries/drafter/internal/toolbox"
)

// ToolsCommand handles the /tools command for listing and managing tools
type ToolsCommand struct{}

func (c *ToolsCommand) Name() string    { return "/tools" }
func (c *ToolsCommand) AdminOnly() bool { return false } // subcommands check admin themselves

func (c *ToolsCommand) Execute(ctx irc.ChatContextInterface) {
	args := ctx.GetArgs()

	if len(args) < 2 {
		c.listTools(ctx)
		return
	}

	if !ctx.IsAdmin() {
		ctx.Reply("You don't have permission to perform this action.")
		return
	}

	subcommand := args[1]
	rest := ""
	if len(args) > 2 {
		rest = strings.Join(args[2:], " ")
	}

	switch subcommand {
	case "add":
		c.addTool(ctx, rest)
	case "remove":
		c.removeTool(ctx, rest)
	default:
		ctx.Reply("Usage: /tools [add|remove] <args>")
	}
}

func (c *ToolsCommand) listTools(ctx irc.ChatContextInterface) {
	allTools := ctx.GetSystem().GetToolRegistry().All()

	if len(allTools) == 0 {
		ctx.Reply("No tools loaded")
		return
	}

	toolNames := make([]string, 0, len(allTools))
	for _, tool := range allTools {
		toolNames = append(toolNames, tool.GetName())
	}
	sort.Strings(toolNames)

	message := "Tools: " + strings.Join(toolNames, ", ")
	maxLen := ctx.GetConfig().Session.ChunkMax
	if maxLen <= 0 {
		maxLen = 350
	}
	ctx.Reply(toolbox.Preview(message, maxLen-3))
}

func (c *ToolsCommand) addTool(ctx irc.ChatContextInterface, toolPath string) {
	if toolPath == "" {
		ctx.Reply("Usage: /tools add <path>")
		return
	}

	if _, err := ctx.GetSystem().GetToolRegistry().LoadToolAuto(toolPath); err != nil {
		ctx.Reply(fmt.Sprintf("Failed: %v", err))
		return
	}
	ctx.GetLogger().Infow("Tool added", "tool", toolPath)
	ctx.Reply(fmt.Sprintf("Added tool: %s", toolPath))
}

// protectedTools are the drafting tools the session cannot work without
var protectedTools = map[string]bool{
	toolbox.UpdateToolName: true,
	toolbox.SaveToolName:   true,
}

func (c *ToolsCommand) removeTool(ctx irc.ChatContextInterface, pattern string) {
	if pattern == "" {
		ctx.Reply("Usage: /tools remove <name or pattern>")
		return
	}

	registry := ctx.GetSystem().GetToolRegistry()

	var removed []string
	for _, tool := range registry.All() {
		name := tool.GetName()
		if matched, _ := path.Match(pattern, name); !matched || protectedTools[name] {
			continue
		}
		registry.Remove(name)
		removed = append(removed, name)
	}

	if len(removed) == 0 {
		ctx.Reply(fmt.Sprintf("No removable tools matched: %s", pattern))
		return
	}
	sort.Strings(removed)
	ctx.Reply(fmt.Sprintf("Removed %d tools: %s", len(removed), strings.Join(removed, ", ")))
}
