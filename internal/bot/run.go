package bot

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"time"

	"github.com/lrstanley/girc"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/commands"
	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/console"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/irc"
)

// RunConsole runs the session on a terminal until it ends
func RunConsole(ctx context.Context, sys core.System, in io.Reader, out io.Writer) error {
	return console.New(sys.GetAgent(), in, out, core.WithSurface(core.GetLogger(), "console", "stdin")).Run(ctx)
}

// NewCommandRegistry registers the IRC commands; plain messages are drafting turns
func NewCommandRegistry() *commands.Registry {
	cmdRegistry := commands.NewRegistry()
	cmdRegistry.Register(commands.NewHelpCommand(cmdRegistry))
	cmdRegistry.Register(&commands.VersionCommand{Version: "v" + Version})
	cmdRegistry.Register(&commands.DocumentCommand{})
	cmdRegistry.Register(&commands.ToolsCommand{})
	cmdRegistry.Register(&commands.QuitCommand{})
	cmdRegistry.Register(&commands.DraftCommand{})
	return cmdRegistry
}

// RunIRC connects to the configured server and drafts with the channel.
// It returns when the session ends, ctx is cancelled or the connection fails.
func RunIRC(ctx context.Context, cfg *config.Configuration, sys core.System) error {
	cmdRegistry := NewCommandRegistry()

	ircClient := girc.New(girc.Config{
		Server:    cfg.Server.Server,
		Port:      cfg.Server.Port,
		Nick:      cfg.Server.Nick,
		User:      "drafter",
		Name:      "drafter",
		SSL:       cfg.Server.SSL,
		TLSConfig: &tls.Config{InsecureSkipVerify: cfg.Server.TLSInsecure},
	})

	if cfg.Server.SASLNick != "" && cfg.Server.SASLPass != "" {
		ircClient.Config.SASL = &girc.SASLPlain{
			User: cfg.Server.SASLNick,
			Pass: cfg.Server.SASLPass,
		}
	}

	go func() {
		<-ctx.Done()
		ircClient.Quit("Shutting down...")
		zap.S().Info("IRC client closed")
	}()

	ircClient.Handlers.AddBg(girc.CONNECTED, func(client *girc.Client, e girc.Event) {
		zap.S().Infof("Joining channel: %s", cfg.Server.Channel)
		client.Cmd.Join(cfg.Server.Channel)
	})

	ircClient.Handlers.AddBg(girc.JOIN, func(client *girc.Client, e girc.Event) {
		if e.Source == nil || e.Source.Name != client.GetNick() {
			return
		}
		chatCtx, cancel := irc.NewChatContext(ctx, cfg, sys, client, &e)
		defer cancel()
		core.WithRequestLock(chatCtx, sys.GetLock(), "greeting", func() {
			Greeting(chatCtx)
		}, nil)
	})

	ircClient.Handlers.AddBg(girc.PRIVMSG, func(client *girc.Client, e girc.Event) {
		chatCtx, cancel := irc.NewChatContext(ctx, cfg, sys, client, &e)
		defer cancel()

		if !chatCtx.Valid() {
			return
		}

		core.WithRequestLock(chatCtx, sys.GetLock(), "turn", func() {
			chatCtx.GetLogger().Infof(">> %s", chatCtx.GetText())
			cmdRegistry.Dispatch(chatCtx)
		}, func() {
			chatCtx.Reply("Request timed out waiting for previous operation to complete")
		})
	})

	const maxRetries = 5
	for i := range maxRetries {
		if ctx.Err() != nil {
			return nil
		}

		zap.S().Infow("Connecting to server",
			"server", ircClient.Config.Server,
			"port", ircClient.Config.Port,
			"tls", ircClient.Config.SSL,
			"sasl", ircClient.Config.SASL != nil,
		)

		if err := ircClient.Connect(); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			zap.S().Errorw("Connection failed", "error", err)
			zap.S().Infof("Reconnecting in 5 seconds (attempt %d/%d)", i+1, maxRetries)

			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	}

	return fmt.Errorf("failed to connect after %d attempts", maxRetries)
}
