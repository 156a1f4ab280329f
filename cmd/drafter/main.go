package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"pkdindustries/drafter/internal/bot"
	"pkdindustries/drafter/internal/config"
	"pkdindustries/drafter/internal/core"
	"pkdindustries/drafter/internal/llm"
)

func main() {
	fmt.Fprint(os.Stderr, bot.GetBanner(bot.Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := &cli.Command{
		Name:    "drafter",
		Usage:   "draft a document by talking to a language model",
		Version: bot.Version,
		Flags:   config.GetFlags(),
		Action:  runConsole,
		Commands: []*cli.Command{
			{
				Name:   "irc",
				Usage:  "draft together with an IRC channel",
				Action: runIRC,
			},
		},
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Command) (*config.Configuration, core.System, error) {
	cfg := config.NewConfiguration(c)
	core.InitLogger(cfg.Bot.Verbose)

	if cfg.Bot.Verbose {
		cfg.PrintConfig()
	}

	sys, err := bot.NewSystem(cfg, llm.NewPollyModel(cfg, core.GetLogger()))
	if err != nil {
		return nil, nil, err
	}
	return cfg, sys, nil
}

func runConsole(ctx context.Context, c *cli.Command) error {
	_, sys, err := setup(c)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	return bot.RunConsole(ctx, sys, os.Stdin, os.Stdout)
}

func runIRC(ctx context.Context, c *cli.Command) error {
	cfg, sys, err := setup(c)
	if err != nil {
		return err
	}
	defer zap.L().Sync()

	if cfg.Server.Channel == "" {
		return errors.New("irc: --channel is required")
	}
	return bot.RunIRC(ctx, cfg, sys)
}
