package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ingechat/internal/agent"
	"ingechat/internal/app"
	"ingechat/internal/cli"
	"ingechat/internal/config"
	"ingechat/internal/logger"

	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(newApp)
	return rootCmd.ExecuteContext(ctx)
}

func newApp(ctx context.Context, opts cli.Options) (*cli.App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Keep the terminal readable unless diagnostics are asked for
	level := "error"
	if opts.Verbose {
		level = "debug"
	}
	appLogger, err := logger.New(level)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	a, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}

	return &cli.App{
		Chat: a.Chatbot,
		ListModels: func(ctx context.Context) ([]agent.ModelInfo, error) {
			return agent.ListModels(ctx, cfg.Gemini.APIKey)
		},
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}, nil
}
