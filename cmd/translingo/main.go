package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/translingo/internal/cli"
	"codeberg.org/snonux/translingo/internal/gui"
	"codeberg.org/snonux/translingo/internal/logging"
	"codeberg.org/snonux/translingo/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(cli.Desktop, flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context())
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := cli.LoadConfig()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logs := gui.NewLogBuffer(0)
	logger = logging.Tee(logger, logs, level)

	desktop, err := processor.NewDesktop(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start translator: %w", err)
	}
	defer func() {
		if err := desktop.Close(); err != nil {
			logger.Warn("shutdown incomplete", zap.Error(err))
		}
	}()

	gui.New(desktop.Session, logger, logs).Run()
	return nil
}
