package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal/cli"
	"codeberg.org/snonux/wordcard/internal/logging"
	"codeberg.org/snonux/wordcard/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, flags)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, flags *cli.Flags) error {
	settings := cli.LoadSettings()

	logger, closeLog := logging.New(logging.Options{
		File:  settings.LogFile,
		Debug: settings.Debug,
	})
	defer func() {
		_ = closeLog()
	}()
	logger.Debug("Configuration loaded",
		zap.String("store", settings.StorePath),
		zap.String("history", settings.HistoryPath),
		zap.String("provider", settings.Provider))

	proc, err := processor.NewProcessor(flags, settings, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --archive flag
	if flags.Archive {
		if err := proc.ArchiveHistory(); err != nil {
			return fmt.Errorf("failed to archive print history: %w", err)
		}
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		return proc.ListModels(ctx)
	}

	if flags.BatchFile != "" {
		_, err := proc.ProcessBatch(ctx)
		return err
	}

	return proc.RunServer(ctx)
}
