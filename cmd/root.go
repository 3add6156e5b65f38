/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/version"
)

var rootCmd = &cobra.Command{
	Use:   "injscope",
	Short: "Inspect dependency injector hierarchies from a page snapshot.",
	Long: `Injscope walks the element and environment injector chains of a
component page snapshot, traces which injector resolves a token and merges
the resulting paths into a single injector tree.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		closeLogFile()
		if logfile != "" {
			f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open log file %s: %w", logfile, err)
			}
			logFile = f
			logger.AddWriterForAll(f)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeLogFile()
		return nil
	},
}

var (
	logfile      string
	verbose      bool
	snapshotPath string
	outputFormat string
	idStrategy   string

	logFile *os.File
)

// closeLogFile points every level back at stderr, keeping stdout clean for
// json and yaml output, and releases the --logfile handle if one is open.
func closeLogFile() {
	logger.SetWriterForAll(os.Stderr)
	if logFile == nil {
		return
	}
	if err := logFile.Close(); err != nil {
		logger.Warn("Failed to close log file: %v", err)
	}
	logFile = nil
}

func Execute() {
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	closeLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file (overrides injscope.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&idStrategy, "ids", "", "Id strategy: stable, uuid or sequential")
}
