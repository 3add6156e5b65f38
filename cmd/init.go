/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/config"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/snapshot"
	"gopkg.in/yaml.v3"
)

var (
	force bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config and sample snapshot",
	Long:  `Creates injscope.yaml and a sample snapshot.yaml in the given directory (default: current directory).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init called")
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		cfg := config.Default()
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		files := map[string][]byte{
			config.FileName: data,
			cfg.Snapshot:    snapshot.Sample,
		}
		for _, name := range []string{config.FileName, cfg.Snapshot} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists. Use --force to overwrite.\n", path)
				continue
			}
			if err := os.WriteFile(path, files[name], 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			logger.Debug("Wrote %s", path)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Next Steps:\n")
		if dir != "." {
			fmt.Fprintf(cmd.OutOrStdout(), "  - cd %s\n", dir)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  - injscope tree\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  - injscope trace todo-1 TodoStore\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
