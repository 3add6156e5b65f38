/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/snapshot"
	"github.com/tristendillon/injscope/core/watcher"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the injector tree whenever the snapshot changes",
	Long: `Prints the merged injector tree, then watches the snapshot file and
prints a fresh tree after every change to its content. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		cache := snapshot.NewCache()
		rebuild := func() error {
			snap, changed, err := cache.Get(cfg.Snapshot)
			if err != nil {
				return err
			}
			if !changed {
				logger.Debug("Snapshot content unchanged, skipping rebuild")
				return nil
			}
			return runTree(cmd, newWorkspace(cfg, snap))
		}
		if err := rebuild(); err != nil {
			return err
		}

		sw, err := watcher.NewSnapshotWatcher(cfg.Snapshot, rebuild)
		if err != nil {
			return err
		}
		sw.OnRemove = func() {
			logger.Warn("Snapshot %s was removed, waiting for it to come back", cfg.Snapshot)
			cache.Invalidate(cfg.Snapshot)
		}
		logger.Info("Watching %s for changes", cfg.Snapshot)
		return sw.Watch(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addTreeFlags(watchCmd)
}
