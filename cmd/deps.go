/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/render"
	"github.com/tristendillon/injscope/core/runtime"
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <element>",
	Short: "Trace every constructor dependency of the element's directives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		deps, err := ws.inspector.Dependencies(runtime.ElementHandle(args[0]))
		if err != nil {
			return err
		}
		return ws.emit(cmd.OutOrStdout(), deps, func(w io.Writer) error {
			return render.Dependencies(w, deps)
		})
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
