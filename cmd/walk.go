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

// walkCmd represents the walk command
var walkCmd = &cobra.Command{
	Use:   "walk <element>",
	Short: "Print the full injector chain above an element",
	Long: `Prints every injector between the element and the NullInjector, most
specific first: element injectors, then the environment injector chain.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		path, err := ws.inspector.Walk(runtime.ElementHandle(args[0]))
		if err != nil {
			return err
		}
		return ws.emit(cmd.OutOrStdout(), path, func(w io.Writer) error {
			return render.Path(w, path)
		})
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)
}
