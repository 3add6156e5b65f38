/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/render"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/tracer"
)

var (
	traceSelf     bool
	traceSkipSelf bool
)

type traceResult struct {
	Element  string                `json:"element" yaml:"element"`
	Token    string                `json:"token" yaml:"token"`
	Resolved bool                  `json:"resolved" yaml:"resolved"`
	Path     models.SerializedPath `json:"path" yaml:"path"`
}

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace <element> <token>",
	Short: "Show which injector resolves a token for an element",
	Long: `Walks up from the element and stops at the first injector that provides
the token. Tokens are class names, token:NAME for injection tokens or
builtin:NAME for framework builtins such as ElementRef.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		tok := runtime.ParseToken(args[1])
		flags := tracer.Flags{Self: traceSelf, SkipSelf: traceSkipSelf}
		path, resolved, err := ws.inspector.TraceWithFlags(runtime.ElementHandle(args[0]), tok, flags)
		if err != nil {
			return err
		}
		result := traceResult{Element: args[0], Token: tok.String(), Resolved: resolved, Path: path}
		return ws.emit(cmd.OutOrStdout(), result, func(w io.Writer) error {
			return render.Path(w, path)
		})
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().BoolVar(&traceSelf, "self", false, "Only look at the element's own injector")
	traceCmd.Flags().BoolVar(&traceSkipSelf, "skip-self", false, "Start at the parent injector")
}
