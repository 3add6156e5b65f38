/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/inspector"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/merger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/render"
	"github.com/tristendillon/injscope/core/runtime"
)

var (
	treeToken           string
	treeElements        []string
	treeCollapse        bool
	treeHideEmpty       bool
	treeHideFramework   bool
	treeEnvironmentOnly bool
)

type treeOutput struct {
	Roots   []*models.MergedInjectorTreeNode `json:"roots" yaml:"roots"`
	Paths   []inspector.ElementPath          `json:"paths" yaml:"paths"`
	Skipped []runtime.ElementHandle          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Merge the injector paths of every element into a tree",
	Long: `Walks every rendered element, or only those given with --element, and
merges the paths into an injector tree rooted at the NullInjector.
With --token each element is traced to the injector resolving that token and
one tree is printed per resolving injector. Elements where the token does not
resolve are merged into a last tree rooted at the NullInjector.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		return runTree(cmd, ws)
	},
}

func treeOptions(cmd *cobra.Command, ws *workspace) inspector.TreeOptions {
	opts := inspector.TreeOptions{
		Merge: merger.Options{CollapseSiblings: ws.config.Tree.CollapseSiblings},
		Filter: merger.FilterOptions{
			HideEmptyElementInjectors: ws.config.Tree.HideEmptyElementInjectors,
			HideFrameworkInjectors:    ws.config.Tree.HideFrameworkInjectors,
		},
		EnvironmentOnly: treeEnvironmentOnly,
	}
	flags := cmd.Flags()
	if flags.Changed("collapse") {
		opts.Merge.CollapseSiblings = treeCollapse
	}
	if flags.Changed("hide-empty") {
		opts.Filter.HideEmptyElementInjectors = treeHideEmpty
	}
	if flags.Changed("hide-framework") {
		opts.Filter.HideFrameworkInjectors = treeHideFramework
	}
	if treeToken != "" {
		tok := runtime.ParseToken(treeToken)
		opts.Token = &tok
	}
	for _, e := range treeElements {
		opts.Elements = append(opts.Elements, runtime.ElementHandle(e))
	}
	return opts
}

func runTree(cmd *cobra.Command, ws *workspace) error {
	result, err := ws.inspector.BuildTree(treeOptions(cmd, ws))
	if result == nil {
		return err
	}
	if err != nil {
		// Paths that did merge are still worth showing.
		logger.Warn("%v", err)
	}
	out := treeOutput{Paths: result.Paths, Skipped: result.Skipped}
	for _, tree := range result.Trees {
		tree.PrintTree(logger.DEBUG)
		out.Roots = append(out.Roots, tree.Root)
	}
	logger.Debug("Identity session: %+v", ws.inspector.Session().Stats())

	return ws.emit(cmd.OutOrStdout(), out, func(w io.Writer) error {
		return render.Forest(w, result.Trees)
	})
}

func addTreeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&treeToken, "token", "t", "", "Only merge paths that resolve this token")
	cmd.Flags().StringSliceVarP(&treeElements, "element", "e", nil, "Elements to include (default: all rendered elements)")
	cmd.Flags().BoolVar(&treeCollapse, "collapse", true, "Collapse equivalent sibling element injectors")
	cmd.Flags().BoolVar(&treeHideEmpty, "hide-empty", false, "Hide element injectors without providers")
	cmd.Flags().BoolVar(&treeHideFramework, "hide-framework", false, "Hide framework-internal injectors")
	cmd.Flags().BoolVar(&treeEnvironmentOnly, "environment-only", false, "Only merge the environment part of each path")
}

func init() {
	rootCmd.AddCommand(treeCmd)
	addTreeFlags(treeCmd)
}
