/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tristendillon/injscope/core/identity"
	"github.com/tristendillon/injscope/core/inspector"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/render"
	"github.com/tristendillon/injscope/core/runtime"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers <element|injector>",
	Short: "List the providers declared by an injector",
	Long: `Lists the providers of an element injector, or of an environment
injector given by its snapshot id or by the id printed by walk and tree.
Providers contributed by imported modules show the import path that brings
them in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := loadWorkspace(cmd)
		if err != nil {
			return err
		}
		providers, err := lookupProviders(ws, args[0])
		if err != nil {
			return err
		}
		return ws.emit(cmd.OutOrStdout(), providers, func(w io.Writer) error {
			return render.Providers(w, providers)
		})
	},
}

func lookupProviders(ws *workspace, ref string) ([]models.ProviderRecord, error) {
	if _, ok := ws.snapshot.Element(runtime.ElementHandle(ref)); ok {
		return ws.inspector.ElementProviders(runtime.ElementHandle(ref))
	}

	// Environment injectors are only known to the session once serialized.
	if result, err := ws.inspector.BuildTree(inspector.TreeOptions{}); result == nil {
		return nil, fmt.Errorf("failed to index injectors: %w", err)
	}
	id := ref
	if _, ok := ws.snapshot.Injector(ref); ok {
		id = ws.inspector.Session().ID(identity.InjectorKey(runtime.InjectorID(ref)))
	}
	return ws.inspector.InjectorProviders(id)
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
