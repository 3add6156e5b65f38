package tracer

import (
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/runtime"
)

// ModuleProvider is a provider together with the import chain that leads from
// the root module to the module declaring it.
type ModuleProvider struct {
	Provider runtime.Provider
	Path     []*runtime.ModuleType
}

// FindImportPath searches root's import graph depth first for the first module
// that declares a provider for tok. The result starts at root and ends at the
// declaring module; nil means no module declares tok.
func FindImportPath(root *runtime.ModuleType, tok runtime.Token) []*runtime.ModuleType {
	var found []*runtime.ModuleType
	walkModules(root, func(path []*runtime.ModuleType) bool {
		module := path[len(path)-1]
		for _, p := range module.Providers {
			if p.Token == tok {
				found = clonePath(path)
				return false
			}
		}
		return true
	})
	return found
}

// ModuleProviders lists every provider reachable through root's imports in
// depth-first declaration order.
func ModuleProviders(root *runtime.ModuleType) []ModuleProvider {
	var providers []ModuleProvider
	walkModules(root, func(path []*runtime.ModuleType) bool {
		module := path[len(path)-1]
		for _, p := range module.Providers {
			providers = append(providers, ModuleProvider{Provider: p, Path: clonePath(path)})
		}
		return true
	})
	return providers
}

// walkModules visits each module once. visit receives the import chain ending
// at the current module and returns false to stop the walk.
func walkModules(root *runtime.ModuleType, visit func(path []*runtime.ModuleType) bool) {
	if root == nil {
		return
	}
	visited := make(map[runtime.ModuleID]bool)
	var dfs func(module *runtime.ModuleType, path []*runtime.ModuleType) bool
	dfs = func(module *runtime.ModuleType, path []*runtime.ModuleType) bool {
		if visited[module.ID] {
			logger.Debug("Module %s already visited, skipping", module.DisplayName())
			return true
		}
		visited[module.ID] = true

		path = append(path, module)
		if !visit(path) {
			return false
		}
		for _, imported := range module.Imports {
			if imported == nil {
				continue
			}
			if !dfs(imported, path) {
				return false
			}
		}
		return true
	}
	dfs(root, nil)
}

func clonePath(path []*runtime.ModuleType) []*runtime.ModuleType {
	cloned := make([]*runtime.ModuleType, len(path))
	copy(cloned, path)
	return cloned
}
