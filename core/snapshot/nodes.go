package snapshot

import (
	"github.com/tristendillon/injscope/core/runtime"
)

type elementNode struct {
	id            runtime.NodeID
	tag           string
	parent        *elementNode
	localInjector bool
	detached      bool
	template      bool
	env           *envInjector
	directives    []runtime.DirectiveType
	providers     []runtime.Provider
	viewProviders []runtime.Provider
}

var _ runtime.ElementNode = (*elementNode)(nil)

func (n *elementNode) ID() runtime.NodeID { return n.id }
func (n *elementNode) HasLocalInjector() bool { return n.localInjector }
func (n *elementNode) Providers() []runtime.Provider { return n.providers }
func (n *elementNode) ViewProviders() []runtime.Provider { return n.viewProviders }

func (n *elementNode) Directives() []runtime.DirectiveType {
	return n.directives
}

func (n *elementNode) Parent() (runtime.ElementNode, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

// ProbeSelf answers builtin tokens for any element carrying an injector;
// TemplateRef additionally needs a template anchor.
func (n *elementNode) ProbeSelf(tok runtime.Token) bool {
	if !n.localInjector {
		return false
	}
	if tok.Kind == runtime.TokenBuiltin {
		if tok.Name == "TemplateRef" {
			return n.template
		}
		return true
	}
	if hasToken(n.providers, tok) || hasToken(n.viewProviders, tok) {
		return true
	}
	for _, d := range n.directives {
		if tok.Kind == runtime.TokenType && d.Name == tok.Name {
			return true
		}
	}
	return false
}

// Environment is inherited from the closest ancestor that declares one.
func (n *elementNode) Environment() (runtime.EnvironmentInjector, bool) {
	visited := make(map[runtime.NodeID]bool)
	for current := n; current != nil; current = current.parent {
		if visited[current.id] {
			return nil, false
		}
		visited[current.id] = true
		if current.env != nil {
			return current.env, true
		}
	}
	return nil, false
}

type envInjector struct {
	id        runtime.InjectorID
	name      string
	scopes    runtime.Scope
	module    *runtime.ModuleType
	parent    *envInjector
	synthetic bool
	framework bool
	providers []runtime.Provider
}

var _ runtime.EnvironmentInjector = (*envInjector)(nil)

func (e *envInjector) ID() runtime.InjectorID { return e.id }
func (e *envInjector) Name() string { return e.name }
func (e *envInjector) Scopes() runtime.Scope { return e.scopes }
func (e *envInjector) Synthetic() bool { return e.synthetic }
func (e *envInjector) Framework() bool { return e.framework }
func (e *envInjector) Providers() []runtime.Provider { return e.providers }

func (e *envInjector) Module() (*runtime.ModuleType, bool) {
	return e.module, e.module != nil
}

func (e *envInjector) Parent() (runtime.EnvironmentInjector, bool) {
	if e.parent == nil {
		return nil, false
	}
	return e.parent, true
}

// ProbeSelf checks the injector's own providers and every provider its module
// contributes transitively, mirroring how imported module providers are
// registered on the importing injector.
func (e *envInjector) ProbeSelf(tok runtime.Token) bool {
	if hasToken(e.providers, tok) {
		return true
	}
	if e.module == nil {
		return false
	}
	visited := make(map[runtime.ModuleID]bool)
	var search func(m *runtime.ModuleType) bool
	search = func(m *runtime.ModuleType) bool {
		if visited[m.ID] {
			return false
		}
		visited[m.ID] = true
		if hasToken(m.Providers, tok) {
			return true
		}
		for _, imported := range m.Imports {
			if search(imported) {
				return true
			}
		}
		return false
	}
	return search(e.module)
}

func hasToken(providers []runtime.Provider, tok runtime.Token) bool {
	for _, p := range providers {
		if p.Token == tok {
			return true
		}
	}
	return false
}
