package snapshot

import (
	"fmt"
	"os"
	"strings"

	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/runtime"
	"gopkg.in/yaml.v3"
)

// Snapshot is a runtime.Host backed by a parsed Document.
type Snapshot struct {
	elements  map[runtime.ElementHandle]*elementNode
	order     []runtime.ElementHandle
	injectors map[string]*envInjector
	modules   map[string]*runtime.ModuleType
}

var _ runtime.Host = (*Snapshot)(nil)

func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	logger.Debug("Loaded snapshot %s: %d elements, %d injectors, %d modules",
		path, len(snap.elements), len(snap.injectors), len(snap.modules))
	return snap, nil
}

func Parse(data []byte) (*Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument links every reference in doc. Parent links are not checked for
// cycles here; walkers guard against them.
func FromDocument(doc *Document) (*Snapshot, error) {
	snap := &Snapshot{
		elements:  make(map[runtime.ElementHandle]*elementNode),
		injectors: make(map[string]*envInjector),
		modules:   make(map[string]*runtime.ModuleType),
	}

	if err := snap.buildModules(doc.Modules); err != nil {
		return nil, err
	}
	if err := snap.buildInjectors(doc.Injectors); err != nil {
		return nil, err
	}
	if err := snap.buildElements(doc.Elements); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Snapshot) buildModules(specs []ModuleSpec) error {
	// First pass: create all modules
	for _, spec := range specs {
		if spec.ID == "" {
			return fmt.Errorf("module %q has no id", spec.Name)
		}
		if _, exists := s.modules[spec.ID]; exists {
			return fmt.Errorf("duplicate module id %q", spec.ID)
		}
		providers, err := toProviders(spec.Providers)
		if err != nil {
			return fmt.Errorf("module %s: %w", spec.ID, err)
		}
		s.modules[spec.ID] = &runtime.ModuleType{
			ID:        runtime.ModuleID(spec.ID),
			Name:      spec.Name,
			Enclosing: spec.Enclosing,
			Providers: providers,
		}
	}

	// Second pass: link imports
	for _, spec := range specs {
		module := s.modules[spec.ID]
		for _, imported := range spec.Imports {
			target, ok := s.modules[imported]
			if !ok {
				return fmt.Errorf("module %s imports unknown module %q", spec.ID, imported)
			}
			module.Imports = append(module.Imports, target)
		}
	}
	return nil
}

func (s *Snapshot) buildInjectors(specs []InjectorSpec) error {
	for _, spec := range specs {
		if spec.ID == "" {
			return fmt.Errorf("injector %q has no id", spec.Name)
		}
		if _, exists := s.injectors[spec.ID]; exists {
			return fmt.Errorf("duplicate injector id %q", spec.ID)
		}
		providers, err := toProviders(spec.Providers)
		if err != nil {
			return fmt.Errorf("injector %s: %w", spec.ID, err)
		}
		var scopes runtime.Scope
		for _, name := range spec.Scopes {
			scope, ok := runtime.ParseScope(name)
			if !ok {
				return fmt.Errorf("injector %s: unknown scope %q", spec.ID, name)
			}
			scopes |= scope
		}
		inj := &envInjector{
			id:        runtime.InjectorID(spec.ID),
			name:      spec.Name,
			scopes:    scopes,
			synthetic: spec.Synthetic,
			framework: spec.Framework,
			providers: providers,
		}
		if inj.name == "" {
			inj.name = spec.ID
		}
		if spec.Module != "" {
			module, ok := s.modules[spec.Module]
			if !ok {
				return fmt.Errorf("injector %s references unknown module %q", spec.ID, spec.Module)
			}
			inj.module = module
		}
		s.injectors[spec.ID] = inj
	}

	for _, spec := range specs {
		if spec.Parent == "" {
			continue
		}
		parent, ok := s.injectors[spec.Parent]
		if !ok {
			return fmt.Errorf("injector %s has unknown parent %q", spec.ID, spec.Parent)
		}
		s.injectors[spec.ID].parent = parent
	}
	return nil
}

func (s *Snapshot) buildElements(specs []ElementSpec) error {
	for _, spec := range specs {
		if spec.ID == "" {
			return fmt.Errorf("element %q has no id", spec.Tag)
		}
		handle := runtime.ElementHandle(spec.ID)
		if _, exists := s.elements[handle]; exists {
			return fmt.Errorf("duplicate element id %q", spec.ID)
		}

		node := &elementNode{
			id:       runtime.NodeID(spec.ID),
			tag:      spec.Tag,
			detached: spec.Detached,
			template: spec.Template,
		}
		var err error
		if node.providers, err = toProviders(spec.Providers); err != nil {
			return fmt.Errorf("element %s: %w", spec.ID, err)
		}
		if node.viewProviders, err = toProviders(spec.ViewProviders); err != nil {
			return fmt.Errorf("element %s: %w", spec.ID, err)
		}
		for _, d := range spec.Directives {
			node.directives = append(node.directives, toDirective(d))
		}

		if spec.Injector != nil {
			node.localInjector = *spec.Injector
		} else {
			node.localInjector = len(node.directives) > 0 || len(node.providers) > 0 || len(node.viewProviders) > 0
		}

		if spec.Environment != "" {
			env, ok := s.injectors[spec.Environment]
			if !ok {
				return fmt.Errorf("element %s references unknown injector %q", spec.ID, spec.Environment)
			}
			node.env = env
		}

		s.elements[handle] = node
		s.order = append(s.order, handle)
	}

	for _, spec := range specs {
		if spec.Parent == "" {
			continue
		}
		parent, ok := s.elements[runtime.ElementHandle(spec.Parent)]
		if !ok {
			return fmt.Errorf("element %s has unknown parent %q", spec.ID, spec.Parent)
		}
		s.elements[runtime.ElementHandle(spec.ID)].parent = parent
	}
	return nil
}

// Element returns false for unknown handles and for elements detached from
// every rendered view.
func (s *Snapshot) Element(handle runtime.ElementHandle) (runtime.ElementNode, bool) {
	node, ok := s.elements[handle]
	if !ok || node.detached {
		return nil, false
	}
	return node, true
}

func (s *Snapshot) Elements() []runtime.ElementHandle {
	handles := make([]runtime.ElementHandle, 0, len(s.order))
	for _, handle := range s.order {
		if !s.elements[handle].detached {
			handles = append(handles, handle)
		}
	}
	return handles
}

func (s *Snapshot) Injector(id string) (runtime.EnvironmentInjector, bool) {
	inj, ok := s.injectors[id]
	if !ok {
		return nil, false
	}
	return inj, true
}

func (s *Snapshot) Module(id string) (*runtime.ModuleType, bool) {
	module, ok := s.modules[id]
	return module, ok
}

func toProviders(specs []ProviderSpec) ([]runtime.Provider, error) {
	providers := make([]runtime.Provider, 0, len(specs))
	for _, spec := range specs {
		if strings.TrimSpace(spec.Token) == "" {
			return nil, fmt.Errorf("provider without token")
		}
		kind := runtime.ProviderType
		if spec.Kind != "" {
			parsed, ok := runtime.ParseProviderKind(spec.Kind)
			if !ok {
				return nil, fmt.Errorf("provider %s: unknown kind %q", spec.Token, spec.Kind)
			}
			kind = parsed
		}
		providers = append(providers, runtime.Provider{
			Token: runtime.ParseToken(spec.Token),
			Kind:  kind,
			Multi: spec.Multi,
		})
	}
	return providers, nil
}

func toDirective(spec DirectiveSpec) runtime.DirectiveType {
	directive := runtime.DirectiveType{Name: spec.Name, Component: spec.Component}
	for _, dep := range spec.Deps {
		directive.Deps = append(directive.Deps, runtime.Dependency{
			Token:    runtime.ParseToken(dep.Token),
			Optional: dep.Optional,
			Self:     dep.Self,
			SkipSelf: dep.SkipSelf,
			Host:     dep.Host,
		})
	}
	return directive
}
