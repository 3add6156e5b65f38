package walker

import (
	"errors"
	"fmt"

	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
)

var ErrNotFound = errors.New("element is not part of a rendered view")

type InjectorWalker interface {
	Walk(handle runtime.ElementHandle) (models.ResolutionPath, error)
}

type InjectorWalkerImpl struct {
	Host runtime.Host
}

func NewInjectorWalker(host runtime.Host) *InjectorWalkerImpl {
	return &InjectorWalkerImpl{Host: host}
}

// Walk returns the full resolution chain of an element, element injectors
// first, ending at the NullInjector.
func (w *InjectorWalkerImpl) Walk(handle runtime.ElementHandle) (models.ResolutionPath, error) {
	node, ok := w.Host.Element(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, handle)
	}

	path := w.ElementChain(node)

	env, ok := node.Environment()
	if !ok {
		logger.Warn("Element %s has no environment injector, chain stops at element scope", handle)
		return path, nil
	}
	path = append(path, w.EnvironmentChain(env)...)

	logger.Debug("Walked %s: %d injectors", handle, len(path))
	return path, nil
}

// ElementChain lists the element injectors from node outwards. A node without
// a local injector starts at its nearest ancestor that has one.
func (w *InjectorWalkerImpl) ElementChain(node runtime.ElementNode) models.ResolutionPath {
	var path models.ResolutionPath
	visited := make(map[runtime.NodeID]bool)

	current, ok := nearestInjector(node, visited)
	for ok {
		path = append(path, models.InjectorRecord{Kind: models.KindElement, Element: current})

		parent, hasParent := current.Parent()
		if !hasParent {
			break
		}
		current, ok = nearestInjector(parent, visited)
	}
	return path
}

func nearestInjector(node runtime.ElementNode, visited map[runtime.NodeID]bool) (runtime.ElementNode, bool) {
	for node != nil {
		if visited[node.ID()] {
			logger.Warn("Element parent cycle detected at %s, stopping element walk", node.ID())
			return nil, false
		}
		visited[node.ID()] = true

		if node.HasLocalInjector() {
			return node, true
		}
		parent, ok := node.Parent()
		if !ok {
			return nil, false
		}
		node = parent
	}
	return nil, false
}

// EnvironmentChain follows parent links from env until the NullInjector.
// Synthetic wrapper injectors are skipped.
func (w *InjectorWalkerImpl) EnvironmentChain(env runtime.EnvironmentInjector) models.ResolutionPath {
	var path models.ResolutionPath
	visited := make(map[runtime.InjectorID]bool)

	for current := env; current != nil; {
		if visited[current.ID()] {
			logger.Warn("Injector parent cycle detected at %s, stopping environment walk", current.ID())
			break
		}
		visited[current.ID()] = true

		parent, hasParent := current.Parent()
		if current.Synthetic() && hasParent {
			logger.Debug("Skipping synthetic injector %s", current.Name())
			current = parent
			continue
		}

		record := models.InjectorRecord{Kind: Classify(current), Injector: current}
		if record.Kind == models.KindModule {
			record.Module, _ = current.Module()
		}
		path = append(path, record)

		if record.Kind == models.KindNullInjector {
			break
		}
		current = parent
	}
	return path
}

// Classify maps an environment injector onto a record kind from its scopes
// and attached module.
func Classify(inj runtime.EnvironmentInjector) models.InjectorKind {
	if _, ok := inj.Parent(); !ok {
		return models.KindNullInjector
	}

	scopes := inj.Scopes()
	_, hasModule := inj.Module()

	switch {
	case scopes.Has(runtime.ScopePlatform):
		return models.KindPlatform
	case scopes.Has(runtime.ScopeEnvironment | runtime.ScopeRoot):
		if hasModule {
			return models.KindModule
		}
		return models.KindInjector
	case hasModule:
		return models.KindModule
	default:
		return models.KindInjector
	}
}
