package tracer

import (
	"fmt"

	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/walker"
)

// Flags restricts where a trace may look.
type Flags struct {
	// Self limits the search to the element's own injector.
	Self bool
	// SkipSelf starts the search at the parent injector.
	SkipSelf bool
}

type TokenTracer struct {
	walker *walker.InjectorWalkerImpl
}

func NewTokenTracer(w *walker.InjectorWalkerImpl) *TokenTracer {
	return &TokenTracer{walker: w}
}

// Trace returns the chain truncated at the first injector that satisfies tok.
// An unresolved token yields the full chain ending at the NullInjector.
func (t *TokenTracer) Trace(handle runtime.ElementHandle, tok runtime.Token) (models.ResolutionPath, error) {
	path, _, err := t.TraceWithFlags(handle, tok, Flags{})
	return path, err
}

// TraceWithFlags also reports whether tok was satisfied, since a Self-restricted
// miss ends at the element rather than the NullInjector.
func (t *TokenTracer) TraceWithFlags(handle runtime.ElementHandle, tok runtime.Token, flags Flags) (models.ResolutionPath, bool, error) {
	node, ok := t.walker.Host.Element(handle)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", walker.ErrNotFound, handle)
	}

	chain := t.walker.ElementChain(node)
	ownsFirst := len(chain) > 0 && chain[0].Element.ID() == node.ID()
	if flags.SkipSelf && ownsFirst {
		chain = chain[1:]
	}
	if flags.Self {
		if !ownsFirst || flags.SkipSelf {
			return nil, false, nil
		}
		chain = chain[:1]
	}

	var path models.ResolutionPath
	for _, record := range chain {
		path = append(path, record)
		if ElementSatisfies(record.Element, tok) {
			logger.Debug("Token %s resolved at element %s", tok, record.Element.ID())
			return path, true, nil
		}
	}

	if flags.Self {
		return path, false, nil
	}

	env, ok := node.Environment()
	if !ok {
		logger.Warn("Element %s has no environment injector, %s left unresolved", handle, tok)
		return path, false, nil
	}

	for _, record := range t.walker.EnvironmentChain(env) {
		if record.Kind == models.KindNullInjector {
			path = append(path, record)
			logger.Debug("Token %s not found above %s", tok, handle)
			return path, false, nil
		}

		if record.Injector.ProbeSelf(tok) {
			if record.Kind == models.KindModule && record.Module != nil {
				record.ImportPath = importRecords(FindImportPath(record.Module, tok))
			}
			path = append(path, record)
			logger.Debug("Token %s resolved at injector %s", tok, record.Injector.Name())
			return path, true, nil
		}
		path = append(path, record)
	}

	return path, false, nil
}

// ElementSatisfies checks builtin tokens with a self-only probe and everything
// else against the element's providers, view providers and hosted directives.
func ElementSatisfies(node runtime.ElementNode, tok runtime.Token) bool {
	if node == nil {
		return false
	}
	if tok.Kind == runtime.TokenBuiltin {
		return node.ProbeSelf(tok)
	}
	for _, p := range node.Providers() {
		if p.Token == tok {
			return true
		}
	}
	for _, p := range node.ViewProviders() {
		if p.Token == tok {
			return true
		}
	}
	if tok.Kind == runtime.TokenType {
		for _, d := range node.Directives() {
			if d.Name == tok.Name {
				return true
			}
		}
	}
	return false
}

func importRecords(modules []*runtime.ModuleType) []models.InjectorRecord {
	if len(modules) == 0 {
		return nil
	}
	records := make([]models.InjectorRecord, len(modules))
	for i, m := range modules {
		records[i] = models.InjectorRecord{Kind: models.KindImportedModule, Module: m}
	}
	return records
}
