package models

import (
	"fmt"

	"github.com/tristendillon/injscope/core/runtime"
)

type InjectorKind int

const (
	KindElement InjectorKind = iota
	KindModule
	KindImportedModule
	KindPlatform
	KindNullInjector
	KindInjector
)

func (k InjectorKind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindModule:
		return "module"
	case KindImportedModule:
		return "imported-module"
	case KindPlatform:
		return "platform"
	case KindNullInjector:
		return "null"
	case KindInjector:
		return "injector"
	default:
		return "unknown"
	}
}

func (k InjectorKind) IsEnvironment() bool {
	return k != KindElement
}

func (k InjectorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *InjectorKind) UnmarshalText(text []byte) error {
	for kind := KindElement; kind <= KindInjector; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown injector kind %q", string(text))
}

// InjectorRecord is one step of a resolution chain. Element records carry the
// element position, environment records carry the injector, and module kinds
// additionally carry the module type.
type InjectorRecord struct {
	Kind       InjectorKind
	Element    runtime.ElementNode
	Injector   runtime.EnvironmentInjector
	Module     *runtime.ModuleType
	ImportPath []InjectorRecord
}

// ResolutionPath is ordered most-specific first: index 0 is the element (or the
// first injector consulted) and the last record is the terminal or resolving one.
type ResolutionPath []InjectorRecord

func (p ResolutionPath) Last() (InjectorRecord, bool) {
	if len(p) == 0 {
		return InjectorRecord{}, false
	}
	return p[len(p)-1], true
}

// Resolved reports whether the path ends anywhere but the NullInjector.
func (p ResolutionPath) Resolved() bool {
	last, ok := p.Last()
	return ok && last.Kind != KindNullInjector
}
