// Package runtime describes the framework state an inspector reads: element
// positions inside rendered views, environment injectors and module types.
// Implementations classify everything up front so callers only ever switch on
// the closed enums defined here.
package runtime

import "strings"

type TokenKind int

const (
	TokenType TokenKind = iota
	TokenInjection
	TokenBuiltin
)

func (tk TokenKind) String() string {
	switch tk {
	case TokenType:
		return "type"
	case TokenInjection:
		return "token"
	case TokenBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Token is the nominal key of a requested dependency.
type Token struct {
	Kind TokenKind
	Name string
}

var builtinTokens = map[string]bool{
	"ElementRef":        true,
	"ViewContainerRef":  true,
	"ChangeDetectorRef": true,
	"TemplateRef":       true,
	"Renderer2":         true,
	"Injector":          true,
	"DestroyRef":        true,
}

// ParseToken reads "token:NAME", "builtin:NAME" or a bare type name. Bare names
// of framework services are recognised as builtins.
func ParseToken(s string) Token {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutPrefix(s, "token:"); ok {
		return Token{Kind: TokenInjection, Name: name}
	}
	if name, ok := strings.CutPrefix(s, "builtin:"); ok {
		return Token{Kind: TokenBuiltin, Name: name}
	}
	if builtinTokens[s] {
		return Token{Kind: TokenBuiltin, Name: s}
	}
	return Token{Kind: TokenType, Name: s}
}

func (t Token) String() string {
	switch t.Kind {
	case TokenInjection:
		return "token:" + t.Name
	case TokenBuiltin:
		return "builtin:" + t.Name
	default:
		return t.Name
	}
}

// Scope is a bitset of the scopes an environment injector declares.
type Scope uint8

const (
	ScopePlatform Scope = 1 << iota
	ScopeEnvironment
	ScopeRoot
)

func (s Scope) Has(other Scope) bool {
	return s&other == other
}

func ParseScope(name string) (Scope, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "platform":
		return ScopePlatform, true
	case "environment":
		return ScopeEnvironment, true
	case "root":
		return ScopeRoot, true
	default:
		return 0, false
	}
}

type ProviderKind int

const (
	ProviderType ProviderKind = iota
	ProviderClass
	ProviderValue
	ProviderFactory
	ProviderExisting
)

func (pk ProviderKind) String() string {
	switch pk {
	case ProviderType:
		return "type"
	case ProviderClass:
		return "useClass"
	case ProviderValue:
		return "useValue"
	case ProviderFactory:
		return "useFactory"
	case ProviderExisting:
		return "useExisting"
	default:
		return "unknown"
	}
}

func ParseProviderKind(s string) (ProviderKind, bool) {
	for pk := ProviderType; pk <= ProviderExisting; pk++ {
		if strings.EqualFold(pk.String(), s) {
			return pk, true
		}
	}
	return ProviderType, false
}

type Provider struct {
	Token Token
	Kind  ProviderKind
	Multi bool
}

// Dependency is one constructor parameter of a directive together with its
// resolution flags.
type Dependency struct {
	Token    Token
	Optional bool
	Self     bool
	SkipSelf bool
	Host     bool
}

type DirectiveType struct {
	Name      string
	Component bool
	Deps      []Dependency
}

type (
	NodeID     string
	InjectorID string
	ModuleID   string
)

// ModuleType is a module definition. Imports may form cycles when the host
// framework state is corrupt; walkers must guard against that.
type ModuleType struct {
	ID        ModuleID
	Name      string
	Enclosing string
	Providers []Provider
	Imports   []*ModuleType
}

// DisplayName falls back to the enclosing module for anonymously constructed
// modules.
func (m *ModuleType) DisplayName() string {
	if m == nil {
		return ""
	}
	if m.Name != "" {
		return m.Name
	}
	return m.Enclosing
}

// ElementNode is an element position inside a rendered view.
type ElementNode interface {
	ID() NodeID
	// HasLocalInjector reports whether this position carries its own injector entry.
	HasLocalInjector() bool
	// Parent is the enclosing element position, crossing into ancestor views
	// when this element roots an embedded view.
	Parent() (ElementNode, bool)
	Directives() []DirectiveType
	Providers() []Provider
	ViewProviders() []Provider
	// ProbeSelf performs a self-only optional lookup.
	ProbeSelf(tok Token) bool
	Environment() (EnvironmentInjector, bool)
}

type EnvironmentInjector interface {
	ID() InjectorID
	Name() string
	Scopes() Scope
	Module() (*ModuleType, bool)
	Parent() (EnvironmentInjector, bool)
	// Synthetic marks wrapper injectors with no visible declarations.
	Synthetic() bool
	// Framework marks injectors created by the framework rather than the application.
	Framework() bool
	Providers() []Provider
	ProbeSelf(tok Token) bool
}

type ElementHandle string

// Host resolves element handles against the inspected page.
type Host interface {
	// Element returns false when the handle is not part of a rendered view.
	Element(handle ElementHandle) (ElementNode, bool)
	// Elements lists every rendered element handle in document order.
	Elements() []ElementHandle
}
