package models

// SerializedInjector is the transferable form of an InjectorRecord.
type SerializedInjector struct {
	ID            string               `json:"id" yaml:"id"`
	Name          string               `json:"name" yaml:"name"`
	Type          InjectorKind         `json:"type" yaml:"type"`
	ProviderCount int                  `json:"providers" yaml:"providers"`
	Framework     bool                 `json:"framework,omitempty" yaml:"framework,omitempty"`
	ImportPath    []SerializedInjector `json:"importPath,omitempty" yaml:"importPath,omitempty"`
}

// SerializedPath keeps the most-specific-first order of ResolutionPath.
type SerializedPath []SerializedInjector

func (p SerializedPath) Resolved() bool {
	return len(p) > 0 && p[len(p)-1].Type != KindNullInjector
}

func (p SerializedPath) IDs() []string {
	ids := make([]string, len(p))
	for i, inj := range p {
		ids[i] = inj.ID
	}
	return ids
}

type ProviderRecord struct {
	Token        string               `json:"token" yaml:"token"`
	Kind         string               `json:"kind" yaml:"kind"`
	Multi        bool                 `json:"multi,omitempty" yaml:"multi,omitempty"`
	ViewProvider bool                 `json:"viewProvider,omitempty" yaml:"viewProvider,omitempty"`
	ImportPath   []SerializedInjector `json:"importPath,omitempty" yaml:"importPath,omitempty"`
}

type DependencyFlags struct {
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
	Self     bool `json:"self,omitempty" yaml:"self,omitempty"`
	SkipSelf bool `json:"skipSelf,omitempty" yaml:"skipSelf,omitempty"`
	Host     bool `json:"host,omitempty" yaml:"host,omitempty"`
}

type DependencyRecord struct {
	Directive string          `json:"directive" yaml:"directive"`
	Token     string          `json:"token" yaml:"token"`
	Flags     DependencyFlags `json:"flags" yaml:"flags"`
	Resolved  bool            `json:"resolved" yaml:"resolved"`
	Path      SerializedPath  `json:"path" yaml:"path"`
}
