package snapshot

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the on-disk page snapshot: every environment injector, module
// and rendered element the inspector may visit.
type Document struct {
	Injectors []InjectorSpec `yaml:"injectors"`
	Modules   []ModuleSpec   `yaml:"modules"`
	Elements  []ElementSpec  `yaml:"elements"`
}

type InjectorSpec struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Scopes    []string       `yaml:"scopes"`
	Module    string         `yaml:"module"`
	Parent    string         `yaml:"parent"`
	Synthetic bool           `yaml:"synthetic"`
	Framework bool           `yaml:"framework"`
	Providers []ProviderSpec `yaml:"providers"`
}

type ModuleSpec struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Enclosing string         `yaml:"enclosing"`
	Imports   []string       `yaml:"imports"`
	Providers []ProviderSpec `yaml:"providers"`
}

type ElementSpec struct {
	ID            string          `yaml:"id"`
	Tag           string          `yaml:"tag"`
	Parent        string          `yaml:"parent"`
	Injector      *bool           `yaml:"injector"`
	Detached      bool            `yaml:"detached"`
	Template      bool            `yaml:"template"`
	Environment   string          `yaml:"environment"`
	Directives    []DirectiveSpec `yaml:"directives"`
	Providers     []ProviderSpec  `yaml:"providers"`
	ViewProviders []ProviderSpec  `yaml:"viewProviders"`
}

// ProviderSpec accepts either a bare token or a mapping.
type ProviderSpec struct {
	Token string `yaml:"token"`
	Kind  string `yaml:"kind"`
	Multi bool   `yaml:"multi"`
}

func (p *ProviderSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		p.Token = value.Value
		return nil
	}
	type plain ProviderSpec
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return fmt.Errorf("line %d: invalid provider: %w", value.Line, err)
	}
	*p = ProviderSpec(decoded)
	return nil
}

// DirectiveSpec accepts either a bare directive name or a mapping.
type DirectiveSpec struct {
	Name      string           `yaml:"name"`
	Component bool             `yaml:"component"`
	Deps      []DependencySpec `yaml:"deps"`
}

func (d *DirectiveSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Name = value.Value
		return nil
	}
	type plain DirectiveSpec
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return fmt.Errorf("line %d: invalid directive: %w", value.Line, err)
	}
	*d = DirectiveSpec(decoded)
	return nil
}

// DependencySpec accepts either a bare token or a mapping with resolution flags.
type DependencySpec struct {
	Token    string `yaml:"token"`
	Optional bool   `yaml:"optional"`
	Self     bool   `yaml:"self"`
	SkipSelf bool   `yaml:"skipSelf"`
	Host     bool   `yaml:"host"`
}

func (d *DependencySpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Token = value.Value
		return nil
	}
	type plain DependencySpec
	var decoded plain
	if err := value.Decode(&decoded); err != nil {
		return fmt.Errorf("line %d: invalid dependency: %w", value.Line, err)
	}
	*d = DependencySpec(decoded)
	return nil
}
