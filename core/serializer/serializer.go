package serializer

import (
	"strings"

	"github.com/tristendillon/injscope/core/identity"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/tracer"
)

type Serializer struct {
	session *identity.Session
}

func New(session *identity.Session) *Serializer {
	return &Serializer{session: session}
}

func (s *Serializer) Session() *identity.Session {
	return s.session
}

// Serialize converts a live resolution path into its transferable form,
// keeping the most-specific-first order. Malformed records are skipped.
func (s *Serializer) Serialize(path models.ResolutionPath) models.SerializedPath {
	serialized := make(models.SerializedPath, 0, len(path))
	for i, record := range path {
		inj, ok := s.SerializeRecord(record)
		if !ok {
			logger.Warn("Skipping malformed %s record at position %d", record.Kind, i)
			continue
		}
		serialized = append(serialized, inj)
	}
	return serialized
}

func (s *Serializer) SerializeRecord(record models.InjectorRecord) (models.SerializedInjector, bool) {
	var (
		inj models.SerializedInjector
		ok  bool
	)
	switch record.Kind {
	case models.KindElement:
		inj, ok = s.serializeElement(record.Element)
	case models.KindImportedModule:
		inj, ok = s.serializeImportedModule(record.Module)
	default:
		inj, ok = s.serializeEnvironment(record)
	}
	if !ok {
		return inj, false
	}

	for _, imported := range record.ImportPath {
		if child, childOK := s.SerializeRecord(imported); childOK {
			inj.ImportPath = append(inj.ImportPath, child)
		}
	}
	return inj, true
}

func (s *Serializer) serializeElement(node runtime.ElementNode) (models.SerializedInjector, bool) {
	if node == nil {
		return models.SerializedInjector{}, false
	}
	return models.SerializedInjector{
		ID:            s.session.ID(identity.ElementKey(node.ID())),
		Name:          ElementLabel(node.Directives()),
		Type:          models.KindElement,
		ProviderCount: len(node.Providers()) + len(node.ViewProviders()),
	}, true
}

func (s *Serializer) serializeEnvironment(record models.InjectorRecord) (models.SerializedInjector, bool) {
	if record.Injector == nil {
		return models.SerializedInjector{}, false
	}

	name := record.Injector.Name()
	if record.Kind == models.KindModule {
		if module := record.Module; module != nil && module.DisplayName() != "" {
			name = module.DisplayName()
		}
	}

	id := s.session.ID(identity.InjectorKey(record.Injector.ID()))
	s.session.RegisterInjector(id, record.Injector)

	return models.SerializedInjector{
		ID:            id,
		Name:          name,
		Type:          record.Kind,
		ProviderCount: EnvironmentProviderCount(record.Injector),
		Framework:     record.Injector.Framework(),
	}, true
}

func (s *Serializer) serializeImportedModule(module *runtime.ModuleType) (models.SerializedInjector, bool) {
	if module == nil {
		return models.SerializedInjector{}, false
	}
	return models.SerializedInjector{
		ID:            s.session.ID(identity.ModuleKey(module.ID)),
		Name:          module.DisplayName(),
		Type:          models.KindImportedModule,
		ProviderCount: len(module.Providers),
	}, true
}

// ElementLabel names an element injector after its primary directive (the
// component when there is one) followed by the other directives in brackets.
// A position without directives gets an empty label.
func ElementLabel(directives []runtime.DirectiveType) string {
	if len(directives) == 0 {
		return ""
	}

	primary := 0
	for i, d := range directives {
		if d.Component {
			primary = i
			break
		}
	}

	others := make([]string, 0, len(directives)-1)
	for i, d := range directives {
		if i != primary {
			others = append(others, d.Name)
		}
	}
	if len(others) == 0 {
		return directives[primary].Name
	}
	return directives[primary].Name + "[" + strings.Join(others, ", ") + "]"
}

// EnvironmentProviderCount counts the injector's own providers plus every
// provider its module graph contributes.
func EnvironmentProviderCount(inj runtime.EnvironmentInjector) int {
	count := len(inj.Providers())
	if module, ok := inj.Module(); ok {
		count += len(tracer.ModuleProviders(module))
	}
	return count
}
