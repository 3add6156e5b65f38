package inspector

import (
	"fmt"

	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/tracer"
	"github.com/tristendillon/injscope/core/walker"
)

// InjectorProviders lists the providers of an environment injector previously
// serialized in this session. Module-contributed providers carry the import
// path to the module that declares them.
func (i *Inspector) InjectorProviders(id string) ([]models.ProviderRecord, error) {
	inj, err := i.session.Injector(id)
	if err != nil {
		return nil, err
	}

	var records []models.ProviderRecord
	for _, p := range inj.Providers() {
		records = append(records, providerRecord(p, false))
	}

	module, ok := inj.Module()
	if !ok {
		return records, nil
	}
	for _, mp := range tracer.ModuleProviders(module) {
		record := providerRecord(mp.Provider, false)
		for _, m := range mp.Path {
			if imported, ok := i.serializer.SerializeRecord(models.InjectorRecord{Kind: models.KindImportedModule, Module: m}); ok {
				record.ImportPath = append(record.ImportPath, imported)
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// ElementProviders lists the providers and view providers declared at the
// element's position.
func (i *Inspector) ElementProviders(handle runtime.ElementHandle) ([]models.ProviderRecord, error) {
	node, ok := i.host.Element(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", walker.ErrNotFound, handle)
	}

	records := make([]models.ProviderRecord, 0, len(node.Providers())+len(node.ViewProviders()))
	for _, p := range node.Providers() {
		records = append(records, providerRecord(p, false))
	}
	for _, p := range node.ViewProviders() {
		records = append(records, providerRecord(p, true))
	}
	return records, nil
}

func providerRecord(p runtime.Provider, viewProvider bool) models.ProviderRecord {
	return models.ProviderRecord{
		Token:        p.Token.String(),
		Kind:         p.Kind.String(),
		Multi:        p.Multi,
		ViewProvider: viewProvider,
	}
}
