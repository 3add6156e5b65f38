package inspector

import (
	"fmt"

	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/tracer"
	"github.com/tristendillon/injscope/core/walker"
)

// Dependencies traces every constructor dependency of every directive hosted
// at the element. Self and SkipSelf narrow the search; Optional and Host are
// reported only.
func (i *Inspector) Dependencies(handle runtime.ElementHandle) ([]models.DependencyRecord, error) {
	node, ok := i.host.Element(handle)
	if !ok {
		return nil, fmt.Errorf("%w: %s", walker.ErrNotFound, handle)
	}

	var records []models.DependencyRecord
	for _, directive := range node.Directives() {
		for _, dep := range directive.Deps {
			flags := tracer.Flags{Self: dep.Self, SkipSelf: dep.SkipSelf}
			path, resolved, err := i.tracer.TraceWithFlags(handle, dep.Token, flags)
			if err != nil {
				return nil, fmt.Errorf("failed to trace %s for %s: %w", dep.Token, directive.Name, err)
			}
			if !resolved && !dep.Optional {
				logger.Warn("%s on %s: no provider for %s", directive.Name, handle, dep.Token)
			}

			records = append(records, models.DependencyRecord{
				Directive: directive.Name,
				Token:     dep.Token.String(),
				Flags: models.DependencyFlags{
					Optional: dep.Optional,
					Self:     dep.Self,
					SkipSelf: dep.SkipSelf,
					Host:     dep.Host,
				},
				Resolved: resolved,
				Path:     i.serializer.Serialize(path),
			})
		}
	}
	return records, nil
}
