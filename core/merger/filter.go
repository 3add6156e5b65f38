package merger

import (
	"github.com/tristendillon/injscope/core/models"
)

type FilterOptions struct {
	// HideEmptyElementInjectors drops element injectors without providers,
	// except the most specific one.
	HideEmptyElementInjectors bool
	// HideFrameworkInjectors drops platform, null and framework-created injectors.
	HideFrameworkInjectors bool
}

func (o FilterOptions) active() bool {
	return o.HideEmptyElementInjectors || o.HideFrameworkInjectors
}

// Filter returns a copy of path without the records hidden by opts. The most
// specific record is always kept, and so is the resolving injector of a
// resolved path.
func Filter(path models.SerializedPath, opts FilterOptions) models.SerializedPath {
	if !opts.active() || len(path) == 0 {
		return path
	}

	keep := -1
	if path.Resolved() {
		keep = len(path) - 1
	}
	filtered := make(models.SerializedPath, 0, len(path))
	for i, inj := range path {
		if i > 0 && i != keep && hidden(inj, opts) {
			continue
		}
		filtered = append(filtered, inj)
	}
	return filtered
}

func hidden(inj models.SerializedInjector, opts FilterOptions) bool {
	if opts.HideEmptyElementInjectors && inj.Type == models.KindElement && inj.ProviderCount == 0 {
		return true
	}
	if opts.HideFrameworkInjectors {
		switch {
		case inj.Type == models.KindPlatform, inj.Type == models.KindNullInjector:
			return true
		case inj.Framework && inj.Type != models.KindElement:
			return true
		}
	}
	return false
}

// SplitPath separates the leading element injectors from the environment
// injectors that follow them.
func SplitPath(path models.SerializedPath) (element, environment models.SerializedPath) {
	split := 0
	for split < len(path) && path[split].Type == models.KindElement {
		split++
	}
	return path[:split], path[split:]
}
