package inspector

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tristendillon/injscope/core/identity"
	"github.com/tristendillon/injscope/core/logger"
	"github.com/tristendillon/injscope/core/merger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/serializer"
	"github.com/tristendillon/injscope/core/tracer"
	"github.com/tristendillon/injscope/core/walker"
)

// Inspector answers injector queries against one host. It is meant to run on
// the host's thread; every call reads host state to completion before returning.
type Inspector struct {
	host       runtime.Host
	walker     *walker.InjectorWalkerImpl
	tracer     *tracer.TokenTracer
	session    *identity.Session
	serializer *serializer.Serializer
}

func New(host runtime.Host, session *identity.Session) *Inspector {
	if session == nil {
		session = identity.NewSession(nil)
	}
	w := walker.NewInjectorWalker(host)
	return &Inspector{
		host:       host,
		walker:     w,
		tracer:     tracer.NewTokenTracer(w),
		session:    session,
		serializer: serializer.New(session),
	}
}

func (i *Inspector) Session() *identity.Session {
	return i.session
}

func (i *Inspector) Walk(handle runtime.ElementHandle) (models.SerializedPath, error) {
	path, err := i.walker.Walk(handle)
	if err != nil {
		return nil, err
	}
	return i.serializer.Serialize(path), nil
}

func (i *Inspector) Trace(handle runtime.ElementHandle, tok runtime.Token) (models.SerializedPath, error) {
	path, err := i.tracer.Trace(handle, tok)
	if err != nil {
		return nil, err
	}
	return i.serializer.Serialize(path), nil
}

func (i *Inspector) TraceWithFlags(handle runtime.ElementHandle, tok runtime.Token, flags tracer.Flags) (models.SerializedPath, bool, error) {
	path, resolved, err := i.tracer.TraceWithFlags(handle, tok, flags)
	if err != nil {
		return nil, false, err
	}
	return i.serializer.Serialize(path), resolved, nil
}

type TreeOptions struct {
	// Token selects traced paths; nil merges full chains.
	Token *runtime.Token
	// Elements defaults to every rendered element of the host.
	Elements        []runtime.ElementHandle
	Merge           merger.Options
	Filter          merger.FilterOptions
	EnvironmentOnly bool
}

type ElementPath struct {
	Element runtime.ElementHandle `json:"element" yaml:"element"`
	Path    models.SerializedPath `json:"path" yaml:"path"`
}

// TreeResult holds one merged tree per resolving root. Trees rooted at a
// resolving injector come first, ordered by name and id; paths that reached
// the null injector form the last tree.
type TreeResult struct {
	Trees   []*models.InjectorTree
	Paths   []ElementPath
	Skipped []runtime.ElementHandle
}

// Tree returns the tree rooted at the injector with the given id.
func (r *TreeResult) Tree(rootID string) (*models.InjectorTree, bool) {
	for _, tree := range r.Trees {
		if tree.Root != nil && tree.Root.Injector.ID == rootID {
			return tree, true
		}
	}
	return nil, false
}

func (r *TreeResult) Size() int {
	size := 0
	for _, tree := range r.Trees {
		size += tree.Size()
	}
	return size
}

// BuildTree performs a full rebuild: the identity session is reset, every
// element is walked or traced, and the serialized paths are merged per root.
// Elements outside any view are skipped and listed in the result.
func (i *Inspector) BuildTree(opts TreeOptions) (*TreeResult, error) {
	i.session.Reset()

	handles := opts.Elements
	if len(handles) == 0 {
		handles = i.host.Elements()
	}

	result := &TreeResult{}
	groups := make(map[string][]models.SerializedPath)
	for _, handle := range handles {
		var (
			path models.SerializedPath
			err  error
		)
		if opts.Token != nil {
			path, err = i.Trace(handle, *opts.Token)
		} else {
			path, err = i.Walk(handle)
		}
		if err != nil {
			if errors.Is(err, walker.ErrNotFound) {
				logger.Warn("Skipping %s: %v", handle, err)
				result.Skipped = append(result.Skipped, handle)
				continue
			}
			return nil, fmt.Errorf("failed to resolve %s: %w", handle, err)
		}

		path = merger.Filter(path, opts.Filter)
		if opts.EnvironmentOnly {
			_, path = merger.SplitPath(path)
		}
		if len(path) == 0 {
			result.Skipped = append(result.Skipped, handle)
			continue
		}
		result.Paths = append(result.Paths, ElementPath{Element: handle, Path: path})
		root := path[len(path)-1].ID
		groups[root] = append(groups[root], path)
	}

	m := merger.New(opts.Merge)
	var errs []error
	for _, paths := range groups {
		tree, err := m.Merge(paths)
		if err != nil {
			errs = append(errs, err)
		}
		if tree.Root != nil {
			result.Trees = append(result.Trees, tree)
		}
	}
	slices.SortFunc(result.Trees, compareRoots)
	if len(result.Trees) > 1 {
		logger.Debug("Merged %d paths into %d trees", len(result.Paths), len(result.Trees))
	}

	if err := errors.Join(errs...); err != nil {
		return result, fmt.Errorf("failed to merge injector paths: %w", err)
	}
	return result, nil
}

func compareRoots(a, b *models.InjectorTree) int {
	aNull := a.Root.Injector.Type == models.KindNullInjector
	bNull := b.Root.Injector.Type == models.KindNullInjector
	if aNull != bNull {
		if aNull {
			return 1
		}
		return -1
	}
	if c := strings.Compare(a.Root.Injector.Name, b.Root.Injector.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Root.Injector.ID, b.Root.Injector.ID)
}
