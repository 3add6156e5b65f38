package tracer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/snapshot/snapshottest"
	"github.com/tristendillon/injscope/core/tracer"
	"github.com/tristendillon/injscope/core/walker"
)

func newTracer(t *testing.T, doc string) *tracer.TokenTracer {
	t.Helper()
	return tracer.NewTokenTracer(walker.NewInjectorWalker(snapshottest.MustParse(t, doc)))
}

func moduleNames(records []models.InjectorRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Module.DisplayName()
	}
	return names
}

func TestTrace(t *testing.T) {
	tr := tracer.NewTokenTracer(walker.NewInjectorWalker(snapshottest.Sample(t)))

	tests := []struct {
		name     string
		handle   runtime.ElementHandle
		token    string
		length   int
		resolved bool
		last     models.InjectorKind
	}{
		{"view provider on parent", "todo-1", "TodoStore", 2, true, models.KindElement},
		{"own directive", "todo-1", "TodoItemComponent", 1, true, models.KindElement},
		{"element provider", "todo-3", "AppState", 3, true, models.KindElement},
		{"root module", "todo-1", "RootService", 4, true, models.KindModule},
		{"platform", "todo-1", "PlatformLocation", 5, true, models.KindPlatform},
		{"builtin", "main", "ElementRef", 1, true, models.KindElement},
		{"unresolved", "todo-1", "Missing", 6, false, models.KindNullInjector},
		{"lazy module", "lazy-view", "LazyService", 3, true, models.KindModule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := tr.Trace(tt.handle, runtime.ParseToken(tt.token))
			require.NoError(t, err)
			require.Len(t, path, tt.length)
			assert.Equal(t, tt.resolved, path.Resolved())
			last, _ := path.Last()
			assert.Equal(t, tt.last, last.Kind)
		})
	}
}

func TestTrace_IsPrefixOfWalk(t *testing.T) {
	snap := snapshottest.Sample(t)
	w := walker.NewInjectorWalker(snap)
	tr := tracer.NewTokenTracer(w)

	full, err := w.Walk("todo-2")
	require.NoError(t, err)

	for _, token := range []string{"TodoStore", "AppState", "Formatter", "PlatformLocation", "Missing"} {
		path, err := tr.Trace("todo-2", runtime.ParseToken(token))
		require.NoError(t, err)
		require.LessOrEqual(t, len(path), len(full), token)
		for i := range path {
			assert.Equal(t, full[i].Kind, path[i].Kind, token)
		}
	}
}

func TestTrace_NotFound(t *testing.T) {
	tr := tracer.NewTokenTracer(walker.NewInjectorWalker(snapshottest.Sample(t)))
	_, err := tr.Trace("offscreen", runtime.ParseToken("AppState"))
	assert.ErrorIs(t, err, walker.ErrNotFound)
}

func TestTrace_ImportPath(t *testing.T) {
	tr := newTracer(t, snapshottest.Imports)

	path, err := tr.Trace("host", runtime.ParseToken("Y"))
	require.NoError(t, err)
	require.Len(t, path, 2)

	record := path[1]
	assert.Equal(t, models.KindModule, record.Kind)
	assert.Equal(t, "Root", record.Module.DisplayName())
	assert.Equal(t, []string{"Root", "Mid", "Imp"}, moduleNames(record.ImportPath))
	for _, imported := range record.ImportPath {
		assert.Equal(t, models.KindImportedModule, imported.Kind)
	}
}

func TestTraceWithFlags(t *testing.T) {
	tr := tracer.NewTokenTracer(walker.NewInjectorWalker(snapshottest.Sample(t)))

	t.Run("skipSelf starts at the parent injector", func(t *testing.T) {
		path, resolved, err := tr.TraceWithFlags("todo-list", runtime.ParseToken("TodoStore"), tracer.Flags{SkipSelf: true})
		require.NoError(t, err)
		assert.False(t, resolved)
		assert.NotEqual(t, runtime.NodeID("todo-list"), path[0].Element.ID())
	})

	t.Run("self stays on the element", func(t *testing.T) {
		path, resolved, err := tr.TraceWithFlags("todo-list", runtime.ParseToken("ElementRef"), tracer.Flags{Self: true})
		require.NoError(t, err)
		assert.True(t, resolved)
		require.Len(t, path, 1)

		path, resolved, err = tr.TraceWithFlags("todo-list", runtime.ParseToken("RootService"), tracer.Flags{Self: true})
		require.NoError(t, err)
		assert.False(t, resolved)
		assert.Len(t, path, 1)
	})

	t.Run("self without a local injector", func(t *testing.T) {
		path, resolved, err := tr.TraceWithFlags("main", runtime.ParseToken("ElementRef"), tracer.Flags{Self: true})
		require.NoError(t, err)
		assert.False(t, resolved)
		assert.Empty(t, path)
	})
}

func TestTrace_Cycles(t *testing.T) {
	tr := newTracer(t, snapshottest.Cycles)

	path, err := tr.Trace("x", runtime.ParseToken("Nothing"))
	require.NoError(t, err)
	require.Len(t, path, 4)
	assert.Equal(t, models.KindInjector, path[3].Kind)
}

func TestElementSatisfies(t *testing.T) {
	snap := snapshottest.Sample(t)
	list, _ := snap.Element("todo-list")

	assert.True(t, tracer.ElementSatisfies(list, runtime.ParseToken("TodoStore")))
	assert.True(t, tracer.ElementSatisfies(list, runtime.ParseToken("TodoListComponent")))
	assert.False(t, tracer.ElementSatisfies(list, runtime.ParseToken("token:TodoListComponent")))
	assert.False(t, tracer.ElementSatisfies(nil, runtime.ParseToken("TodoStore")))
}
