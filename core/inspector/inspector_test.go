package inspector_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/injscope/core/identity"
	"github.com/tristendillon/injscope/core/inspector"
	"github.com/tristendillon/injscope/core/merger"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/runtime"
	"github.com/tristendillon/injscope/core/snapshot/snapshottest"
	"github.com/tristendillon/injscope/core/walker"
)

func newInspector(t *testing.T) *inspector.Inspector {
	t.Helper()
	return inspector.New(snapshottest.Sample(t), identity.NewSession(identity.StableGenerator()))
}

func names(nodes []*models.MergedInjectorTreeNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Injector.Name
	}
	return out
}

func TestBuildTree(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{Merge: merger.Options{CollapseSiblings: true}})
	require.NoError(t, err)
	assert.Empty(t, result.Skipped)
	assert.Len(t, result.Paths, 8)

	require.Len(t, result.Trees, 1)
	tree := result.Trees[0]
	assert.Equal(t, models.KindNullInjector, tree.Root.Injector.Type)
	assert.Equal(t, 8, tree.Paths)

	platform := tree.Root.Children[0]
	assert.Equal(t, models.KindPlatform, platform.Injector.Type)
	appModule := platform.Children[0]
	assert.Equal(t, "AppModule", appModule.Injector.Name)
	assert.Equal(t, []string{"AppComponent", "LazyModule"}, names(appModule.Children))

	list := appModule.Children[0].Children[0]
	assert.Equal(t, "TodoListComponent", list.Injector.Name)
	assert.Equal(t, []string{"TodoItemComponent[NgClass]", "TodoItemComponent[NgStyle]", ""}, names(list.Children))
	assert.Equal(t, 11, tree.Size())
}

func TestBuildTree_NoCollapse(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{})
	require.NoError(t, err)
	require.Len(t, result.Trees, 1)
	assert.Equal(t, 12, result.Size())
}

func TestBuildTree_Token(t *testing.T) {
	i := newInspector(t)
	tok := runtime.ParseToken("TodoStore")

	result, err := i.BuildTree(inspector.TreeOptions{
		Token:    &tok,
		Elements: []runtime.ElementHandle{"todo-1", "todo-2", "todo-3"},
		Merge:    merger.Options{CollapseSiblings: true},
	})
	require.NoError(t, err)

	require.Len(t, result.Trees, 1)
	root := result.Trees[0].Root
	assert.Equal(t, "TodoListComponent", root.Injector.Name, "traced paths are rooted at the resolving injector")
	assert.Equal(t, []string{"TodoItemComponent[NgClass]", "TodoItemComponent[NgStyle]"}, names(root.Children))
}

func TestBuildTree_TokenForest(t *testing.T) {
	tok := runtime.ParseToken("TodoStore")
	orders := [][]runtime.ElementHandle{
		{"app-root", "todo-1", "todo-2"},
		{"app-root", "todo-2", "todo-1"},
		{"todo-1", "app-root", "todo-2"},
		{"todo-1", "todo-2", "app-root"},
		{"todo-2", "app-root", "todo-1"},
		{"todo-2", "todo-1", "app-root"},
	}

	var want []string
	for _, order := range orders {
		t.Run(strings.Join(toStrings(order), ","), func(t *testing.T) {
			i := newInspector(t)
			result, err := i.BuildTree(inspector.TreeOptions{
				Token:    &tok,
				Elements: order,
				Merge:    merger.Options{CollapseSiblings: true},
			})
			require.NoError(t, err)
			require.Len(t, result.Trees, 2)

			resolved, unresolved := result.Trees[0], result.Trees[1]
			assert.Equal(t, "TodoListComponent", resolved.Root.Injector.Name)
			assert.Equal(t, []string{"TodoItemComponent[NgClass]"}, names(resolved.Root.Children))
			assert.Equal(t, 2, resolved.Paths)
			assert.Equal(t, models.KindNullInjector, unresolved.Root.Injector.Type)
			assert.Equal(t, 1, unresolved.Paths)

			var got []string
			for _, tree := range result.Trees {
				for _, path := range tree.Flatten() {
					got = append(got, strings.Join(path.IDs(), "/"))
				}
			}
			slices.Sort(got)
			if want == nil {
				want = got
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestBuildTree_HideFrameworkKeepsResolvingPlatform(t *testing.T) {
	i := newInspector(t)
	tok := runtime.ParseToken("PlatformLocation")

	result, err := i.BuildTree(inspector.TreeOptions{
		Token:    &tok,
		Elements: []runtime.ElementHandle{"todo-1"},
		Filter:   merger.FilterOptions{HideFrameworkInjectors: true},
	})
	require.NoError(t, err)
	require.Len(t, result.Trees, 1)

	root := result.Trees[0].Root
	assert.Equal(t, "Platform: core", root.Injector.Name)
	assert.Equal(t, models.KindPlatform, root.Injector.Type)
	assert.Equal(t, []string{"AppModule"}, names(root.Children))
}

func TestTreeResult_Tree(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{})
	require.NoError(t, err)

	root := result.Trees[0].Root.Injector.ID
	tree, ok := result.Tree(root)
	require.True(t, ok)
	assert.Same(t, result.Trees[0], tree)

	_, ok = result.Tree("missing")
	assert.False(t, ok)
}

func toStrings(handles []runtime.ElementHandle) []string {
	out := make([]string, len(handles))
	for i, h := range handles {
		out[i] = string(h)
	}
	return out
}

func TestBuildTree_SkipsDetached(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{
		Elements: []runtime.ElementHandle{"todo-1", "offscreen"},
	})
	require.NoError(t, err)
	assert.Equal(t, []runtime.ElementHandle{"offscreen"}, result.Skipped)
	require.Len(t, result.Trees, 1)
	assert.Equal(t, 1, result.Trees[0].Paths)
}

func TestBuildTree_EnvironmentOnly(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{EnvironmentOnly: true})
	require.NoError(t, err)

	require.Len(t, result.Trees, 1)
	result.Trees[0].Walk(func(node *models.MergedInjectorTreeNode) {
		assert.NotEqual(t, models.KindElement, node.Injector.Type)
	})
	// NullInjector, Platform, AppModule, LazyModule
	assert.Equal(t, 4, result.Size())
}

func TestBuildTree_HideFramework(t *testing.T) {
	i := newInspector(t)

	result, err := i.BuildTree(inspector.TreeOptions{
		Filter: merger.FilterOptions{HideFrameworkInjectors: true},
	})
	require.NoError(t, err)
	require.Len(t, result.Trees, 1)
	assert.Equal(t, "AppModule", result.Trees[0].Root.Injector.Name)
}

func TestBuildTree_ResetsSession(t *testing.T) {
	i := inspector.New(snapshottest.Sample(t), identity.NewSession(identity.SequentialGenerator("inj")))

	first, err := i.BuildTree(inspector.TreeOptions{})
	require.NoError(t, err)
	second, err := i.BuildTree(inspector.TreeOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, first.Trees[0].Root.Injector.ID, second.Trees[0].Root.Injector.ID)
	assert.Equal(t, first.Size(), second.Size())
}

func TestWalkAndTrace(t *testing.T) {
	i := newInspector(t)

	walked, err := i.Walk("todo-1")
	require.NoError(t, err)
	traced, err := i.Trace("todo-1", runtime.ParseToken("Formatter"))
	require.NoError(t, err)

	require.Len(t, traced, 4)
	assert.Equal(t, walked[:4].IDs(), traced.IDs())

	var via []string
	for _, imp := range traced[3].ImportPath {
		via = append(via, imp.Name)
	}
	assert.Equal(t, []string{"AppModule", "SharedModule", "UtilsModule"}, via)

	_, err = i.Walk("offscreen")
	assert.ErrorIs(t, err, walker.ErrNotFound)
}
