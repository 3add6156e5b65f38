package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/injscope/core/config"
	"github.com/tristendillon/injscope/core/models"
	"github.com/tristendillon/injscope/core/walker"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "injscope tree")
	assert.FileExists(t, filepath.Join(dir, config.FileName))
	assert.FileExists(t, filepath.Join(dir, "snapshot.yaml"))

	t.Run("init keeps existing files", func(t *testing.T) {
		out, err := execute(t, "init")
		require.NoError(t, err)
		assert.Contains(t, out, "already exists")
	})

	t.Run("walk", func(t *testing.T) {
		out, err := execute(t, "walk", "todo-1", "-o", "json")
		require.NoError(t, err)

		var path models.SerializedPath
		require.NoError(t, json.Unmarshal([]byte(out), &path))
		require.Len(t, path, 6)
		assert.Equal(t, models.KindNullInjector, path[5].Type)
	})

	t.Run("walk detached element", func(t *testing.T) {
		_, err := execute(t, "walk", "offscreen", "-o", "json")
		assert.ErrorIs(t, err, walker.ErrNotFound)
	})

	t.Run("trace", func(t *testing.T) {
		out, err := execute(t, "trace", "todo-1", "Formatter", "-o", "json")
		require.NoError(t, err)

		var result traceResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.True(t, result.Resolved)
		assert.Equal(t, "Formatter", result.Token)
		require.Len(t, result.Path, 4)
		assert.Len(t, result.Path[3].ImportPath, 3)
	})

	t.Run("tree", func(t *testing.T) {
		out, err := execute(t, "tree", "-o", "json")
		require.NoError(t, err)

		var result struct {
			Roots []*models.MergedInjectorTreeNode `json:"roots"`
			Paths []json.RawMessage               `json:"paths"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Len(t, result.Paths, 8)
		require.Len(t, result.Roots, 1)
		assert.Equal(t, models.KindNullInjector, result.Roots[0].Injector.Type)
	})

	t.Run("tree text", func(t *testing.T) {
		out, err := execute(t, "tree", "-o", "text", "--token", "TodoStore", "-e", "app-root", "-e", "todo-1", "-e", "todo-3")
		require.NoError(t, err)
		assert.Contains(t, out, "TodoListComponent")
		assert.Contains(t, out, "TodoItemComponent[NgStyle]")
		// app-root does not see TodoStore, so its path forms a second tree.
		require.Contains(t, out, "NullInjector")
		assert.Less(t, strings.Index(out, "TodoListComponent"), strings.Index(out, "NullInjector"))
	})

	t.Run("providers of an environment injector", func(t *testing.T) {
		out, err := execute(t, "providers", "root", "-o", "json")
		require.NoError(t, err)

		var providers []models.ProviderRecord
		require.NoError(t, json.Unmarshal([]byte(out), &providers))
		assert.Len(t, providers, 5)
	})

	t.Run("providers of an element", func(t *testing.T) {
		out, err := execute(t, "providers", "todo-list", "-o", "json")
		require.NoError(t, err)

		var providers []models.ProviderRecord
		require.NoError(t, json.Unmarshal([]byte(out), &providers))
		require.Len(t, providers, 1)
		assert.True(t, providers[0].ViewProvider)
	})

	t.Run("deps", func(t *testing.T) {
		out, err := execute(t, "deps", "todo-list", "-o", "json")
		require.NoError(t, err)

		var deps []models.DependencyRecord
		require.NoError(t, json.Unmarshal([]byte(out), &deps))
		assert.Len(t, deps, 3)
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := execute(t, "walk", "todo-1", "-o", "xml")
		assert.Error(t, err)
	})

	t.Run("missing snapshot", func(t *testing.T) {
		_, err := execute(t, "walk", "todo-1", "-o", "json", "--snapshot", "nope.yaml")
		assert.Error(t, err)
	})
}

func TestLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() {
		rootCmd.PersistentFlags().Set("logfile", "")
		rootCmd.PersistentFlags().Set("verbose", "false")
	})

	_, err := execute(t, "init")
	require.NoError(t, err)

	logPath := filepath.Join(dir, "injscope.log")
	_, err = execute(t, "walk", "todo-1", "-o", "json", "--verbose", "--logfile", logPath)
	require.NoError(t, err)
	assert.Nil(t, logFile, "log file is closed once the command returns")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Walked todo-1")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Injscope")
}

func TestIDGenerator(t *testing.T) {
	assert.NotNil(t, idGenerator(config.StrategyUUID))
	assert.NotNil(t, idGenerator(config.StrategySequential))
	assert.NotNil(t, idGenerator(config.StrategyStable))
}
