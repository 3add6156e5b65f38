package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetWriterForAll(&buf)
	t.Cleanup(func() {
		SetWriterForAll(os.Stdout)
		SetVerbose(false)
	})
	return &buf
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	Info("hello %s", "world")
	Warn("careful")
	Error("broken: %d", 42)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "broken: 42")
}

func TestDebugNeedsVerbose(t *testing.T) {
	buf := capture(t)

	Debug("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestAddWriter(t *testing.T) {
	primary := capture(t)
	var extra bytes.Buffer
	AddWriter(WARN, &extra)

	Warn("to both")
	Info("primary only")

	assert.Contains(t, primary.String(), "to both")
	assert.Contains(t, primary.String(), "primary only")
	assert.Contains(t, extra.String(), "to both")
	assert.NotContains(t, extra.String(), "primary only")
}

func TestGetLogFromLevel(t *testing.T) {
	buf := capture(t)

	GetLogFromLevel(INFO)("via %s", "level")
	assert.Contains(t, buf.String(), "via level")
	assert.Equal(t, "ERROR", ERROR.String())
}
