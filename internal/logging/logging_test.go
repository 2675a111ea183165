package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf})
	log.Info("wrote generated files", zap.Int("files", 3))
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "wrote generated files")
	assert.Contains(t, out, `"files": 3`)
	assert.NotContains(t, out, "hidden")
}

func TestVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Writer: &buf, Verbose: true}).Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Writer: &buf, JSON: true}).Warn("formatter not found", zap.String("command", "clang-format"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "formatter not found", entry["msg"])
	assert.Equal(t, "clang-format", entry["command"])
}
