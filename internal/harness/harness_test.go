package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func loadScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return scenario
}

func TestRun_Scenarios(t *testing.T) {
	for _, name := range []string{"vault_unreal", "vault_stl", "unsupported_set"} {
		t.Run(name, func(t *testing.T) {
			result, err := Run(context.Background(), loadScenario(t, name), Options{})
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
		})
	}
}

func TestRun_ResultCarriesRenderMap(t *testing.T) {
	result, err := Run(context.Background(), loadScenario(t, "vault_stl"), Options{})
	require.NoError(t, err)

	require.NotNil(t, result.Files)
	assert.True(t, result.Files.Has("CMakeLists.txt"))
	assert.Equal(t, result.Files.Digest(), result.Digest)
	assert.Empty(t, result.RunError)
}

func TestRun_FailedAssertion(t *testing.T) {
	scenario := loadScenario(t, "vault_unreal")
	scenario.Assertions = append(scenario.Assertions, Assertion{Type: AssertFileExists, Path: "vcpkg.json"})

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "vcpkg.json")
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := loadScenario(t, "unsupported_set")
	scenario.ExpectError = ""
	scenario.Assertions = []Assertion{{Type: AssertFileExists, Path: "CMakeLists.txt"}}

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Nil(t, result.Files)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "generation failed")
}

func TestRun_WrongExpectedError(t *testing.T) {
	scenario := loadScenario(t, "unsupported_set")
	scenario.ExpectError = "map types"

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `expected error containing "map types"`)
}

func TestRun_ExpectedErrorButSucceeded(t *testing.T) {
	scenario := loadScenario(t, "vault_stl")
	scenario.ExpectError = "set types"

	result, err := Run(context.Background(), scenario, Options{})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "generation succeeded")
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, loadScenario(t, "vault_stl"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_LogsScenarioName(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	_, err := Run(context.Background(), loadScenario(t, "vault_stl"), Options{Logger: zap.New(core)})
	require.NoError(t, err)

	entries := logs.FilterMessage("scenario finished").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "vault_stl", entries[0].ContextMap()["scenario"])
	assert.Equal(t, true, entries[0].ContextMap()["pass"])
}
