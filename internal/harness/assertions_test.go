package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idlcpp/internal/codegen"
)

func testMap() *codegen.RenderMap {
	m := codegen.NewRenderMap()
	m.Add("CMakeLists.txt", "project(Demo)\n")
	m.Add("Source/Demo/Public/Demo/Accounts/Vault.h", "struct Vault\n{\n};\n")
	m.Add("Source/Demo/Public/Demo/Instructions/Deposit.h", "// deposit\n")
	m.Add("Source/Demo/Public/Demo/Instructions/Withdraw.h", "// withdraw\n")
	return m
}

func TestAssertFileExists(t *testing.T) {
	m := testMap()

	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileExists, Path: "CMakeLists.txt"}))

	err := evaluate(m, Assertion{Type: AssertFileExists, Path: "vcpkg.json"})
	require.Error(t, err)
	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, "file_exists", assertErr.Type)
	assert.Equal(t, "not rendered", assertErr.Actual)
	assert.Len(t, assertErr.Paths, 4)
}

func TestAssertFileAbsent(t *testing.T) {
	m := testMap()

	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileAbsent, Path: "Demo.uplugin"}))

	err := evaluate(m, Assertion{Type: AssertFileAbsent, Path: "CMakeLists.txt"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file was rendered")
}

func TestAssertFileContains(t *testing.T) {
	m := testMap()
	vault := "Source/Demo/Public/Demo/Accounts/Vault.h"

	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileContains, Path: vault, Text: "struct Vault"}))
	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileLacks, Path: vault, Text: "TArray"}))

	err := evaluate(m, Assertion{Type: AssertFileContains, Path: vault, Text: "struct FVault"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text not found")

	err = evaluate(m, Assertion{Type: AssertFileLacks, Path: vault, Text: "struct"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text found")

	err = evaluate(m, Assertion{Type: AssertFileContains, Path: "missing.h", Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not rendered")
}

func TestAssertFileCount(t *testing.T) {
	m := testMap()

	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileCount, Path: "Source/Demo/Public/Demo/Instructions/*.h", Count: 2}))
	assert.NoError(t, evaluate(m, Assertion{Type: AssertFileCount, Path: "Source/Demo/Public/Demo/Errors/*.h", Count: 0}))

	// A single star does not cross directories.
	err := evaluate(m, Assertion{Type: AssertFileCount, Path: "Source/*.h", Count: 3})
	require.Error(t, err)
	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, "0 file(s)", assertErr.Actual)
}

func TestEvaluateAssertions_CollectsAllFailures(t *testing.T) {
	failures := EvaluateAssertions(testMap(), []Assertion{
		{Type: AssertFileExists, Path: "vcpkg.json"},
		{Type: AssertFileExists, Path: "CMakeLists.txt"},
		{Type: AssertFileAbsent, Path: "CMakeLists.txt"},
		{Type: "file_size", Path: "CMakeLists.txt"},
	})

	require.Len(t, failures, 3)
	assert.Contains(t, failures[0], "vcpkg.json")
	assert.Contains(t, failures[1], "file_absent")
	assert.Contains(t, failures[2], `unknown assertion type "file_size"`)
}

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     AssertFileExists,
		Expected: "file a.h",
		Actual:   "not rendered",
		Paths:    []string{"b.h"},
	}

	assert.Equal(t, "Assertion failed: file_exists\n  Expected: file a.h\n  Actual: not rendered\n\nRendered files:\n  b.h\n", err.Error())
}
