package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlavorsText(t *testing.T) {
	out, _, err := execute(t, "flavors")
	require.NoError(t, err)
	assert.Contains(t, out, "Flavor")
	assert.Contains(t, out, "unreal5")
	assert.Contains(t, out, "stl20")
}

func TestFlavorsJSON(t *testing.T) {
	out, _, err := execute(t, "flavors", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   []FlavorInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)

	byName := map[string]FlavorInfo{}
	for _, f := range resp.Data {
		byName[f.Name] = f
	}
	assert.Equal(t, "F", byName["unreal5"].StructPrefix)
	assert.Equal(t, []string{"Module.uplugin", "Source/Module/Module.Build.cs"}, byName["unreal5"].Scaffold)
	assert.Equal(t, "", byName["stl20"].StructPrefix)
	assert.Equal(t, []string{"CMakeLists.txt", "vcpkg.json"}, byName["stl20"].Scaffold)
}
