package flavor

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/idlcpp/internal/ir"
)

func TestGet(t *testing.T) {
	for _, name := range []string{Unreal5, STL20, "UNREAL5"} {
		f, err := Get(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, f.Scaffold)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("rust")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownFlavor))
	assert.Contains(t, errors.FlattenHints(err), "stl20")
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{STL20, Unreal5}, Names())
}

func TestEveryFlavorCoversIntegerFormats(t *testing.T) {
	formats := []ir.NumberFormat{ir.U8, ir.U16, ir.U32, ir.U64, ir.U128, ir.I8, ir.I16, ir.I32, ir.I64, ir.I128, ir.USize, ir.ISize}
	for _, name := range Names() {
		f, err := Get(name)
		require.NoError(t, err)
		for _, format := range formats {
			_, ok := f.NumberType(format)
			assert.True(t, ok, "%s: %s", name, format)
		}
		_, ok := f.NumberType(ir.ShortU16)
		assert.False(t, ok, name)
	}
}

func TestTypeRefApply(t *testing.T) {
	f, err := Get(Unreal5)
	require.NoError(t, err)

	assert.Equal(t, "TArray<uint8>", f.Sequence.Apply("uint8"))
	assert.Equal(t, "TStaticArray<uint8, 8>", f.FixedArray.Apply("uint8", 8))
	assert.Equal(t, "FString", f.String.Apply())
	assert.Equal(t, "FVault", f.StructName("Vault"))
}

func TestScaffoldFor(t *testing.T) {
	f, err := Get(Unreal5)
	require.NoError(t, err)

	files := f.ScaffoldFor("SolanaProgram")
	require.Len(t, files, 2)
	assert.Equal(t, "SolanaProgram.uplugin", files[0].Path)
	assert.Equal(t, "Source/SolanaProgram/SolanaProgram.Build.cs", files[1].Path)

	stl, err := Get(STL20)
	require.NoError(t, err)
	assert.Equal(t, "CMakeLists.txt", stl.ScaffoldFor("SolanaProgram")[0].Path)
	assert.Equal(t, "", stl.StructName(""))
}
