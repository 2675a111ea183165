package includes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddClassifiesPaths(t *testing.T) {
	s := New("vector", "Solana/PublicKey.h", "CoreMinimal.h")

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []Include{
		{Path: "vector", Local: false},
		{Path: "Solana/PublicKey.h", Local: true},
		{Path: "CoreMinimal.h", Local: true},
	}, s.Includes())
}

func TestAddDeduplicates(t *testing.T) {
	s := New("a.h", "b.h", "a.h")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "a.h", s.Includes()[0].Path)
}

func TestAddIncludeLastFlagWins(t *testing.T) {
	s := new(Set).
		AddInclude(Include{Path: "x.h", Local: true}).
		AddInclude(Include{Path: "x.h", Local: false})

	require.Equal(t, 1, s.Len())
	assert.False(t, s.Includes()[0].Local)
}

func TestRemove(t *testing.T) {
	s := New("a.h", "b.h", "c.h")
	s.Remove("b.h", "missing.h")

	assert.Equal(t, []Include{{Path: "a.h", Local: true}, {Path: "c.h", Local: true}}, s.Includes())
	assert.False(t, s.Contains("b.h"))
}

func TestMergeWithIsOrderIndependentForMembership(t *testing.T) {
	a := New("a.h", "vector")
	b := New("b.h", "a.h")

	ab := new(Set).MergeWith(a, b)
	ba := new(Set).MergeWith(b, a)

	assert.Equal(t, ab.Len(), ba.Len())
	for _, inc := range ab.Includes() {
		assert.True(t, ba.Contains(inc.Path), inc.Path)
	}
}

func TestMergeWithIsIdempotent(t *testing.T) {
	a := New("a.h", "vector")
	b := New("b.h", "a.h")

	once := new(Set).MergeWith(a, b)
	twice := new(Set).MergeWith(a, b).MergeWith(b, a)
	assert.Equal(t, once.Includes(), twice.Includes())

	self := once.Clone()
	self.MergeWith(self)
	assert.Equal(t, once.Includes(), self.Includes())
}

func TestAddThenRemoveIsEmpty(t *testing.T) {
	s := new(Set).Add("a.h", "vector").Remove("vector", "a.h")
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Includes())
	assert.False(t, s.Contains("a.h"))
	assert.Equal(t, "", s.Render(nil))

	s.Add("vector")
	assert.Equal(t, []Include{{Path: "vector", Local: false}}, s.Includes())
}

func TestMergeWithNil(t *testing.T) {
	s := New("a.h").MergeWith(nil, New("b.h"), nil)
	assert.Equal(t, 2, s.Len())
}

func TestNilSetReads(t *testing.T) {
	var s *Set
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains("a.h"))
	assert.Nil(t, s.Includes())
	assert.Equal(t, "", s.Render(nil))
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("a.h")
	c := s.Clone()
	c.Add("b.h")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestRender(t *testing.T) {
	s := New("Solana/PublicKey.h", "vector")
	assert.Equal(t, "#include \"Solana/PublicKey.h\"\n#include <vector>", s.Render(nil))
}

func TestRenderRemap(t *testing.T) {
	s := New("Solana/PublicKey.h", "vector")
	out := s.Render(map[string]string{"Solana/PublicKey.h": "Vendor/Key.h"})
	assert.Equal(t, "#include \"Vendor/Key.h\"\n#include <vector>", out)
}

func TestEmptyRender(t *testing.T) {
	assert.Equal(t, "", new(Set).Render(nil))
}
