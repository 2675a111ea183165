package codegen

import (
	"strconv"
	"strings"

	"github.com/roach88/idlcpp/internal/includes"
)

// TypeManifest is the result of lowering one type node.
type TypeManifest struct {
	// Type is the use-site spelling, or a full declaration for top-level
	// structs and enums.
	Type string
	// Suffix is an array declarator ("[8]") written after the field name.
	Suffix string
	// Includes are the headers Type depends on.
	Includes *includes.Set
	// NestedStructs are declarations hoisted out of Type, innermost first.
	NestedStructs []string

	dims []int
}

func newManifest(typ string, incs ...string) TypeManifest {
	set := new(includes.Set)
	for _, inc := range incs {
		if inc != "" {
			set.Add(inc)
		}
	}
	return TypeManifest{Type: typ, Includes: set}
}

func (m TypeManifest) withDims(dims []int) TypeManifest {
	m.dims = dims
	var b strings.Builder
	for _, d := range dims {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(d))
		b.WriteString("]")
	}
	m.Suffix = b.String()
	return m
}

// mergeManifests unions the includes and nested structs of ms, in order.
func mergeManifests(ms []TypeManifest) (*includes.Set, []string) {
	set := new(includes.Set)
	var nested []string
	for _, m := range ms {
		set.MergeWith(m.Includes)
		nested = append(nested, m.NestedStructs...)
	}
	return set, nested
}

// ValueManifest is the result of rendering one value node.
type ValueManifest struct {
	Includes *includes.Set
	Render   string
}
