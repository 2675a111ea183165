package codegen

import (
	"github.com/roach88/idlcpp/internal/ir"
)

type sizeKind int

const (
	sizeNone sizeKind = iota
	sizeFixed
	sizePrefixed
)

// SizeHint is the length information an enclosing fixed-size or
// size-prefix wrapper hands to the type it wraps.
type SizeHint struct {
	kind   sizeKind
	fixed  int
	prefix *ir.NumberTypeNode
}

// FixedSize is a hint of exactly n bytes.
func FixedSize(n int) SizeHint { return SizeHint{kind: sizeFixed, fixed: n} }

// PrefixedSize is a hint of a length stored as prefix.
func PrefixedSize(prefix *ir.NumberTypeNode) SizeHint {
	return SizeHint{kind: sizePrefixed, prefix: prefix}
}

// Fixed returns the fixed size, if any.
func (h SizeHint) Fixed() (int, bool) { return h.fixed, h.kind == sizeFixed }

// Prefix returns the prefix type, if any.
func (h SizeHint) Prefix() (*ir.NumberTypeNode, bool) { return h.prefix, h.kind == sizePrefixed }

// Context is the state inherited down one type traversal.
//
// It is a value: each With method returns a modified copy and the caller's
// copy is left untouched, so siblings never see each other's changes.
type Context struct {
	// Parent is the PascalCase name of the enclosing declaration.
	Parent string
	// Nested hoists structs into separate declarations.
	Nested bool
	// Inline renders structs as anonymous bodies.
	Inline bool
	// Size applies to the immediately wrapped type only.
	Size SizeHint
	// Assignable folds array fields of the struct being visited into the
	// flavor's fixed array type so they can be copied by assignment.
	Assignable bool
}

// RootContext starts a traversal for the declaration named parent.
func RootContext(parent string) Context {
	return Context{Parent: parent}
}

// WithParent returns ctx naming a new enclosing declaration.
func (c Context) WithParent(parent string) Context {
	c.Parent = parent
	return c
}

// WithNested returns ctx with struct hoisting set.
func (c Context) WithNested(nested bool) Context {
	c.Nested = nested
	return c
}

// WithInline returns ctx with inline struct rendering set.
func (c Context) WithInline(inline bool) Context {
	c.Inline = inline
	return c
}

// WithAssignable returns ctx with assignable struct fields set.
func (c Context) WithAssignable(assignable bool) Context {
	c.Assignable = assignable
	return c
}

// WithSize returns ctx carrying a size hint.
func (c Context) WithSize(h SizeHint) Context {
	c.Size = h
	return c
}

// child returns ctx for a composite's element: the size hint is consumed by
// the composite and does not leak to its items.
func (c Context) child() Context {
	c.Size = SizeHint{}
	return c
}
