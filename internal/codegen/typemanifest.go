package codegen

import (
	"strconv"
	"strings"

	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/ir"
	"github.com/roach88/idlcpp/internal/naming"
)

// TypeManifestVisitor lowers IDL type nodes to C++ type spellings.
//
// The visitor itself holds only configuration. Traversal state travels in
// the Context argument, so one visitor may lower any number of entities.
type TypeManifestVisitor struct {
	flavor *flavor.Flavor
	plugin string
	values *ValueRenderer
}

// NewTypeManifestVisitor returns a visitor for flavor f. plugin is the
// PascalCase module name used in include paths of defined types.
func NewTypeManifestVisitor(f *flavor.Flavor, plugin string) *TypeManifestVisitor {
	return &TypeManifestVisitor{flavor: f, plugin: plugin, values: NewValueRenderer(f, plugin)}
}

// VisitAccount lowers an account's data under the account's name.
func (v *TypeManifestVisitor) VisitAccount(a *ir.AccountNode) (TypeManifest, error) {
	return v.Visit(a.Data, RootContext(naming.Pascal(a.Name)))
}

// VisitDefinedType lowers a defined type under its own name.
func (v *TypeManifestVisitor) VisitDefinedType(d *ir.DefinedTypeNode) (TypeManifest, error) {
	return v.Visit(d.Type, RootContext(naming.Pascal(d.Name)))
}

// Visit lowers node within ctx.
func (v *TypeManifestVisitor) Visit(node ir.TypeNode, ctx Context) (TypeManifest, error) {
	switch n := node.(type) {
	case *ir.NumberTypeNode:
		return v.visitNumber(n)
	case *ir.AmountTypeNode:
		return v.Visit(n.Number, ctx)
	case *ir.SolAmountTypeNode:
		return v.Visit(n.Number, ctx)
	case *ir.DateTimeTypeNode:
		return v.Visit(n.Number, ctx)
	case *ir.BooleanTypeNode:
		return v.visitBoolean(n)
	case *ir.FixedSizeTypeNode:
		return v.Visit(n.Type, ctx.WithSize(FixedSize(n.Size)))
	case *ir.SizePrefixTypeNode:
		prefix := ir.ResolveNestedNumber(n.Prefix)
		if prefix == nil {
			return TypeManifest{}, unsupported("size prefix of kind %s", n.Prefix.Kind())
		}
		return v.Visit(n.Type, ctx.WithSize(PrefixedSize(prefix)))
	case *ir.BytesTypeNode:
		return v.visitBytes(ctx)
	case *ir.StringTypeNode:
		return v.visitString(ctx)
	case *ir.ArrayTypeNode:
		return v.visitArray(n, ctx)
	case *ir.OptionTypeNode:
		return v.visitOption(n, ctx)
	case *ir.StructTypeNode:
		return v.visitStruct(n, ctx)
	case *ir.StructFieldTypeNode:
		return v.visitStructField(n, ctx)
	case *ir.EnumTypeNode:
		return v.visitEnum(n, ctx)
	case *ir.EnumEmptyVariantTypeNode:
		return v.visitEmptyVariant(n, ctx)
	case *ir.EnumStructVariantTypeNode:
		return v.visitStructVariant(n, ctx)
	case *ir.EnumTupleVariantTypeNode:
		return v.visitTupleVariant(n, ctx)
	case *ir.TupleTypeNode:
		return v.visitTuple(n, ctx)
	case *ir.PublicKeyTypeNode:
		return newManifest(v.flavor.PublicKey.Apply(), v.flavor.PublicKey.Include), nil
	case *ir.DefinedTypeLinkNode:
		name := naming.Pascal(n.Name)
		return newManifest(v.flavor.StructName(name), v.TypeInclude(n.Name)), nil
	case *ir.MapTypeNode:
		return TypeManifest{}, unsupported("map types")
	case *ir.SetTypeNode:
		return TypeManifest{}, unsupported("set types")
	case nil:
		return TypeManifest{}, unsupported("missing type node")
	default:
		return TypeManifest{}, unsupported("type node %s", node.Kind())
	}
}

// TypeInclude is the header declaring the defined type name.
func (v *TypeManifestVisitor) TypeInclude(name string) string {
	return v.plugin + "/Types/" + naming.Pascal(name) + ".h"
}

// Materialize folds an array suffix into the type, for positions where a
// declarator cannot follow a name (template arguments, aliases).
func (v *TypeManifestVisitor) Materialize(m TypeManifest) TypeManifest {
	if len(m.dims) == 0 {
		return m
	}
	typ := m.Type
	for i := len(m.dims) - 1; i >= 0; i-- {
		typ = v.flavor.FixedArray.Apply(typ, m.dims[i])
	}
	out := m
	out.Type = typ
	out.Includes = m.Includes.Clone().Add(v.flavor.FixedArray.Include)
	return out.withDims(nil)
}

func (v *TypeManifestVisitor) visitNumber(n *ir.NumberTypeNode) (TypeManifest, error) {
	if n.Endian != ir.LittleEndian {
		return TypeManifest{}, unsupported("number endianness %q for %s", n.Endian, n.Format)
	}
	t, ok := v.flavor.NumberType(n.Format)
	if !ok {
		return TypeManifest{}, unsupported("number format %s", n.Format)
	}
	return newManifest(t, v.flavor.NumberInclude), nil
}

func (v *TypeManifestVisitor) visitBoolean(n *ir.BooleanTypeNode) (TypeManifest, error) {
	size := ir.ResolveNestedNumber(n.Size)
	if size == nil || size.Format != ir.U8 || size.Endian != ir.LittleEndian {
		return TypeManifest{}, unsupported("boolean size %s", describeNumber(size))
	}
	return newManifest(v.flavor.Bool), nil
}

// visitBytes lowers bytes as an array of u8 sized by the inherited hint.
func (v *TypeManifestVisitor) visitBytes(ctx Context) (TypeManifest, error) {
	var count ir.CountNode = &ir.RemainderCountNode{}
	if n, ok := ctx.Size.Fixed(); ok {
		count = &ir.FixedCountNode{Value: n}
	} else if p, ok := ctx.Size.Prefix(); ok {
		count = &ir.PrefixedCountNode{Prefix: p}
	}
	return v.visitArray(&ir.ArrayTypeNode{Item: ir.Number(ir.U8), Count: count}, ctx.child())
}

func (v *TypeManifestVisitor) visitString(ctx Context) (TypeManifest, error) {
	if n, ok := ctx.Size.Fixed(); ok {
		return TypeManifest{}, unsupported("fixed-size strings (%d bytes)", n)
	}
	p, ok := ctx.Size.Prefix()
	if !ok {
		return TypeManifest{}, unsupported("strings without a size prefix")
	}
	if p.Endian != ir.LittleEndian {
		return TypeManifest{}, unsupported("string prefix %s", describeNumber(p))
	}
	switch p.Format {
	case ir.U32:
		return newManifest(v.flavor.String.Apply(), v.flavor.String.Include), nil
	default:
		return TypeManifest{}, unsupported("string prefix %s", describeNumber(p))
	}
}

func (v *TypeManifestVisitor) visitArray(n *ir.ArrayTypeNode, ctx Context) (TypeManifest, error) {
	item, err := v.Visit(n.Item, ctx.child())
	if err != nil {
		return TypeManifest{}, err
	}

	switch c := n.Count.(type) {
	case *ir.FixedCountNode:
		return item.withDims(append([]int{c.Value}, item.dims...)), nil
	case *ir.PrefixedCountNode:
		p := ir.ResolveNestedNumber(c.Prefix)
		if p == nil || p.Endian != ir.LittleEndian {
			return TypeManifest{}, unsupported("array prefix %s", describeNumber(p))
		}
		switch p.Format {
		case ir.U8, ir.U16, ir.U32, ir.U64:
		default:
			return TypeManifest{}, unsupported("array prefix %s", describeNumber(p))
		}
		return v.sequence(item), nil
	case *ir.RemainderCountNode:
		return v.sequence(item), nil
	case nil:
		return TypeManifest{}, unsupported("array without count")
	default:
		return TypeManifest{}, unsupported("array count %s", c.Kind())
	}
}

func (v *TypeManifestVisitor) sequence(item TypeManifest) TypeManifest {
	item = v.Materialize(item)
	out := item
	out.Type = v.flavor.Sequence.Apply(item.Type)
	out.Includes = item.Includes.Clone().Add(v.flavor.Sequence.Include)
	return out
}

func (v *TypeManifestVisitor) visitOption(n *ir.OptionTypeNode, ctx Context) (TypeManifest, error) {
	p := ir.ResolveNestedNumber(n.Prefix)
	if p == nil || p.Format != ir.U8 || p.Endian != ir.LittleEndian {
		return TypeManifest{}, unsupported("option prefix %s", describeNumber(p))
	}
	item, err := v.Visit(n.Item, ctx.child())
	if err != nil {
		return TypeManifest{}, err
	}
	item = v.Materialize(item)
	out := item
	out.Type = v.flavor.Optional.Apply(item.Type)
	out.Includes = item.Includes.Clone().Add(v.flavor.Optional.Include)
	return out, nil
}

func (v *TypeManifestVisitor) visitStruct(n *ir.StructTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("struct")
	}
	fields := make([]TypeManifest, 0, len(n.Fields))
	for _, f := range n.Fields {
		m, err := v.visitStructField(f, ctx.child())
		if err != nil {
			return TypeManifest{}, err
		}
		fields = append(fields, m)
	}
	incs, nested := mergeManifests(fields)
	body := make([]string, len(fields))
	for i, f := range fields {
		body[i] = f.Type
	}
	name := v.flavor.StructName(ctx.Parent)

	switch {
	case ctx.Inline:
		return TypeManifest{Type: block("", body), Includes: incs, NestedStructs: nested}, nil
	case ctx.Nested:
		decl := block("struct "+name, body) + ";"
		return TypeManifest{Type: name, Includes: incs, NestedStructs: append(nested, decl)}, nil
	default:
		return TypeManifest{Type: block("struct "+name, body) + ";", Includes: incs, NestedStructs: nested}, nil
	}
}

func (v *TypeManifestVisitor) visitStructField(n *ir.StructFieldTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("struct field")
	}
	name := naming.Pascal(n.Name)
	inner := ctx.WithParent(ctx.Parent + name).WithNested(true).WithInline(false).WithAssignable(false).child()
	m, err := v.Visit(n.Type, inner)
	if err != nil {
		return TypeManifest{}, errorsWithField(err, n.Name)
	}

	init := ""
	omitted := n.DefaultValueStrategy == ir.StrategyOmitted && ir.IsLiteral(n.DefaultValue)
	if ctx.Assignable && !omitted {
		m = v.Materialize(m)
	}
	if omitted {
		val, err := v.values.Render(n.DefaultValue, false)
		if err != nil {
			return TypeManifest{}, errorsWithField(err, n.Name)
		}
		m.Includes = m.Includes.Clone().MergeWith(val.Includes)
		init = " = " + val.Render
	}

	out := m
	out.Type = docblock(n.Docs) + m.Type + " " + name + m.Suffix + init + ";"
	return out.withDims(nil), nil
}

func (v *TypeManifestVisitor) visitEnum(n *ir.EnumTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("enum")
	}
	if !ir.IsScalarEnum(n) {
		return TypeManifest{}, unsupported("data-carrying enum %s", ctx.Parent)
	}
	size := ir.ResolveNestedNumber(n.Size)
	if size == nil || size.Endian != ir.LittleEndian {
		return TypeManifest{}, unsupported("enum size %s", describeNumber(size))
	}
	base, ok := v.flavor.NumberType(size.Format)
	if !ok {
		return TypeManifest{}, unsupported("enum size %s", describeNumber(size))
	}

	body := make([]string, 0, len(n.Variants))
	for _, variant := range n.Variants {
		m, err := v.Visit(variant, ctx.child().WithNested(false))
		if err != nil {
			return TypeManifest{}, err
		}
		body = append(body, m.Type)
	}
	name := v.flavor.StructName(ctx.Parent)
	decl := block("enum class "+name+" : "+base, body) + ";"
	incs := newManifest("", v.flavor.NumberInclude).Includes

	if ctx.Nested {
		return TypeManifest{Type: name, Includes: incs, NestedStructs: []string{decl}}, nil
	}
	return TypeManifest{Type: decl, Includes: incs}, nil
}

func (v *TypeManifestVisitor) visitEmptyVariant(n *ir.EnumEmptyVariantTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("enum variant")
	}
	name := naming.Pascal(n.Name)
	if n.Discriminator != nil {
		name += " = " + strconv.Itoa(*n.Discriminator)
	}
	return newManifest(name + ","), nil
}

func (v *TypeManifestVisitor) visitStructVariant(n *ir.EnumStructVariantTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("enum struct variant")
	}
	name := naming.Pascal(n.Name)
	m, err := v.Visit(n.Struct, ctx.WithParent(ctx.Parent+name).WithInline(true).WithNested(false).child())
	if err != nil {
		return TypeManifest{}, err
	}
	m.Type = name + " " + m.Type + ","
	return m, nil
}

func (v *TypeManifestVisitor) visitTupleVariant(n *ir.EnumTupleVariantTypeNode, ctx Context) (TypeManifest, error) {
	if ctx.Parent == "" {
		return TypeManifest{}, missingContext("enum tuple variant")
	}
	name := naming.Pascal(n.Name)
	m, err := v.Visit(n.Tuple, ctx.WithParent(ctx.Parent+name).WithInline(false).child())
	if err != nil {
		return TypeManifest{}, err
	}
	m.Type = name + " " + m.Type + ","
	return m, nil
}

func (v *TypeManifestVisitor) visitTuple(n *ir.TupleTypeNode, ctx Context) (TypeManifest, error) {
	items := make([]TypeManifest, 0, len(n.Items))
	types := make([]string, 0, len(n.Items))
	for i, item := range n.Items {
		ictx := ctx.child()
		if ctx.Parent != "" {
			ictx = ictx.WithParent(ctx.Parent + "Item" + strconv.Itoa(i))
		}
		m, err := v.Visit(item, ictx)
		if err != nil {
			return TypeManifest{}, err
		}
		m = v.Materialize(m)
		items = append(items, m)
		types = append(types, m.Type)
	}
	incs, nested := mergeManifests(items)
	incs.Add(v.flavor.Tuple.Include)
	return TypeManifest{
		Type:          v.flavor.Tuple.Apply(strings.Join(types, ", ")),
		Includes:      incs,
		NestedStructs: nested,
	}, nil
}

// block renders head followed by a braced, tab-indented body.
func block(head string, lines []string) string {
	var b strings.Builder
	if head != "" {
		b.WriteString(head)
		b.WriteString("\n")
	}
	b.WriteString("{\n")
	for _, l := range lines {
		for _, sub := range strings.Split(l, "\n") {
			if sub == "" {
				b.WriteString("\n")
				continue
			}
			b.WriteString("\t")
			b.WriteString(sub)
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

// docblock renders IDL docs as line comments, one per doc string.
func docblock(docs []string) string {
	if len(docs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range docs {
		b.WriteString("// ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	return b.String()
}

func describeNumber(n *ir.NumberTypeNode) string {
	if n == nil {
		return "of non-number type"
	}
	return string(n.Format) + "/" + string(n.Endian)
}
