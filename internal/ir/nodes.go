package ir

// Node is any IDL node. Kind returns the node's JSON "kind" discriminator.
type Node interface {
	Kind() string
}

// TypeNode is a sealed interface over the type nodes of the IDL.
// Struct fields and enum variants are type nodes too, so a single visitor
// can lower them.
type TypeNode interface {
	Node
	typeNode()
}

// CountNode describes how many items an array, map or set holds.
type CountNode interface {
	Node
	countNode()
}

// PdaSeedNode is a seed of a program derived address.
type PdaSeedNode interface {
	Node
	pdaSeedNode()
}

// EnumVariantTypeNode is one variant of an enum type.
type EnumVariantTypeNode interface {
	TypeNode
	VariantName() string
	enumVariant()
}

// NumberFormat is the wire format of a number, e.g. "u32".
type NumberFormat string

const (
	U8       NumberFormat = "u8"
	U16      NumberFormat = "u16"
	U32      NumberFormat = "u32"
	U64      NumberFormat = "u64"
	U128     NumberFormat = "u128"
	I8       NumberFormat = "i8"
	I16      NumberFormat = "i16"
	I32      NumberFormat = "i32"
	I64      NumberFormat = "i64"
	I128     NumberFormat = "i128"
	F32      NumberFormat = "f32"
	F64      NumberFormat = "f64"
	ShortU16 NumberFormat = "shortU16"
	USize    NumberFormat = "usize"
	ISize    NumberFormat = "isize"
)

// Endian is the byte order of a number.
type Endian string

const (
	LittleEndian Endian = "le"
	BigEndian    Endian = "be"
)

// BytesEncoding names how a byte string is written down in the IDL.
type BytesEncoding string

const (
	Base16 BytesEncoding = "base16"
	Base58 BytesEncoding = "base58"
	Base64 BytesEncoding = "base64"
	UTF8   BytesEncoding = "utf8"
)

// DefaultValueStrategy controls how an argument default is exposed.
// The empty strategy means the default is optional for the caller.
const (
	StrategyOmitted  = "omitted"
	StrategyOptional = "optional"
)

// NumberTypeNode is a fixed-width number.
type NumberTypeNode struct {
	Format NumberFormat `json:"format"`
	Endian Endian       `json:"endian"`
}

// BooleanTypeNode is a boolean stored as the number type Size.
type BooleanTypeNode struct {
	Size TypeNode
}

// FixedSizeTypeNode constrains Type to exactly Size bytes.
type FixedSizeTypeNode struct {
	Size int
	Type TypeNode
}

// SizePrefixTypeNode prefixes Type with its length encoded as Prefix.
type SizePrefixTypeNode struct {
	Prefix TypeNode
	Type   TypeNode
}

// BytesTypeNode is raw bytes whose length comes from an enclosing wrapper.
type BytesTypeNode struct{}

// StringTypeNode is text whose length comes from an enclosing wrapper.
type StringTypeNode struct {
	Encoding BytesEncoding `json:"encoding"`
}

// ArrayTypeNode is a sequence of Item.
type ArrayTypeNode struct {
	Item  TypeNode
	Count CountNode
}

// FixedCountNode is an exact item count.
type FixedCountNode struct {
	Value int `json:"value"`
}

// PrefixedCountNode stores the item count as Prefix before the items.
type PrefixedCountNode struct {
	Prefix TypeNode
}

// RemainderCountNode consumes the rest of the buffer.
type RemainderCountNode struct{}

// OptionTypeNode is an optional Item behind a presence flag of type Prefix.
type OptionTypeNode struct {
	Item   TypeNode
	Prefix TypeNode
	Fixed  bool
}

// StructTypeNode is an ordered list of named fields.
type StructTypeNode struct {
	Fields []*StructFieldTypeNode
}

// StructFieldTypeNode is a field of a StructTypeNode.
type StructFieldTypeNode struct {
	Name                 string
	Type                 TypeNode
	Docs                 []string
	DefaultValue         ValueNode
	DefaultValueStrategy string
}

// EnumTypeNode is an enum whose discriminator is stored as Size.
type EnumTypeNode struct {
	Variants []EnumVariantTypeNode
	Size     TypeNode
}

// EnumEmptyVariantTypeNode is a variant without payload.
type EnumEmptyVariantTypeNode struct {
	Name          string
	Discriminator *int
}

// EnumTupleVariantTypeNode is a variant with positional payload.
type EnumTupleVariantTypeNode struct {
	Name          string
	Tuple         TypeNode
	Discriminator *int
}

// EnumStructVariantTypeNode is a variant with named payload.
type EnumStructVariantTypeNode struct {
	Name          string
	Struct        TypeNode
	Discriminator *int
}

// MapTypeNode maps Key to Value.
type MapTypeNode struct {
	Key   TypeNode
	Value TypeNode
	Count CountNode
}

// SetTypeNode is a set of Item.
type SetTypeNode struct {
	Item  TypeNode
	Count CountNode
}

// TupleTypeNode is an ordered list of unnamed items.
type TupleTypeNode struct {
	Items []TypeNode
}

// PublicKeyTypeNode is a 32-byte account address.
type PublicKeyTypeNode struct{}

// DefinedTypeLinkNode refers to a DefinedTypeNode by name.
type DefinedTypeLinkNode struct {
	Name string `json:"name"`
}

// AmountTypeNode is a number carrying a decimal scale and a unit.
type AmountTypeNode struct {
	Number   TypeNode
	Decimals int
	Unit     string
}

// SolAmountTypeNode is a number of lamports.
type SolAmountTypeNode struct {
	Number TypeNode
}

// DateTimeTypeNode is a number holding a unix timestamp.
type DateTimeTypeNode struct {
	Number TypeNode
}

func (*NumberTypeNode) Kind() string            { return "numberTypeNode" }
func (*BooleanTypeNode) Kind() string           { return "booleanTypeNode" }
func (*FixedSizeTypeNode) Kind() string         { return "fixedSizeTypeNode" }
func (*SizePrefixTypeNode) Kind() string        { return "sizePrefixTypeNode" }
func (*BytesTypeNode) Kind() string             { return "bytesTypeNode" }
func (*StringTypeNode) Kind() string            { return "stringTypeNode" }
func (*ArrayTypeNode) Kind() string             { return "arrayTypeNode" }
func (*FixedCountNode) Kind() string            { return "fixedCountNode" }
func (*PrefixedCountNode) Kind() string         { return "prefixedCountNode" }
func (*RemainderCountNode) Kind() string        { return "remainderCountNode" }
func (*OptionTypeNode) Kind() string            { return "optionTypeNode" }
func (*StructTypeNode) Kind() string            { return "structTypeNode" }
func (*StructFieldTypeNode) Kind() string       { return "structFieldTypeNode" }
func (*EnumTypeNode) Kind() string              { return "enumTypeNode" }
func (*EnumEmptyVariantTypeNode) Kind() string  { return "enumEmptyVariantTypeNode" }
func (*EnumTupleVariantTypeNode) Kind() string  { return "enumTupleVariantTypeNode" }
func (*EnumStructVariantTypeNode) Kind() string { return "enumStructVariantTypeNode" }
func (*MapTypeNode) Kind() string               { return "mapTypeNode" }
func (*SetTypeNode) Kind() string               { return "setTypeNode" }
func (*TupleTypeNode) Kind() string             { return "tupleTypeNode" }
func (*PublicKeyTypeNode) Kind() string         { return "publicKeyTypeNode" }
func (*DefinedTypeLinkNode) Kind() string       { return "definedTypeLinkNode" }
func (*AmountTypeNode) Kind() string            { return "amountTypeNode" }
func (*SolAmountTypeNode) Kind() string         { return "solAmountTypeNode" }
func (*DateTimeTypeNode) Kind() string          { return "dateTimeTypeNode" }

func (*NumberTypeNode) typeNode()            {}
func (*BooleanTypeNode) typeNode()           {}
func (*FixedSizeTypeNode) typeNode()         {}
func (*SizePrefixTypeNode) typeNode()        {}
func (*BytesTypeNode) typeNode()             {}
func (*StringTypeNode) typeNode()            {}
func (*ArrayTypeNode) typeNode()             {}
func (*OptionTypeNode) typeNode()            {}
func (*StructTypeNode) typeNode()            {}
func (*StructFieldTypeNode) typeNode()       {}
func (*EnumTypeNode) typeNode()              {}
func (*EnumEmptyVariantTypeNode) typeNode()  {}
func (*EnumTupleVariantTypeNode) typeNode()  {}
func (*EnumStructVariantTypeNode) typeNode() {}
func (*MapTypeNode) typeNode()               {}
func (*SetTypeNode) typeNode()               {}
func (*TupleTypeNode) typeNode()             {}
func (*PublicKeyTypeNode) typeNode()         {}
func (*DefinedTypeLinkNode) typeNode()       {}
func (*AmountTypeNode) typeNode()            {}
func (*SolAmountTypeNode) typeNode()         {}
func (*DateTimeTypeNode) typeNode()          {}

func (*FixedCountNode) countNode()     {}
func (*PrefixedCountNode) countNode()  {}
func (*RemainderCountNode) countNode() {}

func (v *EnumEmptyVariantTypeNode) VariantName() string  { return v.Name }
func (v *EnumTupleVariantTypeNode) VariantName() string  { return v.Name }
func (v *EnumStructVariantTypeNode) VariantName() string { return v.Name }

func (*EnumEmptyVariantTypeNode) enumVariant()  {}
func (*EnumTupleVariantTypeNode) enumVariant()  {}
func (*EnumStructVariantTypeNode) enumVariant() {}

// Number returns a little-endian number type node.
func Number(format NumberFormat) *NumberTypeNode {
	return &NumberTypeNode{Format: format, Endian: LittleEndian}
}
