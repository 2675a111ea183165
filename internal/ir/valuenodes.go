package ir

import "encoding/json"

// ValueNode is a sealed interface over literal and contextual values.
type ValueNode interface {
	Node
	valueNode()
}

// ArrayValueNode is an array literal.
type ArrayValueNode struct {
	Items []ValueNode
}

// BooleanValueNode is a boolean literal.
type BooleanValueNode struct {
	Boolean bool `json:"boolean"`
}

// BytesValueNode is a byte string written in Encoding.
type BytesValueNode struct {
	Data     string        `json:"data"`
	Encoding BytesEncoding `json:"encoding"`
}

// ConstantValueNode is Value serialised as Type.
type ConstantValueNode struct {
	Type  TypeNode
	Value ValueNode
}

// EnumValueNode selects Variant of Enum, with an optional struct or tuple
// payload.
type EnumValueNode struct {
	Enum    *DefinedTypeLinkNode
	Variant string
	Value   ValueNode
}

// MapValueNode is a map literal.
type MapValueNode struct {
	Entries []*MapEntryValueNode
}

// MapEntryValueNode is one entry of a MapValueNode.
type MapEntryValueNode struct {
	Key   ValueNode
	Value ValueNode
}

// NoneValueNode is an absent optional.
type NoneValueNode struct{}

// NumberValueNode is a number literal. The original text is kept so large
// integers survive decoding.
type NumberValueNode struct {
	Number json.Number `json:"number"`
}

// PublicKeyValueNode is a base58 address literal.
type PublicKeyValueNode struct {
	PublicKey  string `json:"publicKey"`
	Identifier string `json:"identifier,omitempty"`
}

// SetValueNode is a set literal.
type SetValueNode struct {
	Items []ValueNode
}

// SomeValueNode is a present optional.
type SomeValueNode struct {
	Value ValueNode
}

// StringValueNode is a string literal.
type StringValueNode struct {
	String string `json:"string"`
}

// StructValueNode is a struct literal.
type StructValueNode struct {
	Fields []*StructFieldValueNode
}

// StructFieldValueNode is one field of a StructValueNode.
type StructFieldValueNode struct {
	Name  string
	Value ValueNode
}

// TupleValueNode is a tuple literal.
type TupleValueNode struct {
	Items []ValueNode
}

// ContextualValueNode is a value resolved at call time rather than written
// as a literal: the program id, another account, an argument, the payer and
// so on. NodeKind keeps the original discriminator.
type ContextualValueNode struct {
	NodeKind string
	Name     string
}

func (*ArrayValueNode) Kind() string        { return "arrayValueNode" }
func (*BooleanValueNode) Kind() string      { return "booleanValueNode" }
func (*BytesValueNode) Kind() string        { return "bytesValueNode" }
func (*ConstantValueNode) Kind() string     { return "constantValueNode" }
func (*EnumValueNode) Kind() string         { return "enumValueNode" }
func (*MapValueNode) Kind() string          { return "mapValueNode" }
func (*MapEntryValueNode) Kind() string     { return "mapEntryValueNode" }
func (*NoneValueNode) Kind() string         { return "noneValueNode" }
func (*NumberValueNode) Kind() string       { return "numberValueNode" }
func (*PublicKeyValueNode) Kind() string    { return "publicKeyValueNode" }
func (*SetValueNode) Kind() string          { return "setValueNode" }
func (*SomeValueNode) Kind() string         { return "someValueNode" }
func (*StringValueNode) Kind() string       { return "stringValueNode" }
func (*StructValueNode) Kind() string       { return "structValueNode" }
func (*StructFieldValueNode) Kind() string  { return "structFieldValueNode" }
func (*TupleValueNode) Kind() string        { return "tupleValueNode" }
func (v *ContextualValueNode) Kind() string { return v.NodeKind }

func (*ArrayValueNode) valueNode()       {}
func (*BooleanValueNode) valueNode()     {}
func (*BytesValueNode) valueNode()       {}
func (*ConstantValueNode) valueNode()    {}
func (*EnumValueNode) valueNode()        {}
func (*MapValueNode) valueNode()         {}
func (*MapEntryValueNode) valueNode()    {}
func (*NoneValueNode) valueNode()        {}
func (*NumberValueNode) valueNode()      {}
func (*PublicKeyValueNode) valueNode()   {}
func (*SetValueNode) valueNode()         {}
func (*SomeValueNode) valueNode()        {}
func (*StringValueNode) valueNode()      {}
func (*StructValueNode) valueNode()      {}
func (*StructFieldValueNode) valueNode() {}
func (*TupleValueNode) valueNode()       {}
func (*ContextualValueNode) valueNode()  {}

// contextualValueKinds are the discriminators decoded into
// ContextualValueNode.
var contextualValueKinds = map[string]bool{
	"programIdValueNode":   true,
	"accountValueNode":     true,
	"argumentValueNode":    true,
	"pdaValueNode":         true,
	"identityValueNode":    true,
	"payerValueNode":       true,
	"accountBumpValueNode": true,
	"resolverValueNode":    true,
	"conditionalValueNode": true,
	"programLinkNode":      true,
}

// IsLiteral reports whether v can be written as a source literal.
func IsLiteral(v ValueNode) bool {
	if v == nil {
		return false
	}
	_, ctx := v.(*ContextualValueNode)
	return !ctx
}

// IsProgramID reports whether v is the program id placeholder.
func IsProgramID(v ValueNode) bool {
	c, ok := v.(*ContextualValueNode)
	return ok && c.NodeKind == "programIdValueNode"
}
