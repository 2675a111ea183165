package codegen

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/includes"
	"github.com/roach88/idlcpp/internal/ir"
	"github.com/roach88/idlcpp/internal/naming"
)

// publicKeyLen is the decoded size of a Solana address.
const publicKeyLen = 32

// ValueRenderer renders IDL literal values as C++ expressions.
type ValueRenderer struct {
	flavor *flavor.Flavor
	plugin string
}

// NewValueRenderer returns a renderer for flavor f.
func NewValueRenderer(f *flavor.Flavor, plugin string) *ValueRenderer {
	return &ValueRenderer{flavor: f, plugin: plugin}
}

// Render renders node. With shortStrings, string values render as bare
// quoted literals instead of the flavor's string constructor.
func (r *ValueRenderer) Render(node ir.ValueNode, shortStrings bool) (ValueManifest, error) {
	switch n := node.(type) {
	case *ir.NumberValueNode:
		return literal(n.Number.String()), nil
	case *ir.BooleanValueNode:
		return literal(strconv.FormatBool(n.Boolean)), nil
	case *ir.StringValueNode:
		return r.renderString(n.String, shortStrings), nil
	case *ir.BytesValueNode:
		data, err := decodeBytes(n.Encoding, n.Data)
		if err != nil {
			return ValueManifest{}, err
		}
		return r.Render(bytesToArray(data), shortStrings)
	case *ir.ArrayValueNode:
		items, incs, err := r.renderAll(n.Items, shortStrings)
		if err != nil {
			return ValueManifest{}, err
		}
		return ValueManifest{Includes: incs, Render: "{" + strings.Join(items, ", ") + "}"}, nil
	case *ir.TupleValueNode:
		items, incs, err := r.renderAll(n.Items, shortStrings)
		if err != nil {
			return ValueManifest{}, err
		}
		incs.Add(r.flavor.Tuple.Include)
		return ValueManifest{Includes: incs, Render: fmt.Sprintf(r.flavor.TupleLiteral, strings.Join(items, ", "))}, nil
	case *ir.StructValueNode:
		fields := make([]ir.ValueNode, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = f
		}
		items, incs, err := r.renderAll(fields, shortStrings)
		if err != nil {
			return ValueManifest{}, err
		}
		if len(items) == 0 {
			return ValueManifest{Includes: incs, Render: "{}"}, nil
		}
		return ValueManifest{Includes: incs, Render: "{ " + strings.Join(items, ", ") + " }"}, nil
	case *ir.StructFieldValueNode:
		m, err := r.Render(n.Value, shortStrings)
		if err != nil {
			return ValueManifest{}, err
		}
		m.Render = "." + naming.Pascal(n.Name) + " = " + m.Render
		return m, nil
	case *ir.EnumValueNode:
		return r.renderEnum(n, shortStrings)
	case *ir.SomeValueNode:
		m, err := r.Render(n.Value, shortStrings)
		if err != nil {
			return ValueManifest{}, err
		}
		m.Includes = m.Includes.Clone().Add(r.flavor.Optional.Include)
		m.Render = fmt.Sprintf(r.flavor.SomeLiteral, m.Render)
		return m, nil
	case *ir.PublicKeyValueNode:
		return r.renderPublicKey(n.PublicKey)
	case *ir.ConstantValueNode:
		return r.renderConstant(n, shortStrings)
	case *ir.MapValueNode:
		return ValueManifest{}, unsupported("map values")
	case *ir.MapEntryValueNode:
		return ValueManifest{}, unsupported("map entry values")
	case *ir.SetValueNode:
		return ValueManifest{}, unsupported("set values")
	case *ir.NoneValueNode:
		return ValueManifest{}, unsupported("none values")
	case *ir.ContextualValueNode:
		return ValueManifest{}, unsupported("contextual value %s as a literal", n.NodeKind)
	case nil:
		return ValueManifest{}, unsupported("missing value node")
	default:
		return ValueManifest{}, unsupported("value node %s", node.Kind())
	}
}

func literal(s string) ValueManifest {
	return ValueManifest{Includes: new(includes.Set), Render: s}
}

func (r *ValueRenderer) renderAll(nodes []ir.ValueNode, shortStrings bool) ([]string, *includes.Set, error) {
	out := make([]string, 0, len(nodes))
	incs := new(includes.Set)
	for _, n := range nodes {
		m, err := r.Render(n, shortStrings)
		if err != nil {
			return nil, nil, err
		}
		incs.MergeWith(m.Includes)
		out = append(out, m.Render)
	}
	return out, incs, nil
}

func (r *ValueRenderer) renderString(s string, short bool) ValueManifest {
	quoted := QuoteString(s)
	if short {
		return literal(quoted)
	}
	m := literal(fmt.Sprintf(r.flavor.StringLiteral, quoted))
	m.Includes.Add(r.flavor.String.Include)
	return m
}

func (r *ValueRenderer) renderPublicKey(key string) (ValueManifest, error) {
	if err := ValidatePublicKey(key); err != nil {
		return ValueManifest{}, err
	}
	m := literal(fmt.Sprintf(r.flavor.PublicKeyLiteral, QuoteString(key)))
	m.Includes.Add(r.flavor.PublicKey.Include)
	return m, nil
}

func (r *ValueRenderer) renderEnum(n *ir.EnumValueNode, shortStrings bool) (ValueManifest, error) {
	if n.Enum == nil {
		return ValueManifest{}, unsupported("enum value without enum link")
	}
	enum := naming.Pascal(n.Enum.Name)
	head := r.flavor.StructName(enum) + "::" + naming.Pascal(n.Variant)
	incs := new(includes.Set).Add(r.plugin + "/Types/" + enum + ".h")
	if n.Value == nil {
		return ValueManifest{Includes: incs, Render: head}, nil
	}
	payload, err := r.Render(n.Value, shortStrings)
	if err != nil {
		return ValueManifest{}, err
	}
	return ValueManifest{Includes: incs.MergeWith(payload.Includes), Render: head + " " + payload.Render}, nil
}

// renderConstant renders a value serialised as a specific type. Byte
// strings and strings become byte arrays; numbers become a call to the
// module's byte-order helper.
func (r *ValueRenderer) renderConstant(n *ir.ConstantValueNode, shortStrings bool) (ValueManifest, error) {
	if _, ok := n.Value.(*ir.BytesValueNode); ok {
		return r.Render(n.Value, shortStrings)
	}
	switch t := n.Type.(type) {
	case *ir.StringTypeNode:
		if s, ok := n.Value.(*ir.StringValueNode); ok {
			return r.Render(&ir.BytesValueNode{Data: s.String, Encoding: t.Encoding}, shortStrings)
		}
	case *ir.PublicKeyTypeNode:
		if k, ok := n.Value.(*ir.PublicKeyValueNode); ok {
			return r.renderPublicKey(k.PublicKey)
		}
	}
	if num := ir.ResolveNestedNumber(n.Type); num != nil {
		if v, ok := n.Value.(*ir.NumberValueNode); ok {
			t, ok := r.flavor.NumberType(num.Format)
			if !ok {
				return ValueManifest{}, unsupported("constant of number format %s", num.Format)
			}
			fn := "ToLeBytes"
			if num.Endian == ir.BigEndian {
				fn = "ToBeBytes"
			}
			m := literal(fmt.Sprintf("%s<%s>(%s)", fn, t, v.Number.String()))
			m.Includes.Add(r.plugin + ".h")
			return m, nil
		}
	}
	kind := "nil"
	if n.Value != nil {
		kind = n.Value.Kind()
	}
	typeKind := "nil"
	if n.Type != nil {
		typeKind = n.Type.Kind()
	}
	return ValueManifest{}, unsupported("constant value %s of type %s", kind, typeKind)
}

// QuoteString returns s as a double-quoted C++ string literal.
func QuoteString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// ValidatePublicKey checks that key is base58 for exactly 32 bytes.
func ValidatePublicKey(key string) error {
	raw, err := base58.Decode(key)
	if err != nil {
		return invalidValue("public key %q is not base58: %v", key, err)
	}
	if len(raw) != publicKeyLen {
		return invalidValue("public key %q decodes to %d bytes, want %d", key, len(raw), publicKeyLen)
	}
	return nil
}

func decodeBytes(enc ir.BytesEncoding, data string) ([]byte, error) {
	switch enc {
	case ir.UTF8, "":
		return []byte(data), nil
	case ir.Base16:
		b, err := hex.DecodeString(data)
		if err != nil {
			return nil, invalidValue("base16 bytes %q: %v", data, err)
		}
		return b, nil
	case ir.Base58:
		b, err := base58.Decode(data)
		if err != nil {
			return nil, invalidValue("base58 bytes %q: %v", data, err)
		}
		return b, nil
	case ir.Base64:
		b, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, invalidValue("base64 bytes %q: %v", data, err)
		}
		return b, nil
	default:
		return nil, unsupported("bytes encoding %q", enc)
	}
}

func bytesToArray(data []byte) *ir.ArrayValueNode {
	items := make([]ir.ValueNode, len(data))
	for i, b := range data {
		items[i] = &ir.NumberValueNode{Number: json.Number(strconv.Itoa(int(b)))}
	}
	return &ir.ArrayValueNode{Items: items}
}
