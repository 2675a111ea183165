package ir

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// ErrUnknownKind marks a node whose "kind" the decoder does not know.
var ErrUnknownKind = errors.New("unknown node kind")

// DecodeRoot decodes a root-node IDL document.
func DecodeRoot(data []byte) (*RootNode, error) {
	var w struct {
		Kind               string            `json:"kind"`
		Standard           string            `json:"standard"`
		Version            string            `json:"version"`
		Program            json.RawMessage   `json:"program"`
		AdditionalPrograms []json.RawMessage `json:"additionalPrograms"`
	}
	if err := decodeStrict(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding root")
	}
	if w.Kind != "rootNode" {
		return nil, errors.Newf("expected rootNode, got %q", w.Kind)
	}
	root := &RootNode{Standard: w.Standard, Version: w.Version}
	if len(w.Program) == 0 {
		return nil, errors.New("rootNode has no program")
	}
	p, err := decodeProgram(w.Program)
	if err != nil {
		return nil, err
	}
	root.Program = p
	for i, raw := range w.AdditionalPrograms {
		p, err := decodeProgram(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "additionalPrograms[%d]", i)
		}
		root.AdditionalPrograms = append(root.AdditionalPrograms, p)
	}
	return root, nil
}

// DecodeTypeNode decodes a single type node.
func DecodeTypeNode(data []byte) (TypeNode, error) {
	return decodeType(data)
}

// DecodeValueNode decodes a single value node.
func DecodeValueNode(data []byte) (ValueNode, error) {
	return decodeValue(data)
}

// decodeStrict unmarshals keeping numbers as json.Number.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func kindOf(data []byte) (string, error) {
	var k struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &k); err != nil {
		return "", err
	}
	if k.Kind == "" {
		return "", errors.New("node has no kind")
	}
	return k.Kind, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeProgram(data []byte) (*ProgramNode, error) {
	var w struct {
		Kind         string            `json:"kind"`
		Name         string            `json:"name"`
		PublicKey    string            `json:"publicKey"`
		Version      string            `json:"version"`
		Origin       string            `json:"origin"`
		Docs         []string          `json:"docs"`
		Accounts     []json.RawMessage `json:"accounts"`
		Instructions []json.RawMessage `json:"instructions"`
		DefinedTypes []json.RawMessage `json:"definedTypes"`
		Pdas         []json.RawMessage `json:"pdas"`
		Errors       []json.RawMessage `json:"errors"`
		Internal     bool              `json:"internal"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding program")
	}
	if w.Kind != "programNode" {
		return nil, errors.Newf("expected programNode, got %q", w.Kind)
	}
	p := &ProgramNode{
		Name:      w.Name,
		PublicKey: w.PublicKey,
		Version:   w.Version,
		Origin:    w.Origin,
		Docs:      w.Docs,
		Internal:  w.Internal,
	}
	for i, raw := range w.Accounts {
		a, err := decodeAccount(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "program %s: accounts[%d]", w.Name, i)
		}
		p.Accounts = append(p.Accounts, a)
	}
	for i, raw := range w.Instructions {
		ix, err := decodeInstruction(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "program %s: instructions[%d]", w.Name, i)
		}
		p.Instructions = append(p.Instructions, ix)
	}
	for i, raw := range w.DefinedTypes {
		dt, err := decodeDefinedType(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "program %s: definedTypes[%d]", w.Name, i)
		}
		p.DefinedTypes = append(p.DefinedTypes, dt)
	}
	for i, raw := range w.Pdas {
		pda, err := decodePda(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "program %s: pdas[%d]", w.Name, i)
		}
		p.Pdas = append(p.Pdas, pda)
	}
	for i, raw := range w.Errors {
		var e ErrorNode
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrapf(err, "program %s: errors[%d]", w.Name, i)
		}
		p.Errors = append(p.Errors, &e)
	}
	return p, nil
}

func decodeAccount(data []byte) (*AccountNode, error) {
	var w struct {
		Name     string          `json:"name"`
		Docs     []string        `json:"docs"`
		Data     json.RawMessage `json:"data"`
		Pda      *PdaLinkNode    `json:"pda"`
		Size     *int            `json:"size"`
		Internal bool            `json:"internal"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	a := &AccountNode{Name: w.Name, Docs: w.Docs, Pda: w.Pda, Size: w.Size, Internal: w.Internal}
	var err error
	if a.Data, err = decodeType(w.Data); err != nil {
		return nil, errors.Wrapf(err, "account %s: data", w.Name)
	}
	return a, nil
}

func decodeInstruction(data []byte) (*InstructionNode, error) {
	var w struct {
		Name            string            `json:"name"`
		Docs            []string          `json:"docs"`
		Accounts        []json.RawMessage `json:"accounts"`
		Arguments       []json.RawMessage `json:"arguments"`
		SubInstructions []json.RawMessage `json:"subInstructions"`
		Internal        bool              `json:"internal"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	ix := &InstructionNode{Name: w.Name, Docs: w.Docs, Internal: w.Internal}
	for i, raw := range w.Accounts {
		a, err := decodeInstructionAccount(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %s: accounts[%d]", w.Name, i)
		}
		ix.Accounts = append(ix.Accounts, a)
	}
	for i, raw := range w.Arguments {
		a, err := decodeInstructionArgument(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %s: arguments[%d]", w.Name, i)
		}
		ix.Arguments = append(ix.Arguments, a)
	}
	for i, raw := range w.SubInstructions {
		sub, err := decodeInstruction(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %s: subInstructions[%d]", w.Name, i)
		}
		ix.SubInstructions = append(ix.SubInstructions, sub)
	}
	return ix, nil
}

func decodeInstructionAccount(data []byte) (*InstructionAccountNode, error) {
	var w struct {
		Name         string          `json:"name"`
		Docs         []string        `json:"docs"`
		IsWritable   bool            `json:"isWritable"`
		IsSigner     json.RawMessage `json:"isSigner"`
		IsOptional   bool            `json:"isOptional"`
		DefaultValue json.RawMessage `json:"defaultValue"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	a := &InstructionAccountNode{Name: w.Name, Docs: w.Docs, IsWritable: w.IsWritable, IsOptional: w.IsOptional}
	switch string(bytes.TrimSpace(w.IsSigner)) {
	case "", "null", "false":
	case "true":
		a.IsSigner = true
	case `"either"`:
		a.SignerEither = true
	default:
		return nil, errors.Newf("account %s: invalid isSigner %s", w.Name, w.IsSigner)
	}
	if !isNull(w.DefaultValue) {
		v, err := decodeValue(w.DefaultValue)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s: defaultValue", w.Name)
		}
		a.DefaultValue = v
	}
	return a, nil
}

func decodeInstructionArgument(data []byte) (*InstructionArgumentNode, error) {
	var w struct {
		Name                 string          `json:"name"`
		Docs                 []string        `json:"docs"`
		Type                 json.RawMessage `json:"type"`
		DefaultValue         json.RawMessage `json:"defaultValue"`
		DefaultValueStrategy string          `json:"defaultValueStrategy"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	a := &InstructionArgumentNode{Name: w.Name, Docs: w.Docs, DefaultValueStrategy: w.DefaultValueStrategy}
	var err error
	if a.Type, err = decodeType(w.Type); err != nil {
		return nil, errors.Wrapf(err, "argument %s", w.Name)
	}
	if !isNull(w.DefaultValue) {
		if a.DefaultValue, err = decodeValue(w.DefaultValue); err != nil {
			return nil, errors.Wrapf(err, "argument %s: defaultValue", w.Name)
		}
	}
	return a, nil
}

func decodeDefinedType(data []byte) (*DefinedTypeNode, error) {
	var w struct {
		Name     string          `json:"name"`
		Docs     []string        `json:"docs"`
		Type     json.RawMessage `json:"type"`
		Internal bool            `json:"internal"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	dt := &DefinedTypeNode{Name: w.Name, Docs: w.Docs, Internal: w.Internal}
	var err error
	if dt.Type, err = decodeType(w.Type); err != nil {
		return nil, errors.Wrapf(err, "defined type %s", w.Name)
	}
	return dt, nil
}

func decodePda(data []byte) (*PdaNode, error) {
	var w struct {
		Name  string            `json:"name"`
		Docs  []string          `json:"docs"`
		Seeds []json.RawMessage `json:"seeds"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	pda := &PdaNode{Name: w.Name, Docs: w.Docs}
	for i, raw := range w.Seeds {
		kind, err := kindOf(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "pda %s: seeds[%d]", w.Name, i)
		}
		var s struct {
			Name  string          `json:"name"`
			Docs  []string        `json:"docs"`
			Type  json.RawMessage `json:"type"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		t, err := decodeType(s.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "pda %s: seeds[%d]", w.Name, i)
		}
		switch kind {
		case "constantPdaSeedNode":
			v, err := decodeValue(s.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "pda %s: seeds[%d]", w.Name, i)
			}
			pda.Seeds = append(pda.Seeds, &ConstantPdaSeedNode{Type: t, Value: v})
		case "variablePdaSeedNode":
			pda.Seeds = append(pda.Seeds, &VariablePdaSeedNode{Name: s.Name, Docs: s.Docs, Type: t})
		default:
			return nil, errors.Mark(errors.Newf("pda %s: seed kind %q", w.Name, kind), ErrUnknownKind)
		}
	}
	return pda, nil
}

// decodeType dispatches on the node kind.
func decodeType(data []byte) (TypeNode, error) {
	if isNull(data) {
		return nil, errors.New("missing type node")
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	var w struct {
		Format        NumberFormat      `json:"format"`
		Endian        Endian            `json:"endian"`
		Encoding      BytesEncoding     `json:"encoding"`
		Name          string            `json:"name"`
		Size          json.RawMessage   `json:"size"`
		Type          json.RawMessage   `json:"type"`
		Prefix        json.RawMessage   `json:"prefix"`
		Item          json.RawMessage   `json:"item"`
		Items         []json.RawMessage `json:"items"`
		Count         json.RawMessage   `json:"count"`
		Fixed         bool              `json:"fixed"`
		Fields        []json.RawMessage `json:"fields"`
		Docs          []string          `json:"docs"`
		DefaultValue  json.RawMessage   `json:"defaultValue"`
		Strategy      string            `json:"defaultValueStrategy"`
		Variants      []json.RawMessage `json:"variants"`
		Discriminator *int              `json:"discriminator"`
		Struct        json.RawMessage   `json:"struct"`
		Tuple         json.RawMessage   `json:"tuple"`
		Key           json.RawMessage   `json:"key"`
		Value         json.RawMessage   `json:"value"`
		Number        json.RawMessage   `json:"number"`
		Decimals      int               `json:"decimals"`
		Unit          string            `json:"unit"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", kind)
	}

	switch kind {
	case "numberTypeNode":
		endian := w.Endian
		if endian == "" {
			endian = LittleEndian
		}
		return &NumberTypeNode{Format: w.Format, Endian: endian}, nil
	case "booleanTypeNode":
		size, err := decodeTypeOr(w.Size, Number(U8))
		if err != nil {
			return nil, errors.Wrap(err, "booleanTypeNode.size")
		}
		return &BooleanTypeNode{Size: size}, nil
	case "fixedSizeTypeNode":
		var n int
		if err := json.Unmarshal(w.Size, &n); err != nil {
			return nil, errors.Wrap(err, "fixedSizeTypeNode.size")
		}
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, errors.Wrap(err, "fixedSizeTypeNode.type")
		}
		return &FixedSizeTypeNode{Size: n, Type: t}, nil
	case "sizePrefixTypeNode":
		prefix, err := decodeType(w.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "sizePrefixTypeNode.prefix")
		}
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, errors.Wrap(err, "sizePrefixTypeNode.type")
		}
		return &SizePrefixTypeNode{Prefix: prefix, Type: t}, nil
	case "bytesTypeNode":
		return &BytesTypeNode{}, nil
	case "stringTypeNode":
		enc := w.Encoding
		if enc == "" {
			enc = UTF8
		}
		return &StringTypeNode{Encoding: enc}, nil
	case "arrayTypeNode":
		item, err := decodeType(w.Item)
		if err != nil {
			return nil, errors.Wrap(err, "arrayTypeNode.item")
		}
		count, err := decodeCount(w.Count)
		if err != nil {
			return nil, errors.Wrap(err, "arrayTypeNode.count")
		}
		return &ArrayTypeNode{Item: item, Count: count}, nil
	case "optionTypeNode":
		item, err := decodeType(w.Item)
		if err != nil {
			return nil, errors.Wrap(err, "optionTypeNode.item")
		}
		prefix, err := decodeTypeOr(w.Prefix, Number(U8))
		if err != nil {
			return nil, errors.Wrap(err, "optionTypeNode.prefix")
		}
		return &OptionTypeNode{Item: item, Prefix: prefix, Fixed: w.Fixed}, nil
	case "structTypeNode":
		s := &StructTypeNode{}
		for i, raw := range w.Fields {
			f, err := decodeType(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "structTypeNode.fields[%d]", i)
			}
			field, ok := f.(*StructFieldTypeNode)
			if !ok {
				return nil, errors.Newf("structTypeNode.fields[%d]: expected structFieldTypeNode, got %s", i, f.Kind())
			}
			s.Fields = append(s.Fields, field)
		}
		return s, nil
	case "structFieldTypeNode":
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", w.Name)
		}
		f := &StructFieldTypeNode{Name: w.Name, Type: t, Docs: w.Docs, DefaultValueStrategy: w.Strategy}
		if !isNull(w.DefaultValue) {
			if f.DefaultValue, err = decodeValue(w.DefaultValue); err != nil {
				return nil, errors.Wrapf(err, "field %s: defaultValue", w.Name)
			}
		}
		return f, nil
	case "enumTypeNode":
		e := &EnumTypeNode{}
		for i, raw := range w.Variants {
			v, err := decodeType(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "enumTypeNode.variants[%d]", i)
			}
			variant, ok := v.(EnumVariantTypeNode)
			if !ok {
				return nil, errors.Newf("enumTypeNode.variants[%d]: expected enum variant, got %s", i, v.Kind())
			}
			e.Variants = append(e.Variants, variant)
		}
		if e.Size, err = decodeTypeOr(w.Size, Number(U8)); err != nil {
			return nil, errors.Wrap(err, "enumTypeNode.size")
		}
		return e, nil
	case "enumEmptyVariantTypeNode":
		return &EnumEmptyVariantTypeNode{Name: w.Name, Discriminator: w.Discriminator}, nil
	case "enumTupleVariantTypeNode":
		t, err := decodeType(w.Tuple)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", w.Name)
		}
		return &EnumTupleVariantTypeNode{Name: w.Name, Tuple: t, Discriminator: w.Discriminator}, nil
	case "enumStructVariantTypeNode":
		s, err := decodeType(w.Struct)
		if err != nil {
			return nil, errors.Wrapf(err, "variant %s", w.Name)
		}
		return &EnumStructVariantTypeNode{Name: w.Name, Struct: s, Discriminator: w.Discriminator}, nil
	case "mapTypeNode":
		key, err := decodeType(w.Key)
		if err != nil {
			return nil, errors.Wrap(err, "mapTypeNode.key")
		}
		value, err := decodeType(w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "mapTypeNode.value")
		}
		count, err := decodeCount(w.Count)
		if err != nil {
			return nil, errors.Wrap(err, "mapTypeNode.count")
		}
		return &MapTypeNode{Key: key, Value: value, Count: count}, nil
	case "setTypeNode":
		item, err := decodeType(w.Item)
		if err != nil {
			return nil, errors.Wrap(err, "setTypeNode.item")
		}
		count, err := decodeCount(w.Count)
		if err != nil {
			return nil, errors.Wrap(err, "setTypeNode.count")
		}
		return &SetTypeNode{Item: item, Count: count}, nil
	case "tupleTypeNode":
		t := &TupleTypeNode{}
		for i, raw := range w.Items {
			item, err := decodeType(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "tupleTypeNode.items[%d]", i)
			}
			t.Items = append(t.Items, item)
		}
		return t, nil
	case "publicKeyTypeNode":
		return &PublicKeyTypeNode{}, nil
	case "definedTypeLinkNode":
		return &DefinedTypeLinkNode{Name: w.Name}, nil
	case "amountTypeNode":
		n, err := decodeType(w.Number)
		if err != nil {
			return nil, errors.Wrap(err, "amountTypeNode.number")
		}
		return &AmountTypeNode{Number: n, Decimals: w.Decimals, Unit: w.Unit}, nil
	case "solAmountTypeNode":
		n, err := decodeType(w.Number)
		if err != nil {
			return nil, errors.Wrap(err, "solAmountTypeNode.number")
		}
		return &SolAmountTypeNode{Number: n}, nil
	case "dateTimeTypeNode":
		n, err := decodeType(w.Number)
		if err != nil {
			return nil, errors.Wrap(err, "dateTimeTypeNode.number")
		}
		return &DateTimeTypeNode{Number: n}, nil
	default:
		return nil, errors.Mark(errors.Newf("type node kind %q", kind), ErrUnknownKind)
	}
}

func decodeTypeOr(data []byte, def TypeNode) (TypeNode, error) {
	if isNull(data) {
		return def, nil
	}
	return decodeType(data)
}

func decodeCount(data []byte) (CountNode, error) {
	if isNull(data) {
		return nil, errors.New("missing count node")
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "fixedCountNode":
		var c FixedCountNode
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &c, nil
	case "prefixedCountNode":
		var w struct {
			Prefix json.RawMessage `json:"prefix"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		prefix, err := decodeType(w.Prefix)
		if err != nil {
			return nil, errors.Wrap(err, "prefixedCountNode.prefix")
		}
		return &PrefixedCountNode{Prefix: prefix}, nil
	case "remainderCountNode":
		return &RemainderCountNode{}, nil
	default:
		return nil, errors.Mark(errors.Newf("count node kind %q", kind), ErrUnknownKind)
	}
}

// decodeValue dispatches on the node kind.
func decodeValue(data []byte) (ValueNode, error) {
	if isNull(data) {
		return nil, errors.New("missing value node")
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	if contextualValueKinds[kind] {
		var w struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &ContextualValueNode{NodeKind: kind, Name: w.Name}, nil
	}

	var w struct {
		Items     []json.RawMessage `json:"items"`
		Entries   []json.RawMessage `json:"entries"`
		Fields    []json.RawMessage `json:"fields"`
		Type      json.RawMessage   `json:"type"`
		Value     json.RawMessage   `json:"value"`
		Key       json.RawMessage   `json:"key"`
		Enum      json.RawMessage   `json:"enum"`
		Variant   string            `json:"variant"`
		Name      string            `json:"name"`
		Boolean   bool              `json:"boolean"`
		Number    json.Number       `json:"number"`
		String    string            `json:"string"`
		PublicKey string            `json:"publicKey"`
		Ident     string            `json:"identifier"`
		Data      string            `json:"data"`
		Encoding  BytesEncoding     `json:"encoding"`
	}
	if err := decodeStrict(data, &w); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", kind)
	}

	items := func() ([]ValueNode, error) {
		out := make([]ValueNode, 0, len(w.Items))
		for i, raw := range w.Items {
			v, err := decodeValue(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "%s.items[%d]", kind, i)
			}
			out = append(out, v)
		}
		return out, nil
	}

	switch kind {
	case "arrayValueNode":
		vs, err := items()
		if err != nil {
			return nil, err
		}
		return &ArrayValueNode{Items: vs}, nil
	case "setValueNode":
		vs, err := items()
		if err != nil {
			return nil, err
		}
		return &SetValueNode{Items: vs}, nil
	case "tupleValueNode":
		vs, err := items()
		if err != nil {
			return nil, err
		}
		return &TupleValueNode{Items: vs}, nil
	case "booleanValueNode":
		return &BooleanValueNode{Boolean: w.Boolean}, nil
	case "bytesValueNode":
		return &BytesValueNode{Data: w.Data, Encoding: w.Encoding}, nil
	case "numberValueNode":
		if w.Number == "" {
			return nil, errors.New("numberValueNode without number")
		}
		return &NumberValueNode{Number: w.Number}, nil
	case "stringValueNode":
		return &StringValueNode{String: w.String}, nil
	case "publicKeyValueNode":
		return &PublicKeyValueNode{PublicKey: w.PublicKey, Identifier: w.Ident}, nil
	case "noneValueNode":
		return &NoneValueNode{}, nil
	case "someValueNode":
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "someValueNode.value")
		}
		return &SomeValueNode{Value: v}, nil
	case "constantValueNode":
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, errors.Wrap(err, "constantValueNode.type")
		}
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "constantValueNode.value")
		}
		return &ConstantValueNode{Type: t, Value: v}, nil
	case "enumValueNode":
		var link DefinedTypeLinkNode
		if err := json.Unmarshal(w.Enum, &link); err != nil {
			return nil, errors.Wrap(err, "enumValueNode.enum")
		}
		ev := &EnumValueNode{Enum: &link, Variant: w.Variant}
		if !isNull(w.Value) {
			if ev.Value, err = decodeValue(w.Value); err != nil {
				return nil, errors.Wrap(err, "enumValueNode.value")
			}
		}
		return ev, nil
	case "mapValueNode":
		m := &MapValueNode{}
		for i, raw := range w.Entries {
			v, err := decodeValue(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "mapValueNode.entries[%d]", i)
			}
			entry, ok := v.(*MapEntryValueNode)
			if !ok {
				return nil, errors.Newf("mapValueNode.entries[%d]: expected mapEntryValueNode, got %s", i, v.Kind())
			}
			m.Entries = append(m.Entries, entry)
		}
		return m, nil
	case "mapEntryValueNode":
		k, err := decodeValue(w.Key)
		if err != nil {
			return nil, errors.Wrap(err, "mapEntryValueNode.key")
		}
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, errors.Wrap(err, "mapEntryValueNode.value")
		}
		return &MapEntryValueNode{Key: k, Value: v}, nil
	case "structValueNode":
		s := &StructValueNode{}
		for i, raw := range w.Fields {
			v, err := decodeValue(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "structValueNode.fields[%d]", i)
			}
			f, ok := v.(*StructFieldValueNode)
			if !ok {
				return nil, errors.Newf("structValueNode.fields[%d]: expected structFieldValueNode, got %s", i, v.Kind())
			}
			s.Fields = append(s.Fields, f)
		}
		return s, nil
	case "structFieldValueNode":
		v, err := decodeValue(w.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "structFieldValueNode %s", w.Name)
		}
		return &StructFieldValueNode{Name: w.Name, Value: v}, nil
	default:
		return nil, errors.Mark(errors.Newf("value node kind %q", kind), ErrUnknownKind)
	}
}
