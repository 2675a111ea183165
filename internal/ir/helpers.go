package ir

// AllPrograms returns the root program followed by additional programs.
func AllPrograms(root *RootNode) []*ProgramNode {
	if root == nil {
		return nil
	}
	out := make([]*ProgramNode, 0, 1+len(root.AdditionalPrograms))
	if root.Program != nil {
		out = append(out, root.Program)
	}
	return append(out, root.AdditionalPrograms...)
}

// AllAccounts returns the accounts of every program in declaration order.
func AllAccounts(root *RootNode) []*AccountNode {
	var out []*AccountNode
	for _, p := range AllPrograms(root) {
		out = append(out, p.Accounts...)
	}
	return out
}

// AllDefinedTypes returns the defined types of every program.
func AllDefinedTypes(root *RootNode) []*DefinedTypeNode {
	var out []*DefinedTypeNode
	for _, p := range AllPrograms(root) {
		out = append(out, p.DefinedTypes...)
	}
	return out
}

// AllInstructions returns the instructions of every program, flattened by
// InstructionsWithSubs.
func AllInstructions(root *RootNode, leavesOnly bool) []*InstructionNode {
	var out []*InstructionNode
	for _, p := range AllPrograms(root) {
		out = append(out, InstructionsWithSubs(p, leavesOnly)...)
	}
	return out
}

// InstructionsWithSubs flattens a program's instruction tree depth first.
// With leavesOnly, instructions that only group sub-instructions are
// skipped.
func InstructionsWithSubs(p *ProgramNode, leavesOnly bool) []*InstructionNode {
	var out []*InstructionNode
	var walk func([]*InstructionNode)
	walk = func(ixs []*InstructionNode) {
		for _, ix := range ixs {
			if !leavesOnly || len(ix.SubInstructions) == 0 {
				out = append(out, ix)
			}
			walk(ix.SubInstructions)
		}
	}
	walk(p.Instructions)
	return out
}

// StructFromInstructionArguments builds the struct serialised as an
// instruction's data, one field per argument in order.
func StructFromInstructionArguments(args []*InstructionArgumentNode) *StructTypeNode {
	s := &StructTypeNode{Fields: make([]*StructFieldTypeNode, 0, len(args))}
	for _, a := range args {
		s.Fields = append(s.Fields, &StructFieldTypeNode{
			Name:                 a.Name,
			Type:                 a.Type,
			Docs:                 a.Docs,
			DefaultValue:         a.DefaultValue,
			DefaultValueStrategy: a.DefaultValueStrategy,
		})
	}
	return s
}

// ResolveNestedNumber unwraps size and number wrappers down to the
// underlying number type. It returns nil when t is not a number.
func ResolveNestedNumber(t TypeNode) *NumberTypeNode {
	for {
		switch n := t.(type) {
		case *NumberTypeNode:
			return n
		case *FixedSizeTypeNode:
			t = n.Type
		case *SizePrefixTypeNode:
			t = n.Type
		case *AmountTypeNode:
			t = n.Number
		case *SolAmountTypeNode:
			t = n.Number
		case *DateTimeTypeNode:
			t = n.Number
		default:
			return nil
		}
	}
}

// IsScalarEnum reports whether every variant of e is empty.
func IsScalarEnum(e *EnumTypeNode) bool {
	for _, v := range e.Variants {
		if _, ok := v.(*EnumEmptyVariantTypeNode); !ok {
			return false
		}
	}
	return true
}

// Linkables indexes the nodes a link can refer to.
type Linkables struct {
	pdas         map[string]*PdaNode
	definedTypes map[string]*DefinedTypeNode
}

// NewLinkables records every PDA and defined type reachable from root.
// On duplicate names the first declaration wins.
func NewLinkables(root *RootNode) *Linkables {
	l := &Linkables{
		pdas:         make(map[string]*PdaNode),
		definedTypes: make(map[string]*DefinedTypeNode),
	}
	for _, p := range AllPrograms(root) {
		for _, pda := range p.Pdas {
			if _, ok := l.pdas[pda.Name]; !ok {
				l.pdas[pda.Name] = pda
			}
		}
		for _, dt := range p.DefinedTypes {
			if _, ok := l.definedTypes[dt.Name]; !ok {
				l.definedTypes[dt.Name] = dt
			}
		}
	}
	return l
}

// Pda resolves a PDA link. It returns nil for a nil link or unknown name.
func (l *Linkables) Pda(link *PdaLinkNode) *PdaNode {
	if l == nil || link == nil {
		return nil
	}
	return l.pdas[link.Name]
}

// DefinedType resolves a defined-type link.
func (l *Linkables) DefinedType(link *DefinedTypeLinkNode) *DefinedTypeNode {
	if l == nil || link == nil {
		return nil
	}
	return l.definedTypes[link.Name]
}
