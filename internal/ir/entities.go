package ir

// RootNode is the top of an IDL document.
type RootNode struct {
	Standard           string
	Version            string
	Program            *ProgramNode
	AdditionalPrograms []*ProgramNode
}

// ProgramNode is one on-chain program and everything it declares.
type ProgramNode struct {
	Name         string
	PublicKey    string
	Version      string
	Origin       string
	Docs         []string
	Accounts     []*AccountNode
	Instructions []*InstructionNode
	DefinedTypes []*DefinedTypeNode
	Pdas         []*PdaNode
	Errors       []*ErrorNode
	Internal     bool
}

// AccountNode is an account layout owned by a program.
type AccountNode struct {
	Name     string
	Docs     []string
	Data     TypeNode
	Pda      *PdaLinkNode
	Size     *int
	Internal bool
}

// InstructionNode is a program entry point.
type InstructionNode struct {
	Name            string
	Docs            []string
	Accounts        []*InstructionAccountNode
	Arguments       []*InstructionArgumentNode
	SubInstructions []*InstructionNode
	Internal        bool
}

// InstructionAccountNode is an account an instruction reads or writes.
// SignerEither marks an account that may or may not sign.
type InstructionAccountNode struct {
	Name         string
	Docs         []string
	IsWritable   bool
	IsSigner     bool
	SignerEither bool
	IsOptional   bool
	DefaultValue ValueNode
}

// InstructionArgumentNode is a serialised instruction argument.
type InstructionArgumentNode struct {
	Name                 string
	Docs                 []string
	Type                 TypeNode
	DefaultValue         ValueNode
	DefaultValueStrategy string
}

// DefinedTypeNode is a named type shared across accounts and instructions.
type DefinedTypeNode struct {
	Name     string
	Docs     []string
	Type     TypeNode
	Internal bool
}

// ErrorNode is a program error code.
type ErrorNode struct {
	Name    string
	Code    int
	Message string
	Docs    []string
}

// PdaNode describes how a program derived address is computed.
type PdaNode struct {
	Name  string
	Docs  []string
	Seeds []PdaSeedNode
}

// ConstantPdaSeedNode is a seed with a fixed value.
type ConstantPdaSeedNode struct {
	Type  TypeNode
	Value ValueNode
}

// VariablePdaSeedNode is a seed supplied by the caller.
type VariablePdaSeedNode struct {
	Name string
	Docs []string
	Type TypeNode
}

// PdaLinkNode refers to a PdaNode by name.
type PdaLinkNode struct {
	Name string `json:"name"`
}

func (*RootNode) Kind() string                { return "rootNode" }
func (*ProgramNode) Kind() string             { return "programNode" }
func (*AccountNode) Kind() string             { return "accountNode" }
func (*InstructionNode) Kind() string         { return "instructionNode" }
func (*InstructionAccountNode) Kind() string  { return "instructionAccountNode" }
func (*InstructionArgumentNode) Kind() string { return "instructionArgumentNode" }
func (*DefinedTypeNode) Kind() string         { return "definedTypeNode" }
func (*ErrorNode) Kind() string               { return "errorNode" }
func (*PdaNode) Kind() string                 { return "pdaNode" }
func (*ConstantPdaSeedNode) Kind() string     { return "constantPdaSeedNode" }
func (*VariablePdaSeedNode) Kind() string     { return "variablePdaSeedNode" }
func (*PdaLinkNode) Kind() string             { return "pdaLinkNode" }

func (*ConstantPdaSeedNode) pdaSeedNode() {}
func (*VariablePdaSeedNode) pdaSeedNode() {}
