// Package flavor describes the C++ dialects the generator can target.
//
// A Flavor is pure data: the spelling of every lowered type, the header each
// one needs, and the scaffold files that turn generated headers into a
// buildable module. The type manifest visitor and the value renderer read a
// Flavor and never special-case a dialect by name.
package flavor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roach88/idlcpp/internal/ir"
)

// Names of the built-in flavors.
const (
	Unreal5 = "unreal5"
	STL20   = "stl20"
)

// ErrUnknownFlavor is returned by Get for an unregistered name.
var ErrUnknownFlavor = errors.New("unknown flavor")

// TypeRef is a type spelling plus the header that declares it.
// Format is a fmt pattern for generic types ("TArray<%s>"), or a plain name.
type TypeRef struct {
	Format  string
	Include string
}

// Apply fills Format's verbs with args.
func (r TypeRef) Apply(args ...any) string {
	if len(args) == 0 {
		return r.Format
	}
	return fmt.Sprintf(r.Format, args...)
}

// ScaffoldFile is a fixed file emitted once per generated module.
// Path may reference the module name as %[1]s.
type ScaffoldFile struct {
	Path     string
	Template string
}

// Flavor is one output dialect.
type Flavor struct {
	Name        string
	Description string

	// StructPrefix is prepended to generated struct and enum names.
	StructPrefix string

	Numbers map[ir.NumberFormat]string
	// NumberInclude declares the fixed-width integer names, if any.
	NumberInclude string
	Bool          string

	Sequence   TypeRef // growable array of one type
	FixedArray TypeRef // array of N items used where no declarator suffix fits
	Optional   TypeRef
	String     TypeRef
	PublicKey  TypeRef
	Tuple      TypeRef

	// Client runtime types referenced by instruction and program headers.
	AccountMeta TypeRef
	Instruction TypeRef
	AppendCall  string // method appending to a Sequence
	CharPtr     string // type of a static C string

	// ErrorPrefix is prepended to the error enum of a program.
	ErrorPrefix   string
	ErrorsInclude string

	// Literal spellings used by the value renderer.
	StringLiteral    string // wraps a quoted string
	PublicKeyLiteral string // wraps a quoted base58 key
	TupleLiteral     string // wraps comma-joined items
	SomeLiteral      string // wraps the inner value

	// Text substituted for TEXT("...") in generated sources.
	Text string

	// Templates for the module header and source.
	ModuleHeader string
	ModuleSource string

	Scaffold []ScaffoldFile
}

// NumberType returns the spelling of format, or false if the flavor has no
// equivalent.
func (f *Flavor) NumberType(format ir.NumberFormat) (string, bool) {
	t, ok := f.Numbers[format]
	return t, ok
}

// StructName returns the declared name of a generated struct.
func (f *Flavor) StructName(pascal string) string {
	return f.StructPrefix + pascal
}

// ScaffoldFor returns the scaffold files with the module name applied.
func (f *Flavor) ScaffoldFor(module string) []ScaffoldFile {
	out := make([]ScaffoldFile, 0, len(f.Scaffold))
	for _, s := range f.Scaffold {
		path := s.Path
		if strings.Contains(path, "%") {
			path = fmt.Sprintf(path, module)
		}
		out = append(out, ScaffoldFile{Path: path, Template: s.Template})
	}
	return out
}

var registry = map[string]*Flavor{
	Unreal5: unreal5(),
	STL20:   stl20(),
}

// Get returns the flavor registered under name.
func Get(name string) (*Flavor, error) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.WithHintf(
			errors.Mark(errors.Newf("unknown flavor %q", name), ErrUnknownFlavor),
			"known flavors: %s", strings.Join(Names(), ", "),
		)
	}
	return f, nil
}

// Names lists the registered flavors in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func unreal5() *Flavor {
	return &Flavor{
		Name:         Unreal5,
		Description:  "Unreal Engine 5 plugin (TArray, TOptional, FString)",
		StructPrefix: "F",
		Numbers: map[ir.NumberFormat]string{
			ir.U8:    "uint8",
			ir.U16:   "uint16",
			ir.U32:   "uint32",
			ir.U64:   "uint64",
			ir.U128:  "uint128",
			ir.I8:    "int8",
			ir.I16:   "int16",
			ir.I32:   "int32",
			ir.I64:   "int64",
			ir.I128:  "int128",
			ir.F32:   "float",
			ir.F64:   "double",
			ir.USize: "SIZE_T",
			ir.ISize: "SSIZE_T",
		},
		Bool:       "bool",
		Sequence:   TypeRef{Format: "TArray<%s>", Include: "Containers/Array.h"},
		FixedArray: TypeRef{Format: "TStaticArray<%s, %d>", Include: "Containers/StaticArray.h"},
		Optional:   TypeRef{Format: "TOptional<%s>", Include: "Misc/Optional.h"},
		String:     TypeRef{Format: "FString", Include: "CoreMinimal.h"},
		PublicKey:  TypeRef{Format: "FPublicKey", Include: "Solana/PublicKey.h"},
		Tuple:      TypeRef{Format: "TTuple<%s>", Include: "Templates/Tuple.h"},

		AccountMeta: TypeRef{Format: "FAccountMeta", Include: "Solana/AccountMeta.h"},
		Instruction: TypeRef{Format: "FInstruction", Include: "Solana/Instruction.h"},
		AppendCall:  "Add",
		CharPtr:     "const TCHAR*",

		ErrorPrefix:   "E",
		ErrorsInclude: "CoreMinimal.h",

		StringLiteral:    "FString(TEXT(%s))",
		PublicKeyLiteral: "FPublicKey(TEXT(%s))",
		TupleLiteral:     "MakeTuple(%s)",
		SomeLiteral:      "TOptional(%s)",
		Text:             "TEXT(%s)",

		ModuleHeader: "unreal_module_h.tmpl",
		ModuleSource: "unreal_module_cpp.tmpl",
		Scaffold: []ScaffoldFile{
			{Path: "%[1]s.uplugin", Template: "unreal_plugin.tmpl"},
			{Path: "Source/%[1]s/%[1]s.Build.cs", Template: "unreal_build.tmpl"},
		},
	}
}

func stl20() *Flavor {
	return &Flavor{
		Name:        STL20,
		Description: "Portable C++20 with the standard library",
		Numbers: map[ir.NumberFormat]string{
			ir.U8:    "std::uint8_t",
			ir.U16:   "std::uint16_t",
			ir.U32:   "std::uint32_t",
			ir.U64:   "std::uint64_t",
			ir.U128:  "unsigned __int128",
			ir.I8:    "std::int8_t",
			ir.I16:   "std::int16_t",
			ir.I32:   "std::int32_t",
			ir.I64:   "std::int64_t",
			ir.I128:  "__int128",
			ir.F32:   "float",
			ir.F64:   "double",
			ir.USize: "std::size_t",
			ir.ISize: "std::ptrdiff_t",
		},
		NumberInclude: "cstdint",
		Bool:          "bool",
		Sequence:      TypeRef{Format: "std::vector<%s>", Include: "vector"},
		FixedArray:    TypeRef{Format: "std::array<%s, %d>", Include: "array"},
		Optional:      TypeRef{Format: "std::optional<%s>", Include: "optional"},
		String:        TypeRef{Format: "std::string", Include: "string"},
		PublicKey:     TypeRef{Format: "solana::PublicKey", Include: "Solana/PublicKey.h"},
		Tuple:         TypeRef{Format: "std::tuple<%s>", Include: "tuple"},

		AccountMeta: TypeRef{Format: "solana::AccountMeta", Include: "Solana/AccountMeta.h"},
		Instruction: TypeRef{Format: "solana::Instruction", Include: "Solana/Instruction.h"},
		AppendCall:  "push_back",
		CharPtr:     "const char*",

		ErrorsInclude: "cstdint",

		StringLiteral:    "std::string(%s)",
		PublicKeyLiteral: "solana::PublicKey(%s)",
		TupleLiteral:     "std::make_tuple(%s)",
		SomeLiteral:      "std::make_optional(%s)",
		Text:             "%s",

		ModuleHeader: "stl_module_h.tmpl",
		ModuleSource: "stl_module_cpp.tmpl",
		Scaffold: []ScaffoldFile{
			{Path: "CMakeLists.txt", Template: "stl_cmake.tmpl"},
			{Path: "vcpkg.json", Template: "stl_vcpkg.tmpl"},
		},
	}
}
