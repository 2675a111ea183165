package codegen

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/flavor"
	"github.com/roach88/idlcpp/internal/includes"
	"github.com/roach88/idlcpp/internal/ir"
	"github.com/roach88/idlcpp/internal/naming"
)

// DefaultPlugin is the module name used when Options.Plugin is empty.
const DefaultPlugin = "SolanaProgram"

// defaultVersion is written to build manifests when no program declares a
// usable version.
const defaultVersion = "1.0.0"

// borshInclude declares BorshSerialize and borsh::Serializer.
const borshInclude = "Borsh/Borsh.h"

// Options configures a Renderer.
type Options struct {
	// Plugin names the generated module. It is PascalCased.
	Plugin string
	// Flavor selects the output flavor; see flavor.Names.
	Flavor string
	// RenderParentInstructions also renders instructions that only group
	// sub-instructions.
	RenderParentInstructions bool
	// DependencyMap rewrites include paths as they are rendered.
	DependencyMap map[string]string
	// IncludeInternal renders entities marked internal.
	IncludeInternal bool
	Logger          *zap.Logger
}

// Renderer turns an IDL root into a RenderMap.
type Renderer struct {
	opts   Options
	plugin string
	flavor *flavor.Flavor
	types  *TypeManifestVisitor
	values *ValueRenderer
	log    *zap.Logger
}

// NewRenderer validates opts and prepares the templates.
func NewRenderer(opts Options) (*Renderer, error) {
	plugin := naming.Pascal(opts.Plugin)
	if plugin == "" {
		plugin = DefaultPlugin
	}
	name := opts.Flavor
	if name == "" {
		name = flavor.Unreal5
	}
	f, err := flavor.Get(name)
	if err != nil {
		return nil, err
	}
	if err := ensureTemplates(); err != nil {
		return nil, err
	}
	flavorTemplates := []string{f.ModuleHeader, f.ModuleSource}
	for _, s := range f.Scaffold {
		flavorTemplates = append(flavorTemplates, s.Template)
	}
	if err := validateTemplates(flavorTemplates); err != nil {
		return nil, errors.Wrapf(err, "flavor %s", f.Name)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		opts:   opts,
		plugin: plugin,
		flavor: f,
		types:  NewTypeManifestVisitor(f, plugin),
		values: NewValueRenderer(f, plugin),
		log:    log.With(zap.String("flavor", f.Name), zap.String("plugin", plugin)),
	}, nil
}

// Plugin returns the PascalCased module name.
func (r *Renderer) Plugin() string { return r.plugin }

// Flavor returns the selected flavor.
func (r *Renderer) Flavor() *flavor.Flavor { return r.flavor }

// fileData is embedded in every template's data.
type fileData struct {
	Plugin   string
	Flavor   *flavor.Flavor
	Includes string
}

func (r *Renderer) file(incs *includes.Set) fileData {
	return fileData{Plugin: r.plugin, Flavor: r.flavor, Includes: incs.Render(r.opts.DependencyMap)}
}

func (r *Renderer) publicPath(category, name string) string {
	return fmt.Sprintf("Source/%[1]s/Public/%[1]s/%[2]s/%[3]s.h", r.plugin, category, name)
}

func (r *Renderer) privatePath(category, name string) string {
	return fmt.Sprintf("Source/%[1]s/Private/%[1]s/%[2]s/%[3]s.cpp", r.plugin, category, name)
}

func (r *Renderer) exported(internal bool) bool {
	return r.opts.IncludeInternal || !internal
}

// exports is what a root contributes to the output.
type exports struct {
	programs     []*ir.ProgramNode
	accounts     int
	instructions int
	definedTypes int
	errors       int
}

func (e exports) any() bool {
	return len(e.programs) > 0 || e.accounts > 0 || e.instructions > 0 || e.definedTypes > 0
}

func (r *Renderer) exportsOf(root *ir.RootNode) exports {
	var e exports
	for _, p := range ir.AllPrograms(root) {
		if !r.exported(p.Internal) {
			continue
		}
		e.programs = append(e.programs, p)
		e.errors += len(p.Errors)
		for _, a := range p.Accounts {
			if r.exported(a.Internal) {
				e.accounts++
			}
		}
		for _, d := range p.DefinedTypes {
			if r.exported(d.Internal) {
				e.definedTypes++
			}
		}
		for _, ix := range ir.InstructionsWithSubs(p, !r.opts.RenderParentInstructions) {
			if r.exported(ix.Internal) {
				e.instructions++
			}
		}
	}
	return e
}

// Stats counts what RenderRoot exports from root under the renderer's
// internal and parent instruction options.
type Stats struct {
	Programs     int
	Accounts     int
	DefinedTypes int
	Instructions int
	Errors       int
}

// Stats returns the entity counts RenderRoot would emit for root.
func (r *Renderer) Stats(root *ir.RootNode) Stats {
	e := r.exportsOf(root)
	return Stats{
		Programs:     len(e.programs),
		Accounts:     e.accounts,
		DefinedTypes: e.definedTypes,
		Instructions: e.instructions,
		Errors:       e.errors,
	}
}

// RenderRoot renders every exported program of root together with the
// module scaffolding.
func (r *Renderer) RenderRoot(root *ir.RootNode) (*RenderMap, error) {
	if root == nil {
		return nil, errors.New("nil root node")
	}
	exp := r.exportsOf(root)
	links := ir.NewLinkables(root)
	out := NewRenderMap()

	if exp.any() {
		if len(exp.programs) > 0 {
			if err := r.renderPrograms(out, exp.programs); err != nil {
				return nil, err
			}
		}
		if err := r.renderModule(out, exp.programs); err != nil {
			return nil, err
		}
	}

	for _, p := range exp.programs {
		pm, err := r.RenderProgram(p, links)
		if err != nil {
			return nil, errors.Wrapf(err, "program %s", p.Name)
		}
		if err := out.MergeWith(pm); err != nil {
			return nil, err
		}
	}

	r.log.Debug("render map built",
		zap.Int("files", out.Len()),
		zap.Int("accounts", exp.accounts),
		zap.Int("instructions", exp.instructions),
		zap.Int("definedTypes", exp.definedTypes),
		zap.String("digest", out.Digest()),
	)
	return out, nil
}

// RenderProgram renders a program's accounts, defined types, instructions
// and errors.
func (r *Renderer) RenderProgram(p *ir.ProgramNode, links *ir.Linkables) (*RenderMap, error) {
	out := NewRenderMap()
	if !r.exported(p.Internal) {
		return out, nil
	}
	for _, a := range p.Accounts {
		if !r.exported(a.Internal) {
			continue
		}
		m, err := r.RenderAccount(p, a, links)
		if err != nil {
			return nil, errors.Wrapf(err, "account %s", a.Name)
		}
		if err := out.MergeWith(m); err != nil {
			return nil, err
		}
	}
	for _, d := range p.DefinedTypes {
		if !r.exported(d.Internal) {
			continue
		}
		m, err := r.RenderDefinedType(d)
		if err != nil {
			return nil, errors.Wrapf(err, "defined type %s", d.Name)
		}
		if err := out.MergeWith(m); err != nil {
			return nil, err
		}
	}
	for _, ix := range ir.InstructionsWithSubs(p, !r.opts.RenderParentInstructions) {
		if !r.exported(ix.Internal) {
			continue
		}
		m, err := r.RenderInstruction(p, ix)
		if err != nil {
			return nil, errors.Wrapf(err, "instruction %s", ix.Name)
		}
		if err := out.MergeWith(m); err != nil {
			return nil, err
		}
	}
	if len(p.Errors) > 0 {
		m, err := r.RenderErrors(p)
		if err != nil {
			return nil, errors.Wrap(err, "errors")
		}
		if err := out.MergeWith(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// declaration is a lowered top-level type ready for a header.
type declaration struct {
	Name     string
	Text     string
	Nested   []string
	Fields   []string
	Includes *includes.Set
}

// SerializeArgs lists the struct's fields as arguments to a Borsh
// serializer.
func (d declaration) SerializeArgs() string {
	args := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		args[i] = "Data." + f
	}
	return strings.Join(args, ", ")
}

// IsStruct reports whether the declaration is a struct.
func (d declaration) IsStruct() bool { return d.Fields != nil }

// declare turns the manifest of t, lowered at the top level under name,
// into a declaration. Structs and enums are declared by the manifest
// itself; any other type becomes an alias.
func (r *Renderer) declare(name string, t ir.TypeNode, m TypeManifest) declaration {
	d := declaration{
		Name:     r.flavor.StructName(name),
		Nested:   m.NestedStructs,
		Includes: m.Includes.Clone(),
	}
	switch s := t.(type) {
	case *ir.StructTypeNode:
		d.Text = m.Type
		d.Fields = make([]string, 0, len(s.Fields))
		for _, f := range s.Fields {
			d.Fields = append(d.Fields, naming.Pascal(f.Name))
		}
	case *ir.EnumTypeNode:
		d.Text = m.Type
	default:
		mat := r.types.Materialize(m)
		d.Text = "using " + d.Name + " = " + mat.Type + ";"
		d.Includes = mat.Includes.Clone()
	}
	return d
}

// seed is one component of a derived address, as a ToSeed argument.
type seed struct {
	Expr  string
	Param string
	Docs  []string
}

type accountData struct {
	fileData
	Name      string
	Docs      []string
	Decl      declaration
	Size      *int
	SizeType  string
	Seeds     []seed
	SeedList  string
	ProgramID string
}

// SeedParams is the parameter list of the seeds function.
func (a accountData) SeedParams() string {
	var params []string
	for _, s := range a.Seeds {
		if s.Param != "" {
			params = append(params, s.Param)
		}
	}
	return strings.Join(params, ", ")
}

// RenderAccount renders the header of one account.
func (r *Renderer) RenderAccount(p *ir.ProgramNode, a *ir.AccountNode, links *ir.Linkables) (*RenderMap, error) {
	name := naming.Pascal(a.Name)
	m, err := r.types.VisitAccount(a)
	if err != nil {
		return nil, err
	}
	decl := r.declare(name, a.Data, m)
	incs := decl.Includes
	if decl.IsStruct() {
		incs.Add(borshInclude)
	}

	var seeds []seed
	if a.Pda != nil {
		pda := links.Pda(a.Pda)
		if pda == nil {
			return nil, errors.WithHint(
				errors.Newf("pda %q not found", a.Pda.Name),
				"declare the pda in the program's pdas list",
			)
		}
		seedIncs := new(includes.Set)
		hasVariable := false
		hasProgramID := false
		for _, s := range pda.Seeds {
			switch s := s.(type) {
			case *ir.VariablePdaSeedNode:
				hasVariable = true
				sm, err := r.types.Visit(s.Type, RootContext(name+naming.Pascal(s.Name)).WithNested(true))
				if err != nil {
					return nil, errors.Wrapf(err, "seed %s", s.Name)
				}
				if len(sm.NestedStructs) > 0 {
					return nil, unsupported("struct-typed seed %s", s.Name)
				}
				sm = r.types.Materialize(sm)
				seedIncs.MergeWith(sm.Includes)
				param := naming.Pascal(s.Name)
				seeds = append(seeds, seed{Expr: param, Param: sm.Type + " " + param, Docs: s.Docs})
			case *ir.ConstantPdaSeedNode:
				if ir.IsProgramID(s.Value) {
					hasProgramID = true
					seeds = append(seeds, seed{Expr: programConst(p)})
					continue
				}
				value := s.Value
				if _, isNum := value.(*ir.NumberValueNode); isNum && ir.ResolveNestedNumber(s.Type) != nil {
					value = &ir.ConstantValueNode{Type: s.Type, Value: s.Value}
				}
				vm, err := r.values.Render(value, true)
				if err != nil {
					return nil, errors.Wrap(err, "constant seed")
				}
				seedIncs.MergeWith(vm.Includes)
				seeds = append(seeds, seed{Expr: vm.Render})
			}
		}
		if hasVariable {
			incs.MergeWith(seedIncs)
		}
		if len(seeds) > 0 {
			incs.Add(r.plugin+".h", r.flavor.Sequence.Include)
		}
		if hasProgramID {
			incs.Add(r.plugin + "/Programs.h")
		}
	}
	incs.Remove(r.plugin + "/Accounts/" + name + ".h")

	u8, _ := r.flavor.NumberType(ir.U8)
	u64, _ := r.flavor.NumberType(ir.U64)
	data := accountData{
		fileData:  r.file(incs),
		Name:      name,
		Docs:      a.Docs,
		Decl:      decl,
		Size:      a.Size,
		SizeType:  u64,
		Seeds:     seeds,
		SeedList:  r.flavor.Sequence.Apply(r.flavor.Sequence.Apply(u8)),
		ProgramID: programConst(p),
	}
	text, err := render(tmplAccount, data)
	if err != nil {
		return nil, err
	}
	return NewRenderMap().Add(r.publicPath("Accounts", name), text), nil
}

type definedTypeData struct {
	fileData
	Name string
	Docs []string
	Decl declaration
}

// RenderDefinedType renders the header of one defined type.
func (r *Renderer) RenderDefinedType(d *ir.DefinedTypeNode) (*RenderMap, error) {
	name := naming.Pascal(d.Name)
	m, err := r.types.VisitDefinedType(d)
	if err != nil {
		return nil, err
	}
	decl := r.declare(name, d.Type, m)
	incs := decl.Includes
	if decl.IsStruct() {
		incs.Add(borshInclude)
	}
	incs.Remove(r.types.TypeInclude(d.Name))

	text, err := render(tmplDefinedType, definedTypeData{
		fileData: r.file(incs),
		Name:     name,
		Docs:     d.Docs,
		Decl:     decl,
	})
	if err != nil {
		return nil, err
	}
	return NewRenderMap().Add(r.publicPath("Types", name), text), nil
}

type accountMeta struct {
	Name     string
	Docs     []string
	Signer   string
	Writable string
}

type instructionArg struct {
	Field    string
	Param    string
	Type     string
	Docs     []string
	Value    string
	Default  bool
	Optional bool
}

type instructionData struct {
	fileData
	Name           string
	Docs           []string
	AccountsStruct string
	Accounts       []accountMeta
	Decl           declaration
	ClassName      string
	Params         string
	Args           []instructionArg
	HasArgs        bool
	HasOptional    bool
	ProgramID      string
}

// RenderInstruction renders the header of one instruction.
func (r *Renderer) RenderInstruction(p *ir.ProgramNode, ix *ir.InstructionNode) (*RenderMap, error) {
	name := naming.Pascal(ix.Name)
	incs := new(includes.Set)

	conflicts := Conflicts(ix)
	if len(conflicts) > 0 {
		r.log.Warn("instruction accounts and arguments share names; arguments are suffixed with _arg",
			zap.String("instruction", ix.Name),
			zap.Strings("conflicts", conflicts),
		)
	}
	conflicting := make(map[string]bool, len(conflicts))
	for _, c := range conflicts {
		conflicting[c] = true
	}

	dataParent := name + "InstructionData"
	args := make([]instructionArg, 0, len(ix.Arguments))
	hasArgs, hasOptional := false, false
	for _, a := range ix.Arguments {
		am, err := r.types.Visit(a.Type, RootContext(dataParent+naming.Pascal(a.Name)).WithNested(true))
		if err != nil {
			return nil, errors.Wrapf(err, "argument %s", a.Name)
		}
		am = r.types.Materialize(am)

		hasDefault := ir.IsLiteral(a.DefaultValue)
		omitted := a.DefaultValueStrategy == ir.StrategyOmitted
		if !(hasDefault && omitted) {
			incs.MergeWith(am.Includes)
		}
		value := ""
		if hasDefault {
			vm, err := r.values.Render(a.DefaultValue, false)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %s default", a.Name)
			}
			if !omitted {
				incs.MergeWith(vm.Includes)
			}
			value = vm.Render
		}
		hasArgs = hasArgs || !omitted
		hasOptional = hasOptional || (hasDefault && !omitted)

		param := naming.Camel(a.Name)
		if conflicting[a.Name] {
			param = a.Name + "_arg"
		}
		args = append(args, instructionArg{
			Field:    naming.Pascal(a.Name),
			Param:    param,
			Type:     am.Type,
			Docs:     a.Docs,
			Value:    value,
			Default:  hasDefault && omitted,
			Optional: hasDefault && !omitted,
		})
	}

	st := ir.StructFromInstructionArguments(ix.Arguments)
	dm, err := r.types.Visit(st, RootContext(dataParent).WithAssignable(true))
	if err != nil {
		return nil, errors.Wrap(err, "instruction data")
	}
	decl := r.declare(dataParent, st, dm)
	incs.MergeWith(decl.Includes)

	accounts := make([]accountMeta, 0, len(ix.Accounts))
	var params []string
	for _, acc := range ix.Accounts {
		meta := accountMeta{
			Name:     naming.Pascal(acc.Name),
			Docs:     acc.Docs,
			Signer:   fmt.Sprint(acc.IsSigner),
			Writable: fmt.Sprint(acc.IsWritable),
		}
		params = append(params, r.flavor.PublicKey.Apply()+" "+meta.Name)
		accounts = append(accounts, meta)
	}
	for i, acc := range ix.Accounts {
		if acc.SignerEither {
			accounts[i].Signer = accounts[i].Name + "IsSigner"
			params = append(params, "bool "+accounts[i].Signer)
		}
	}
	for _, a := range args {
		if !a.Default && !a.Optional {
			params = append(params, a.Type+" "+a.Param)
		}
	}
	for _, a := range args {
		if a.Optional {
			params = append(params, a.Type+" "+a.Param+" = "+a.Value)
		}
	}

	incs.Add(
		r.flavor.AccountMeta.Include,
		r.flavor.Instruction.Include,
		r.flavor.PublicKey.Include,
		r.plugin+"/Programs.h",
		borshInclude,
	)
	incs.Remove(r.plugin + "/Instructions/" + name + ".h")

	text, err := render(tmplInstruction, instructionData{
		fileData:       r.file(incs),
		Name:           name,
		Docs:           ix.Docs,
		AccountsStruct: r.flavor.StructName(name + "Accounts"),
		Accounts:       accounts,
		Decl:           decl,
		ClassName:      r.flavor.StructName(name + "Instruction"),
		Params:         strings.Join(params, ", "),
		Args:           args,
		HasArgs:        hasArgs,
		HasOptional:    hasOptional,
		ProgramID:      programConst(p),
	})
	if err != nil {
		return nil, err
	}
	return NewRenderMap().Add(r.publicPath("Instructions", name), text), nil
}

// Conflicts returns the names used both by an account and by an argument
// of ix, in argument order.
func Conflicts(ix *ir.InstructionNode) []string {
	accounts := make(map[string]bool, len(ix.Accounts))
	for _, a := range ix.Accounts {
		accounts[a.Name] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, a := range ix.Arguments {
		if accounts[a.Name] && !seen[a.Name] {
			seen[a.Name] = true
			out = append(out, a.Name)
		}
	}
	return out
}

type programError struct {
	Name    string
	Code    int
	Message string
	Docs    []string
}

type errorsData struct {
	fileData
	Program  string
	EnumName string
	BaseType string
	Errors   []programError
	Unknown  string
}

// RenderErrors renders the error enum of p and its message lookup.
func (r *Renderer) RenderErrors(p *ir.ProgramNode) (*RenderMap, error) {
	prog := naming.Pascal(p.Name)
	u32, _ := r.flavor.NumberType(ir.U32)
	errs := make([]programError, 0, len(p.Errors))
	for _, e := range p.Errors {
		msg := e.Message
		if msg == "" {
			msg = naming.Title(e.Name)
		}
		errs = append(errs, programError{
			Name:    naming.Pascal(e.Name),
			Code:    e.Code,
			Message: fmt.Sprintf(r.flavor.Text, QuoteString(msg)),
			Docs:    e.Docs,
		})
	}
	data := errorsData{
		Program:  prog,
		EnumName: r.flavor.ErrorPrefix + prog + "Error",
		BaseType: u32,
		Errors:   errs,
		Unknown:  fmt.Sprintf(r.flavor.Text, QuoteString("Unknown error")),
	}

	data.fileData = r.file(includes.New(r.flavor.ErrorsInclude))
	header, err := render(tmplErrorsH, data)
	if err != nil {
		return nil, err
	}
	data.fileData = r.file(includes.New(r.plugin + "/Errors/" + prog + ".h"))
	source, err := render(tmplErrorsCpp, data)
	if err != nil {
		return nil, err
	}
	return NewRenderMap().
		Add(r.publicPath("Errors", prog), header).
		Add(r.privatePath("Errors", prog), source), nil
}

type programEntry struct {
	Name  string
	Const string
	Key   string
	Docs  []string
}

type programsData struct {
	fileData
	Programs []programEntry
}

func (r *Renderer) renderPrograms(out *RenderMap, programs []*ir.ProgramNode) error {
	incs := includes.New(r.flavor.PublicKey.Include)
	entries := make([]programEntry, 0, len(programs))
	for _, p := range programs {
		km, err := r.values.Render(&ir.PublicKeyValueNode{PublicKey: p.PublicKey}, false)
		if err != nil {
			return errors.Wrapf(err, "program %s", p.Name)
		}
		incs.MergeWith(km.Includes)
		entries = append(entries, programEntry{
			Name:  naming.Pascal(p.Name),
			Const: programConst(p),
			Key:   km.Render,
			Docs:  p.Docs,
		})
	}
	text, err := render(tmplPrograms, programsData{fileData: r.file(incs), Programs: entries})
	if err != nil {
		return err
	}
	out.Add(fmt.Sprintf("Source/%[1]s/Public/%[1]s/Programs.h", r.plugin), text)
	return nil
}

type moduleData struct {
	fileData
	Programs    []string
	Description string
	Version     string
	VersionCore string
	VersionCode uint64
}

func (r *Renderer) renderModule(out *RenderMap, programs []*ir.ProgramNode) error {
	names := make([]string, 0, len(programs))
	for _, p := range programs {
		names = append(names, naming.Pascal(p.Name))
	}
	v := moduleVersion(programs, r.log)
	desc := r.plugin + " client"
	if len(names) > 0 {
		desc = "Client for the " + strings.Join(names, ", ") + " Solana program"
		if len(names) > 1 {
			desc += "s"
		}
	}
	data := moduleData{
		fileData:    r.file(nil),
		Programs:    names,
		Description: QuoteString(desc),
		Version:     v.String(),
		VersionCore: fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()),
		VersionCode: v.Major()*10000 + v.Minor()*100 + v.Patch(),
	}

	for _, s := range r.flavor.ScaffoldFor(r.plugin) {
		text, err := render(s.Template, data)
		if err != nil {
			return err
		}
		out.Add(s.Path, text)
	}
	header, err := render(r.flavor.ModuleHeader, data)
	if err != nil {
		return err
	}
	source, err := render(r.flavor.ModuleSource, data)
	if err != nil {
		return err
	}
	out.Add(fmt.Sprintf("Source/%[1]s/Public/%[1]s.h", r.plugin), header)
	out.Add(fmt.Sprintf("Source/%[1]s/Private/%[1]s.cpp", r.plugin), source)
	return nil
}

// moduleVersion is the version of the first program that declares a valid
// semantic version.
func moduleVersion(programs []*ir.ProgramNode, log *zap.Logger) *semver.Version {
	for _, p := range programs {
		if p.Version == "" {
			continue
		}
		v, err := semver.NewVersion(p.Version)
		if err != nil {
			log.Warn("ignoring program version", zap.String("program", p.Name), zap.String("version", p.Version), zap.Error(err))
			continue
		}
		return v
	}
	return semver.MustParse(defaultVersion)
}

// programConst names the generated constant holding p's address.
func programConst(p *ir.ProgramNode) string {
	return "G" + naming.Pascal(p.Name) + "ID"
}
