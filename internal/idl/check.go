package idl

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/mr-tron/base58"

	"github.com/roach88/idlcpp/internal/ir"
	"github.com/roach88/idlcpp/internal/naming"
)

const publicKeyLen = 32

// Check runs the semantic checks the schema cannot express. Names are
// compared after PascalCase conversion because that is what ends up in file
// and type names.
func Check(root *ir.RootNode) []*LoadError {
	var out []*LoadError
	if root.Version != "" {
		if _, err := semver.NewVersion(root.Version); err != nil {
			out = append(out, &LoadError{Code: ErrCodeVersion, Message: fmt.Sprintf("root version %q: %v", root.Version, err)})
		}
	}

	programs := ir.AllPrograms(root)
	seen := newNames("program")
	for _, p := range programs {
		out = appendIf(out, seen.add("", p.Name))
	}
	for _, p := range programs {
		out = append(out, checkProgram(p)...)
	}
	return out
}

func checkProgram(p *ir.ProgramNode) []*LoadError {
	var out []*LoadError
	if err := checkPublicKey(p.PublicKey); err != "" {
		out = append(out, &LoadError{Code: ErrCodePublicKey, Message: fmt.Sprintf("program %s: %s", p.Name, err)})
	}
	if p.Version != "" {
		if _, err := semver.NewVersion(p.Version); err != nil {
			out = append(out, &LoadError{Code: ErrCodeVersion, Message: fmt.Sprintf("program %s: version %q: %v", p.Name, p.Version, err)})
		}
	}

	accounts := newNames("account")
	for _, a := range p.Accounts {
		out = appendIf(out, accounts.add(p.Name, a.Name))
	}
	types := newNames("defined type")
	for _, d := range p.DefinedTypes {
		out = appendIf(out, types.add(p.Name, d.Name))
	}
	pdas := newNames("pda")
	for _, d := range p.Pdas {
		out = appendIf(out, pdas.add(p.Name, d.Name))
	}
	instructions := newNames("instruction")
	for _, ix := range ir.InstructionsWithSubs(p, false) {
		out = appendIf(out, instructions.add(p.Name, ix.Name))
	}
	errs := newNames("error")
	codes := map[int]string{}
	for _, e := range p.Errors {
		out = appendIf(out, errs.add(p.Name, e.Name))
		if prev, ok := codes[e.Code]; ok {
			out = append(out, &LoadError{
				Code:    ErrCodeDuplicate,
				Message: fmt.Sprintf("program %s: errors %s and %s share code %d", p.Name, prev, e.Name, e.Code),
			})
			continue
		}
		codes[e.Code] = e.Name
	}
	return out
}

func checkPublicKey(key string) string {
	if key == "" {
		return "missing public key"
	}
	raw, err := base58.Decode(key)
	if err != nil {
		return fmt.Sprintf("public key %q is not base58: %v", key, err)
	}
	if len(raw) != publicKeyLen {
		return fmt.Sprintf("public key %q decodes to %d bytes, want %d", key, len(raw), publicKeyLen)
	}
	return ""
}

type names struct {
	what string
	seen map[string]string
}

func newNames(what string) *names {
	return &names{what: what, seen: map[string]string{}}
}

func (n *names) add(program, name string) *LoadError {
	key := naming.Pascal(name)
	prev, ok := n.seen[key]
	if !ok {
		n.seen[key] = name
		return nil
	}
	msg := fmt.Sprintf("duplicate %s name %q", n.what, name)
	if prev != name {
		msg = fmt.Sprintf("%s names %q and %q both become %s", n.what, prev, name, key)
	}
	if program != "" {
		msg = fmt.Sprintf("program %s: %s", program, msg)
	}
	return &LoadError{Code: ErrCodeDuplicate, Message: msg}
}

func appendIf(out []*LoadError, e *LoadError) []*LoadError {
	if e == nil {
		return out
	}
	return append(out, e)
}
