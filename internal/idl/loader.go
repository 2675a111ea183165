package idl

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/ir"
)

//go:embed schema.cue
var schemaSource []byte

// Error code constants shared with the CLI.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeReadFailed = "E002" // File could not be read
	ErrCodeLoadFailed = "E004" // CUE or JSON syntax error
	ErrCodeNotFound   = "E005" // Path not found
	ErrCodeSchema     = "E006" // Document does not match the schema
	ErrCodeDecode     = "E104" // Node tree could not be decoded
	ErrCodeDuplicate  = "E105" // Two entities share a generated name
	ErrCodePublicKey  = "E106" // Program address is not a public key
	ErrCodeVersion    = "E107" // Version is not semver
)

// LoadError represents an error that occurred while loading an IDL.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Problems lists every semantic check that failed for a document.
type Problems []*LoadError

func (p Problems) Error() string {
	switch len(p) {
	case 0:
		return "no problems"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", p[0].Error(), len(p)-1)
}

// Options controls loading.
type Options struct {
	// Strict turns version warnings into errors.
	Strict bool
	Logger *zap.Logger
}

// Document is a loaded and checked IDL.
type Document struct {
	Path     string
	Root     *ir.RootNode
	Warnings []*LoadError
}

// Load reads a .json or .cue IDL file, validates it against the embedded
// schema and decodes it.
func Load(ctx context.Context, path string, opts Options) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("IDL file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing IDL file: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading IDL file: %v", err)}
	}
	return Parse(ctx, path, data, opts)
}

// Parse is Load for an in-memory document. The extension of name selects
// the syntax.
func Parse(ctx context.Context, name string, data []byte, opts Options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cctx := cuecontext.New()
	value, lerr := build(cctx, name, data)
	if lerr != nil {
		return nil, lerr
	}

	schema := cctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	unified := schema.LookupPath(cue.ParsePath("#Root")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchema, err, name)
	}

	raw, err := unified.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(ErrCodeSchema, err, name)
	}
	root, err := ir.DecodeRoot(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error()}
	}

	doc := &Document{Path: name, Root: root}
	var fatal Problems
	for _, p := range Check(root) {
		if p.Code == ErrCodeVersion && !opts.Strict {
			log.Warn("idl version is not semver", zap.String("path", name), zap.String("problem", p.Message))
			doc.Warnings = append(doc.Warnings, p)
			continue
		}
		fatal = append(fatal, p)
	}
	if len(fatal) > 0 {
		return nil, fatal
	}

	log.Debug("loaded idl",
		zap.String("path", name),
		zap.Int("programs", len(ir.AllPrograms(root))),
		zap.Int("instructions", len(ir.AllInstructions(root, false))))
	return doc, nil
}

func build(cctx *cue.Context, name string, data []byte) (cue.Value, *LoadError) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		expr, err := cuejson.Extract(name, data)
		if err != nil {
			return cue.Value{}, cueLoadError(ErrCodeLoadFailed, err, name)
		}
		v := cctx.BuildExpr(expr, cue.Filename(name))
		if err := v.Err(); err != nil {
			return cue.Value{}, cueLoadError(ErrCodeLoadFailed, err, name)
		}
		return v, nil
	case ".cue":
		v := cctx.CompileBytes(data, cue.Filename(name))
		if err := v.Err(); err != nil {
			return cue.Value{}, cueLoadError(ErrCodeLoadFailed, err, name)
		}
		return v, nil
	}
	return cue.Value{}, &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("unsupported IDL extension %q (want .json or .cue)", filepath.Ext(name)),
	}
}

// cueLoadError converts a CUE error, preferring a position inside the
// document over one inside the schema.
func cueLoadError(code string, err error, file string) *LoadError {
	msg := err.Error()
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		msg = errs[0].Error()
	}
	positions := cueerrors.Positions(err)
	pos := token.NoPos
	for _, p := range positions {
		if p.Filename() == file {
			pos = p
			break
		}
	}
	if !pos.IsValid() && len(positions) > 0 && positions[0].Filename() != "schema.cue" {
		pos = positions[0]
	}
	return &LoadError{Code: code, Message: msg, Pos: pos}
}
