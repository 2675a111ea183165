package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/codegen"
	"github.com/roach88/idlcpp/internal/idl"
)

// Error code constants - unified across all CLI commands. Load failures
// reuse the codes of the idl package.
const (
	ErrCodeGeneric     = idl.ErrCodeGeneric
	ErrCodeNotFound    = idl.ErrCodeNotFound
	ErrCodeWriteFailed = "E007" // Output could not be written
	ErrCodeConfig      = "E008" // Config file or flags unusable
	ErrCodeNoInput     = "E009" // No IDL given

	ErrCodeRender         = "E201" // Generation failed
	ErrCodeUnsupported    = "E202" // Construct has no C++ rendering
	ErrCodeMissingContext = "E203" // Inline type without an enclosing name
	ErrCodeInvalidValue   = "E204" // Literal value cannot be rendered
	ErrCodeDuplicatePath  = "E205" // Two entities render to the same file
)

// Issue is one problem found while loading or rendering an IDL.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Flavor  string `json:"flavor,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// loadIDL loads path and converts any failure into issues.
func loadIDL(ctx context.Context, path string, strict bool, log *zap.Logger) (*idl.Document, []Issue) {
	doc, err := idl.Load(ctx, path, idl.Options{Strict: strict, Logger: log})
	if err != nil {
		return nil, loadIssues(err)
	}
	return doc, nil
}

func loadIssues(err error) []Issue {
	var problems idl.Problems
	if errors.As(err, &problems) {
		out := make([]Issue, 0, len(problems))
		for _, p := range problems {
			out = append(out, loadIssue(p))
		}
		return out
	}
	var loadErr *idl.LoadError
	if errors.As(err, &loadErr) {
		return []Issue{loadIssue(loadErr)}
	}
	return []Issue{{Code: ErrCodeGeneric, Message: err.Error()}}
}

func loadIssue(e *idl.LoadError) Issue {
	issue := Issue{Code: e.Code, Message: e.Message}
	if e.Pos.IsValid() {
		issue.File = e.Pos.Filename()
		issue.Line = e.Pos.Line()
		issue.Column = e.Pos.Column()
	}
	return issue
}

// loadExitCode reports missing or unreadable input as a command error and
// anything wrong with the document itself as a failure.
func loadExitCode(issues []Issue) int {
	for _, i := range issues {
		switch i.Code {
		case idl.ErrCodeNotFound, idl.ErrCodeReadFailed:
			return ExitCommandError
		}
	}
	return ExitFailure
}

// renderIssue classifies a generation error.
func renderIssue(err error, flavor string) Issue {
	code := ErrCodeRender
	switch {
	case errors.Is(err, codegen.ErrUnsupported):
		code = ErrCodeUnsupported
	case errors.Is(err, codegen.ErrMissingContext):
		code = ErrCodeMissingContext
	case errors.Is(err, codegen.ErrInvalidValue):
		code = ErrCodeInvalidValue
	case errors.Is(err, codegen.ErrDuplicatePath):
		code = ErrCodeDuplicatePath
	}
	return Issue{Code: code, Message: err.Error(), Flavor: flavor, Hint: errors.FlattenHints(err)}
}
