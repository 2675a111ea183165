package harness

import "github.com/roach88/idlcpp/internal/codegen"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: the run behaved as expected and
	// every assertion held.
	Pass bool `json:"pass"`

	// Files is the render map. Nil when loading or rendering failed.
	Files *codegen.RenderMap `json:"-"`

	// Digest is the render map digest, empty when Files is nil.
	Digest string `json:"digest,omitempty"`

	// RunError is the load or render failure, if any.
	RunError string `json:"run_error,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
