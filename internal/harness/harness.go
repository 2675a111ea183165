package harness

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/idlcpp/internal/codegen"
	"github.com/roach88/idlcpp/internal/idl"
)

// Options configures Run.
type Options struct {
	Logger *zap.Logger
}

// Run loads the scenario's IDL, renders it and evaluates the assertions.
//
// Load and render failures are part of the result, not returned errors:
// a scenario may expect them. The returned error is reserved for a
// cancelled context.
func Run(ctx context.Context, scenario *Scenario, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("scenario", scenario.Name))

	result := NewResult()
	m, runErr := render(ctx, scenario, log)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if runErr != nil {
		result.RunError = runErr.Error()
		switch {
		case scenario.ExpectError == "":
			result.AddError(fmt.Sprintf("generation failed: %v", runErr))
		case !strings.Contains(result.RunError, scenario.ExpectError):
			result.AddError(fmt.Sprintf("expected error containing %q, got: %v", scenario.ExpectError, runErr))
		}
		return result, nil
	}
	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected error containing %q, generation succeeded", scenario.ExpectError))
	}

	result.Files = m
	result.Digest = m.Digest()
	for _, msg := range EvaluateAssertions(m, scenario.Assertions) {
		result.AddError(msg)
	}
	log.Debug("scenario finished", zap.Bool("pass", result.Pass), zap.Int("files", m.Len()))
	return result, nil
}

func render(ctx context.Context, scenario *Scenario, log *zap.Logger) (*codegen.RenderMap, error) {
	doc, err := idl.Load(ctx, scenario.IDL, idl.Options{Logger: log})
	if err != nil {
		return nil, err
	}
	r, err := codegen.NewRenderer(codegen.Options{
		Plugin:                   scenario.Plugin,
		Flavor:                   scenario.Flavor,
		RenderParentInstructions: scenario.RenderParentInstructions,
		IncludeInternal:          scenario.IncludeInternal,
		DependencyMap:            scenario.DependencyMap,
		Logger:                   log,
	})
	if err != nil {
		return nil, err
	}
	return r.RenderRoot(doc.Root)
}
