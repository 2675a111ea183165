package harness

import (
	"context"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"golang.org/x/tools/txtar"
)

// Snapshot serialises a result for golden comparison: the render map as a
// txtar archive, or the run error when generation failed.
func Snapshot(scenario *Scenario, result *Result) []byte {
	arc := &txtar.Archive{Comment: []byte(fmt.Sprintf("scenario: %s\n", scenario.Name))}
	if result.Files != nil {
		arc.Files = result.Files.Archive().Files
	} else {
		arc.Comment = append(arc.Comment, fmt.Sprintf("error: %s\n", result.RunError)...)
	}
	return txtar.Format(arc)
}

// RunWithGolden executes a scenario and compares its output against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, Options{})
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result))
}
