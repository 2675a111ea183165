package harness

import (
	"fmt"
	"path"
	"strings"

	"github.com/roach88/idlcpp/internal/codegen"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Paths    []string // Rendered paths for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Paths) > 0 {
		fmt.Fprintf(&buf, "\nRendered files:\n")
		for _, p := range e.Paths {
			fmt.Fprintf(&buf, "  %s\n", p)
		}
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against m and returns the
// failure messages in assertion order.
func EvaluateAssertions(m *codegen.RenderMap, assertions []Assertion) []string {
	var out []string
	for _, a := range assertions {
		if err := evaluate(m, a); err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

func evaluate(m *codegen.RenderMap, a Assertion) error {
	switch a.Type {
	case AssertFileExists:
		return assertFileExists(m, a)
	case AssertFileAbsent:
		return assertFileAbsent(m, a)
	case AssertFileContains:
		return assertFileContains(m, a, true)
	case AssertFileLacks:
		return assertFileContains(m, a, false)
	case AssertFileCount:
		return assertFileCount(m, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertFileExists(m *codegen.RenderMap, a Assertion) error {
	if m.Has(a.Path) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("file %s", a.Path),
		Actual:   "not rendered",
		Paths:    m.Paths(),
	}
}

func assertFileAbsent(m *codegen.RenderMap, a Assertion) error {
	if !m.Has(a.Path) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("no file %s", a.Path),
		Actual:   "file was rendered",
	}
}

func assertFileContains(m *codegen.RenderMap, a Assertion, want bool) error {
	content, ok := m.Get(a.Path)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("file %s", a.Path),
			Actual:   "not rendered",
			Paths:    m.Paths(),
		}
	}
	if strings.Contains(content, a.Text) == want {
		return nil
	}
	if want {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s to contain %q", a.Path, a.Text),
			Actual:   "text not found",
		}
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s not to contain %q", a.Path, a.Text),
		Actual:   "text found",
	}
}

func assertFileCount(m *codegen.RenderMap, a Assertion) error {
	var matched []string
	for _, p := range m.Paths() {
		// The pattern was validated when the scenario was loaded.
		if ok, _ := path.Match(a.Path, p); ok {
			matched = append(matched, p)
		}
	}
	if len(matched) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d file(s) matching %s", a.Count, a.Path),
		Actual:   fmt.Sprintf("%d file(s)", len(matched)),
		Paths:    matched,
	}
}
