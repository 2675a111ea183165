package harness

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/idlcpp/internal/flavor"
)

// Scenario defines one generator run and what its output must look like.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// IDL is the input document. Relative paths are resolved against the
	// scenario file's directory.
	IDL string `yaml:"idl"`

	// Flavor defaults to unreal5.
	Flavor string `yaml:"flavor,omitempty"`

	// Plugin names the generated module.
	Plugin string `yaml:"plugin,omitempty"`

	RenderParentInstructions bool              `yaml:"render_parent_instructions,omitempty"`
	IncludeInternal          bool              `yaml:"include_internal,omitempty"`
	DependencyMap            map[string]string `yaml:"dependency_map,omitempty"`

	// ExpectError makes the scenario pass only if loading or rendering
	// fails with a message containing this text.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions validate the rendered files.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of the render map.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Path is a render map path, or a glob for file_count.
	Path string `yaml:"path"`

	// Text is the substring for file_contains and file_lacks.
	Text string `yaml:"text,omitempty"`

	// Count is the expected number of matches for file_count.
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFileExists   = "file_exists"
	AssertFileAbsent   = "file_absent"
	AssertFileContains = "file_contains"
	AssertFileLacks    = "file_lacks"
	AssertFileCount    = "file_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the IDL path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.IDL != "" && !filepath.IsAbs(scenario.IDL) && basePath != "" {
		scenario.IDL = filepath.Join(basePath, scenario.IDL)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.IDL == "" {
		return fmt.Errorf("idl is required")
	}
	if _, err := os.Stat(s.IDL); err != nil {
		return fmt.Errorf("idl file not found: %s", s.IDL)
	}
	if s.Flavor != "" {
		if _, err := flavor.Get(s.Flavor); err != nil {
			return err
		}
	}
	if s.ExpectError == "" && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one assertion or expect_error is required")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a, i); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(a Assertion, index int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Path == "" {
		return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
	}

	switch a.Type {
	case AssertFileExists, AssertFileAbsent:
	case AssertFileContains, AssertFileLacks:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertFileCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for file_count", index)
		}
		if _, err := path.Match(a.Path, ""); err != nil {
			return fmt.Errorf("assertions[%d]: invalid glob %q: %w", index, a.Path, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
