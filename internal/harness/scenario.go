package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a match scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Graphs lists CUE documents to load, in order.
	// Paths are relative to the scenario file location.
	Graphs []string `yaml:"graphs"`

	// Query names the query to run. It must be defined in one of Graphs.
	Query string `yaml:"query"`

	// Backend selects the store: "memory" (default) or "sqlite".
	Backend string `yaml:"backend,omitempty"`

	// Lenient selects the overwrite variable policy instead of the
	// consistent one.
	Lenient bool `yaml:"lenient,omitempty"`

	// Limit stops after this many solutions; 0 means all.
	Limit int `yaml:"limit,omitempty"`

	// MaxComparisons bounds the search; 0 means unlimited.
	MaxComparisons int `yaml:"max_comparisons,omitempty"`

	// QueryID is the fixed ID used in logs.
	// If empty, defaults to "test-query-default".
	QueryID string `yaml:"query_id,omitempty"`

	// Assertions validate the solutions.
	Assertions []Assertion `yaml:"assertions"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "solution_count": exactly Count solutions
	// - "no_solutions": zero solutions and no error
	// - "binding": Variable bound to Value in some solution, or in
	//   solution Index when set
	// - "error": the run failed with Code
	Type string `yaml:"type"`

	// Count is the expected number of solutions (solution_count).
	Count int `yaml:"count,omitempty"`

	// Variable is the variable name without "$" (binding).
	Variable string `yaml:"variable,omitempty"`

	// Value is the expected bound atom as printed, e.g. (ConceptNode "dog").
	Value string `yaml:"value,omitempty"`

	// Index restricts a binding assertion to one solution (0-based).
	Index *int `yaml:"index,omitempty"`

	// Code is the expected error code (error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertSolutionCount = "solution_count"
	AssertNoSolutions   = "no_solutions"
	AssertBinding       = "binding"
	AssertError         = "error"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// LoadScenario reads and parses a scenario YAML file.
// Graph paths are resolved relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving graph paths relative to basePath.
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

	scenario.Path = path
	for i, g := range scenario.Graphs {
		if !filepath.IsAbs(g) && basePath != "" {
			scenario.Graphs[i] = filepath.Join(basePath, g)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Graphs) == 0 {
		return fmt.Errorf("graphs list is required and must be non-empty")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}

	switch s.Backend {
	case "", BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", s.Backend, BackendMemory, BackendSQLite)
	}

	if s.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}

	if s.MaxComparisons < 0 {
		return fmt.Errorf("max_comparisons must be non-negative")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, g := range s.Graphs {
		if _, err := os.Stat(g); os.IsNotExist(err) {
			return fmt.Errorf("graph file not found: %s", g)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSolutionCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for solution_count", index)
		}
	case AssertNoSolutions:
	case AssertBinding:
		if a.Variable == "" {
			return fmt.Errorf("assertions[%d]: variable is required for binding", index)
		}
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for binding", index)
		}
		if a.Index != nil && *a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for binding", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
