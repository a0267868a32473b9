package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/hypermatch/internal/atom"
)

// SolutionSnapshot captures the rendered outcome of a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type SolutionSnapshot struct {
	ScenarioName string           `json:"scenario_name"`
	Query        string           `json:"query"`
	Solutions    []SolutionRecord `json:"solutions"`
	ErrorCode    string           `json:"error_code,omitempty"`
}

// toCanonicalMap converts a SolutionSnapshot to a map[string]any for canonical JSON serialization.
// This is required because atom.MarshalCanonical only handles primitives, slices and maps.
func (s *SolutionSnapshot) toCanonicalMap() map[string]any {
	solutions := make([]any, len(s.Solutions))
	for i, sol := range s.Solutions {
		bindings := make(map[string]any, len(sol.Bindings))
		for k, v := range sol.Bindings {
			bindings[k] = v
		}
		clauses := make([]any, len(sol.Clauses))
		for j, c := range sol.Clauses {
			clauses[j] = map[string]any{
				"pattern": c.Pattern,
				"data":    c.Data,
			}
		}
		solutions[i] = map[string]any{
			"bindings": bindings,
			"clauses":  clauses,
		}
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"query":         s.Query,
		"solutions":     solutions,
	}
	if s.ErrorCode != "" {
		result["error_code"] = s.ErrorCode
	}
	return result
}

// MarshalSnapshot renders the scenario outcome as canonical JSON.
func MarshalSnapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snapshot := SolutionSnapshot{
		ScenarioName: scenario.Name,
		Query:        scenario.Query,
		Solutions:    result.Solutions,
		ErrorCode:    result.ErrorCode,
	}
	return atom.MarshalCanonical(snapshot.toCanonicalMap())
}

// GoldenDir is where a scenario's golden file lives: a golden directory
// next to the scenario file, or testdata/golden for scenarios built in code.
func GoldenDir(scenario *Scenario) string {
	if scenario.Path == "" {
		return filepath.Join("testdata", "golden")
	}
	return filepath.Join(filepath.Dir(scenario.Path), "golden")
}

// GoldenPath is the golden file for a scenario, named after scenario.Name.
func GoldenPath(scenario *Scenario) string {
	return filepath.Join(GoldenDir(scenario), scenario.Name+".golden")
}

// RunWithGolden executes a scenario and compares its solutions against its
// golden file (see GoldenPath).
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the solutions don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir(scenario)),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
