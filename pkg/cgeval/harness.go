// Package cgeval provides an evaluation harness for running a suite of
// Cypher-like queries through pkg/validate and checking the observed
// valid/invalid outcome against what the suite expects.
//
// Example usage:
//
//	suite, err := cgeval.LoadSuite("testdata/person_movie.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h := cgeval.NewHarness(schema)
//	result := h.Run(suite)
//
//	reporter := cgeval.NewReporter(os.Stdout)
//	reporter.PrintSummary(result)
package cgeval

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/neo4j-field/cypher-guard/pkg/schema"
	"github.com/neo4j-field/cypher-guard/pkg/validate"
)

// QueryCase is a single query within a suite, along with whether it is
// expected to validate cleanly or be rejected.
type QueryCase struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Cypher      string `yaml:"cypher"`

	// WantValid is the expected outcome: true if Cypher should pass both
	// syntax and schema validation, false if it should be rejected.
	WantValid bool `yaml:"want_valid"`
}

// Suite is a named collection of query cases.
type Suite struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Category    string      `yaml:"category"`
	Queries     []QueryCase `yaml:"queries"`
}

// LoadSuite reads a YAML suite file from disk.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite YAML: %w", err)
	}

	return &suite, nil
}

// CaseResult holds the outcome of running a single QueryCase. Errors is
// rendered to strings rather than kept as *cgerrors.Error so the result is
// directly JSON-serializable (cgerrors.Error's fields are all private).
type CaseResult struct {
	Case     QueryCase     `json:"case"`
	Errors   []string      `json:"errors,omitempty"`
	GotValid bool          `json:"got_valid"`
	Passed   bool          `json:"passed"`
	Duration time.Duration `json:"duration"`
}

// EvalResult is the complete outcome of running a Suite.
type EvalResult struct {
	SuiteName   string        `json:"suite_name"`
	Timestamp   time.Time     `json:"timestamp"`
	Duration    time.Duration `json:"duration"`
	Results     []CaseResult  `json:"results"`
	TotalCases  int           `json:"total_cases"`
	PassedCases int           `json:"passed_cases"`
	FailedCases int           `json:"failed_cases"`
}

// Harness runs suites of query cases against a single schema.
type Harness struct {
	schema  *schema.Schema
	options []validate.Option
}

// NewHarness creates a harness that validates against s.
func NewHarness(s *schema.Schema, opts ...validate.Option) *Harness {
	return &Harness{schema: s, options: opts}
}

// Run executes every case in suite and reports pass/fail per case.
func (h *Harness) Run(suite *Suite) *EvalResult {
	start := time.Now()
	results := make([]CaseResult, 0, len(suite.Queries))

	for _, qc := range suite.Queries {
		results = append(results, h.runCase(qc))
	}

	passed, failed := 0, 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	return &EvalResult{
		SuiteName:   suite.Name,
		Timestamp:   start,
		Duration:    time.Since(start),
		Results:     results,
		TotalCases:  len(results),
		PassedCases: passed,
		FailedCases: failed,
	}
}

func (h *Harness) runCase(qc QueryCase) CaseResult {
	start := time.Now()

	errs := validate.CollectErrors(qc.Cypher, h.schema, h.options...)
	gotValid := len(errs) == 0

	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}

	return CaseResult{
		Case:     qc,
		Errors:   messages,
		GotValid: gotValid,
		Passed:   gotValid == qc.WantValid,
		Duration: time.Since(start),
	}
}
