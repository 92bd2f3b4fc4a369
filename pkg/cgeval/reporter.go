package cgeval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Reporter formats and outputs evaluation results.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a reporter that writes to w. A nil w writes to stdout.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{writer: w}
}

// PrintSummary prints a human-readable summary of results.
func (r *Reporter) PrintSummary(result *EvalResult) {
	w := r.writer

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║              cypher-guard Evaluation Results                    ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Suite: %s\n", result.SuiteName)
	fmt.Fprintf(w, "Time:  %s\n", result.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Duration: %v\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintln(w)

	passRate := 0.0
	if result.TotalCases > 0 {
		passRate = float64(result.PassedCases) / float64(result.TotalCases) * 100
	}
	status := "PASS"
	if result.FailedCases > 0 {
		status = "FAIL"
	}

	fmt.Fprintf(w, "[%s] %d/%d cases passed (%.1f%%)\n", status, result.PassedCases, result.TotalCases, passRate)
	fmt.Fprintln(w)

	if result.FailedCases == 0 {
		return
	}

	fmt.Fprintln(w, "┌─────────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(w, "│                       Failing Cases                             │")
	fmt.Fprintln(w, "└─────────────────────────────────────────────────────────────────┘")
	for _, cr := range result.Results {
		if cr.Passed {
			continue
		}
		fmt.Fprintf(w, "✗ %s: want_valid=%v got_valid=%v\n", cr.Case.Name, cr.Case.WantValid, cr.GotValid)
		fmt.Fprintf(w, "   %s\n", truncate(cr.Case.Cypher, 70))
		for _, e := range cr.Errors {
			fmt.Fprintf(w, "   - %s\n", e)
		}
	}
	fmt.Fprintln(w)
}

// PrintDetails prints a line per case, passing or failing.
func (r *Reporter) PrintDetails(result *EvalResult) {
	w := r.writer
	for _, cr := range result.Results {
		status := "✓"
		if !cr.Passed {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %-30s want_valid=%-5v got_valid=%-5v (%v)\n",
			status, cr.Case.Name, cr.Case.WantValid, cr.GotValid, cr.Duration.Round(time.Microsecond))
	}
}

// PrintJSON writes result to the reporter's writer as indented JSON.
func (r *Reporter) PrintJSON(result *EvalResult) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// SaveJSON writes result to path as indented JSON.
func (r *Reporter) SaveJSON(result *EvalResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// PrintCompact prints a one-line summary.
func (r *Reporter) PrintCompact(result *EvalResult) {
	status := "PASS"
	if result.FailedCases > 0 {
		status = "FAIL"
	}
	fmt.Fprintf(r.writer, "[%s] %d/%d cases | %v\n", status, result.PassedCases, result.TotalCases, result.Duration.Round(time.Millisecond))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
