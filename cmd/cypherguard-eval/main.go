// Command cypherguard-eval runs a YAML suite of query cases through the
// validator and reports how many match their expected valid/invalid
// outcome.
//
// Usage:
//
//	go run ./cmd/cypherguard-eval -suite suite.yaml -schema schema.json [flags]
//
// Flags:
//
//	-schema   Path to the schema JSON file (required unless CYPHERGUARD_SCHEMA_PATH is set)
//	-suite    Path to the test suite YAML file (required)
//	-output   Output format: summary, detailed, json, compact (default: summary)
//	-save     Save results to a JSON file
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neo4j-field/cypher-guard/pkg/cgconfig"
	"github.com/neo4j-field/cypher-guard/pkg/cgeval"
	"github.com/neo4j-field/cypher-guard/pkg/schema"
	"github.com/neo4j-field/cypher-guard/pkg/validate"
)

func main() {
	cfg := cgconfig.LoadFromEnv()

	schemaPath := flag.String("schema", cfg.SchemaPath, "Path to the schema JSON file")
	suitePath := flag.String("suite", "", "Path to the test suite YAML file")
	output := flag.String("output", "summary", "Output format: summary, detailed, json, compact")
	savePath := flag.String("save", "", "Save results to JSON file")
	procedureCatalog := flag.Bool("procedure-catalog", cfg.ProcedureCatalog, "Reject CALL targets not in the built-in procedure catalog")
	flag.Parse()

	if *schemaPath == "" || *suitePath == "" {
		fmt.Fprintln(os.Stderr, "usage: cypherguard-eval -schema <file> -suite <file> [flags]")
		os.Exit(2)
	}

	s, schemaErr := schema.FromJSONFile(*schemaPath)
	if schemaErr != nil {
		fmt.Fprintf(os.Stderr, "failed to load schema: %v\n", schemaErr)
		os.Exit(2)
	}

	suite, err := cgeval.LoadSuite(*suitePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load suite: %v\n", err)
		os.Exit(2)
	}

	var opts []validate.Option
	if *procedureCatalog {
		opts = append(opts, validate.WithProcedureCatalog())
	}

	harness := cgeval.NewHarness(s, opts...)
	result := harness.Run(suite)

	reporter := cgeval.NewReporter(os.Stdout)
	switch *output {
	case "summary":
		reporter.PrintSummary(result)
	case "detailed":
		reporter.PrintSummary(result)
		reporter.PrintDetails(result)
	case "json":
		_ = reporter.PrintJSON(result)
	case "compact":
		reporter.PrintCompact(result)
	default:
		reporter.PrintSummary(result)
	}

	if *savePath != "" {
		if err := reporter.SaveJSON(result, *savePath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save results: %v\n", err)
		} else {
			fmt.Printf("results saved to %s\n", *savePath)
		}
	}

	if result.FailedCases > 0 {
		os.Exit(1)
	}
}
