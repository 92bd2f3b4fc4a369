// Command cypherguard validates Cypher-like query patterns against a
// declared graph schema.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/neo4j-field/cypher-guard/pkg/cgconfig"
	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
	"github.com/neo4j-field/cypher-guard/pkg/schema"
	"github.com/neo4j-field/cypher-guard/pkg/validate"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	cfg := cgconfig.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:   "cypherguard",
		Short: "cypherguard validates Cypher-like query patterns against a graph schema",
		Long: `cypherguard checks that a query is syntactically well-formed and that
every label, relationship type, and property it touches is declared in a
schema file.`,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cypherguard v%s (%s)\n", version, commit)
		},
	})

	validateCmd := &cobra.Command{
		Use:   "validate [query]",
		Short: "Validate a query against a schema",
		Long: `Validate reads a query from the query argument, or from stdin if no
argument is given, parses it, and checks it against the schema file.

Exit code is 0 if the query is valid, 1 if it is not, 2 on a usage error.`,
		RunE: runValidate,
	}
	validateCmd.Flags().String("schema", cfg.SchemaPath, "path to the schema JSON file")
	validateCmd.Flags().String("output", cfg.OutputFormat, "output format: text or json")
	validateCmd.Flags().Bool("procedure-catalog", cfg.ProcedureCatalog, "reject CALL targets not in the built-in procedure catalog")
	rootCmd.AddCommand(validateCmd)

	describeCmd := &cobra.Command{
		Use:   "describe-schema",
		Short: "Print a human-readable summary of a schema file",
		RunE:  runDescribeSchema,
	}
	describeCmd.Flags().String("schema", cfg.SchemaPath, "path to the schema JSON file")
	rootCmd.AddCommand(describeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaPath, _ := cmd.Flags().GetString("schema")
	output, _ := cmd.Flags().GetString("output")
	procedureCatalog, _ := cmd.Flags().GetBool("procedure-catalog")

	if schemaPath == "" {
		return fmt.Errorf("no schema file given: pass --schema or set CYPHERGUARD_SCHEMA_PATH")
	}

	s, schemaErr := schema.FromJSONFile(schemaPath)
	if schemaErr != nil {
		return fmt.Errorf("loading schema: %w", schemaErr)
	}

	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}

	var opts []validate.Option
	if procedureCatalog {
		opts = append(opts, validate.WithProcedureCatalog())
	}

	errs := validate.CollectErrors(query, s, opts...)

	switch output {
	case "json":
		printJSON(cmd.OutOrStdout(), errs)
	default:
		printText(cmd.OutOrStdout(), errs)
	}

	if len(errs) > 0 {
		os.Exit(1)
	}
	return nil
}

func runDescribeSchema(cmd *cobra.Command, args []string) error {
	schemaPath, _ := cmd.Flags().GetString("schema")
	if schemaPath == "" {
		return fmt.Errorf("no schema file given: pass --schema or set CYPHERGUARD_SCHEMA_PATH")
	}

	s, schemaErr := schema.FromJSONFile(schemaPath)
	if schemaErr != nil {
		return fmt.Errorf("loading schema: %w", schemaErr)
	}

	fmt.Fprint(cmd.OutOrStdout(), s.String())
	return nil
}

func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no query given: pass it as an argument or pipe it on stdin")
	}
	return string(data), nil
}

func printText(w io.Writer, errs []*cgerrors.Error) {
	if len(errs) == 0 {
		fmt.Fprintln(w, "valid")
		return
	}
	fmt.Fprintln(w, "invalid")
	for _, e := range errs {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
}

func printJSON(w io.Writer, errs []*cgerrors.Error) {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}
	out := struct {
		Valid  bool     `json:"valid"`
		Errors []string `json:"errors"`
	}{
		Valid:  len(errs) == 0,
		Errors: messages,
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(out)
}
