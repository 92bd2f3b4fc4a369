package validate

import (
	"github.com/neo4j-field/cypher-guard/pkg/catalog"
	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
	"github.com/neo4j-field/cypher-guard/pkg/cyquery"
	"github.com/neo4j-field/cypher-guard/pkg/schema"
)

// Option configures an optional check the façade does not run by default.
type Option func(*options)

type options struct {
	procedureCatalog bool
}

// WithProcedureCatalog opts into checking every CALL namespace.procedure
// target against pkg/catalog's static signature tables, producing
// InvalidProcedure for any CALL target the catalog does not recognize. This
// check is off by default: a schema has no notion of which procedures
// exist, so without opting in, an unrecognized CALL target is assumed to be
// a user-defined procedure the validator simply doesn't know about.
func WithProcedureCatalog() Option {
	return func(o *options) { o.procedureCatalog = true }
}

// Parse is a thin re-export of cyquery.Parse, so callers that only need an
// AST (no schema check) don't have to import both packages.
func Parse(queryString string) (*cyquery.Query, *cgerrors.ParsingError) {
	return cyquery.Parse(queryString)
}

// ValidateQuery runs parser → extractor → validator and reports whether the
// query is both syntactically well-formed and semantically valid against
// schema. A parse failure alone makes this false.
func ValidateQuery(queryString string, s *schema.Schema, opts ...Option) bool {
	return len(CollectErrors(queryString, s, opts...)) == 0
}

// CollectErrors runs the same pipeline as ValidateQuery but returns every
// error found instead of a boolean. A parse failure yields a single parsing
// error and no further validation, per the façade's contract.
func CollectErrors(queryString string, s *schema.Schema, opts ...Option) []*cgerrors.Error {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	query, perr := cyquery.Parse(queryString)
	if perr != nil {
		return []*cgerrors.Error{cgerrors.FromParsing(perr)}
	}

	elements := ExtractElements(query)

	var errs []*cgerrors.Error
	for _, u := range elements.UndefinedVariables {
		pos := cyquery.OffsetToLineColumn(queryString, u.Span.Start)
		errs = append(errs, cgerrors.FromParsing(cgerrors.NewUndefinedVariable(u.Name, pos.Line, pos.Column)))
	}

	for _, verr := range Validate(elements, s) {
		errs = append(errs, cgerrors.FromValidation(verr))
	}

	if o.procedureCatalog {
		for _, verr := range checkProcedureCatalog(query) {
			errs = append(errs, cgerrors.FromValidation(verr))
		}
	}

	return errs
}

func checkProcedureCatalog(q *cyquery.Query) []*cgerrors.ValidationError {
	var errs []*cgerrors.ValidationError
	for _, c := range q.CallClauses {
		if c.Subquery != nil || c.Procedure == "" {
			continue
		}
		full := c.Procedure
		if c.Namespace != "" {
			full = c.Namespace + "." + c.Procedure
		}
		if _, ok := catalog.Lookup(full); !ok {
			errs = append(errs, cgerrors.NewInvalidProcedureErr(full))
		}
	}
	return errs
}
