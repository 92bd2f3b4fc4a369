package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
	"github.com/neo4j-field/cypher-guard/pkg/cyquery"
	"github.com/neo4j-field/cypher-guard/pkg/schema"
)

func personMovieSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()
	require.Nil(t, s.AddNodeProperty("Person", schema.NewPropertyDescriptor("name", schema.String)))
	require.Nil(t, s.AddNodeProperty("Person", schema.NewPropertyDescriptor("age", schema.Integer)))
	require.Nil(t, s.AddNodeProperty("Movie", schema.NewPropertyDescriptor("title", schema.String)))
	require.Nil(t, s.AddRelationship(schema.RelationshipPattern{Start: "Person", End: "Movie", Type: "ACTED_IN"}))
	require.Nil(t, s.AddRelationshipProperty("ACTED_IN", schema.NewPropertyDescriptor("role", schema.String)))
	return s
}

func TestExtractElementsSimpleMatch(t *testing.T) {
	q, perr := cyquery.Parse(`MATCH (p:Person {name: 'Alice'})-[r:ACTED_IN {role: 'lead'}]->(m:Movie) RETURN p.name`)
	require.Nil(t, perr)
	elements := ExtractElements(q)
	assert.True(t, elements.NodeLabels["Person"])
	assert.True(t, elements.NodeLabels["Movie"])
	assert.True(t, elements.RelationshipTypes["ACTED_IN"])
	assert.Len(t, elements.NodeProperties["Person"], 2)
	assert.Len(t, elements.RelationshipProperties["ACTED_IN"], 1)
}

func TestExtractElementsSplitsUnionTypes(t *testing.T) {
	q, perr := cyquery.Parse(`MATCH (a)-[:KNOWS|LIKES]->(b) RETURN a`)
	require.Nil(t, perr)
	elements := ExtractElements(q)
	assert.True(t, elements.RelationshipTypes["KNOWS"])
	assert.True(t, elements.RelationshipTypes["LIKES"])
}

func TestExtractElementsUndefinedVariable(t *testing.T) {
	q, perr := cyquery.Parse(`MATCH (p:Person) RETURN x.name`)
	require.Nil(t, perr)
	elements := ExtractElements(q)
	require.Len(t, elements.UndefinedVariables, 1)
	assert.Equal(t, "x", elements.UndefinedVariables[0].Name)
}

func TestValidateUnknownLabel(t *testing.T) {
	s := personMovieSchema(t)
	q, perr := cyquery.Parse(`MATCH (c:Company) RETURN c`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	require.Len(t, errs, 1)
	assert.Equal(t, cgerrors.InvalidNodeLabel, errs[0].Kind)
}

func TestValidateUnionRelationshipPropertyKeyedPerType(t *testing.T) {
	s := schema.New()
	require.Nil(t, s.AddRelationship(schema.RelationshipPattern{Start: "Person", End: "Person", Type: "KNOWS"}))
	require.Nil(t, s.AddRelationship(schema.RelationshipPattern{Start: "Person", End: "Person", Type: "LIKES"}))
	require.Nil(t, s.AddRelationshipProperty("KNOWS", schema.NewPropertyDescriptor("since", schema.Integer)))
	require.Nil(t, s.AddRelationshipProperty("LIKES", schema.NewPropertyDescriptor("since", schema.Integer)))
	q, perr := cyquery.Parse(`MATCH (a)-[:KNOWS|LIKES {since: 2020}]->(b) RETURN a`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	assert.Empty(t, errs)
}

func TestValidateUnionRelationshipPropertyRejectsOnEitherTypeMissingIt(t *testing.T) {
	s := schema.New()
	require.Nil(t, s.AddRelationship(schema.RelationshipPattern{Start: "Person", End: "Person", Type: "KNOWS"}))
	require.Nil(t, s.AddRelationship(schema.RelationshipPattern{Start: "Person", End: "Person", Type: "LIKES"}))
	require.Nil(t, s.AddRelationshipProperty("KNOWS", schema.NewPropertyDescriptor("since", schema.Integer)))
	q, perr := cyquery.Parse(`MATCH (a)-[:KNOWS|LIKES {since: 2020}]->(b) RETURN a`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	require.Len(t, errs, 1)
	assert.Equal(t, cgerrors.InvalidRelationshipProp, errs[0].Kind)
}

func TestValidateUnknownRelationshipType(t *testing.T) {
	s := personMovieSchema(t)
	q, perr := cyquery.Parse(`MATCH (p:Person)-[:DIRECTED]->(m:Movie) RETURN p`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	require.Len(t, errs, 1)
}

func TestValidateUnknownProperty(t *testing.T) {
	s := personMovieSchema(t)
	q, perr := cyquery.Parse(`MATCH (p:Person {nickname: 'Al'}) RETURN p`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	require.Len(t, errs, 1)
}

func TestValidatePropertyTypeMismatch(t *testing.T) {
	s := personMovieSchema(t)
	q, perr := cyquery.Parse(`MATCH (p:Person {age: 'not a number'}) RETURN p`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	require.Len(t, errs, 1)
}

func TestValidateFloatAcceptsIntegerLiteral(t *testing.T) {
	s := schema.New()
	require.Nil(t, s.AddNodeProperty("Sensor", schema.NewPropertyDescriptor("reading", schema.Float)))
	q, perr := cyquery.Parse(`MATCH (x:Sensor {reading: 5}) RETURN x`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	assert.Empty(t, errs)
}

func TestValidateValidQueryHasNoErrors(t *testing.T) {
	s := personMovieSchema(t)
	q, perr := cyquery.Parse(`MATCH (p:Person {name: 'Alice', age: 30})-[r:ACTED_IN {role: 'lead'}]->(m:Movie) RETURN p.name, m.title`)
	require.Nil(t, perr)
	errs := Validate(ExtractElements(q), s)
	assert.Empty(t, errs)
}

func TestValidateQueryFacade(t *testing.T) {
	s := personMovieSchema(t)
	assert.True(t, ValidateQuery(`MATCH (p:Person) RETURN p.name`, s))
	assert.False(t, ValidateQuery(`MATCH (c:Company) RETURN c`, s))
	assert.False(t, ValidateQuery(`MATCH (p:Person RETURN p`, s))
}

func TestCollectErrorsParseFailureShortCircuits(t *testing.T) {
	s := personMovieSchema(t)
	errs := CollectErrors(`RETURN p MATCH (p:Person)`, s)
	require.Len(t, errs, 1)
	assert.True(t, errs[0].IsParsing())
}

func TestProcedureCatalogOptInRejectsUnknownProcedure(t *testing.T) {
	s := personMovieSchema(t)
	query := `CALL some.unknown.proc() YIELD value RETURN value`
	assert.Empty(t, CollectErrors(query, s))
	errs := CollectErrors(query, s, WithProcedureCatalog())
	require.Len(t, errs, 1)
	assert.True(t, errs[0].IsValidation())
	assert.Equal(t, cgerrors.InvalidProcedure, errs[0].Validation().Kind)
}

func TestProcedureCatalogOptInAcceptsKnownProcedure(t *testing.T) {
	s := personMovieSchema(t)
	query := `CALL apoc.coll.sum([1,2,3]) YIELD value RETURN value`
	assert.Empty(t, CollectErrors(query, s, WithProcedureCatalog()))
}
