package cgeval

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo4j-field/cypher-guard/pkg/schema"
)

func personSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()
	require.Nil(t, s.AddNodeProperty("Person", schema.NewPropertyDescriptor("name", schema.String)))
	return s
}

func TestLoadSuite(t *testing.T) {
	suite, err := LoadSuite("testdata/person_movie.yaml")
	require.NoError(t, err)
	assert.Equal(t, "person-movie", suite.Name)
	assert.Len(t, suite.Queries, 4)
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestHarnessRunReportsPassAndFail(t *testing.T) {
	suite, err := LoadSuite("testdata/person_movie.yaml")
	require.NoError(t, err)

	h := NewHarness(personSchema(t))
	result := h.Run(suite)

	assert.Equal(t, 4, result.TotalCases)
	assert.Equal(t, 4, result.PassedCases)
	assert.Equal(t, 0, result.FailedCases)
}

func TestHarnessRunDetectsMismatch(t *testing.T) {
	suite := &Suite{
		Name: "broken-expectations",
		Queries: []QueryCase{
			{Name: "expect-invalid-but-is-valid", Cypher: "MATCH (p:Person) RETURN p.name", WantValid: false},
		},
	}

	h := NewHarness(personSchema(t))
	result := h.Run(suite)

	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Passed)
	assert.True(t, result.Results[0].GotValid)
	assert.Equal(t, 1, result.FailedCases)
}

func TestHarnessRunSyntaxErrorCaseHasErrorMessages(t *testing.T) {
	suite := &Suite{
		Queries: []QueryCase{
			{Name: "bad-syntax", Cypher: "MATCH (p:Person RETURN p", WantValid: false},
		},
	}

	h := NewHarness(personSchema(t))
	result := h.Run(suite)

	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Passed)
	assert.NotEmpty(t, result.Results[0].Errors)
}

func TestReporterPrintSummaryAndCompact(t *testing.T) {
	suite, err := LoadSuite("testdata/person_movie.yaml")
	require.NoError(t, err)

	h := NewHarness(personSchema(t))
	result := h.Run(suite)

	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.PrintSummary(result)
	assert.Contains(t, buf.String(), "person-movie")
	assert.Contains(t, buf.String(), "PASS")

	buf.Reset()
	r.PrintCompact(result)
	assert.Contains(t, buf.String(), "4/4 cases")
}

func TestReporterPrintJSON(t *testing.T) {
	suite, err := LoadSuite("testdata/person_movie.yaml")
	require.NoError(t, err)

	h := NewHarness(personSchema(t))
	result := h.Run(suite)

	var buf bytes.Buffer
	r := NewReporter(&buf)
	require.NoError(t, r.PrintJSON(result))
	assert.Contains(t, buf.String(), "\"suite_name\"")
}
