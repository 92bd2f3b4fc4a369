package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personMovieSchema(t *testing.T) *Schema {
	t.Helper()
	s := New()
	require.Nil(t, s.AddLabel("Person"))
	require.Nil(t, s.AddLabel("Movie"))
	require.Nil(t, s.AddNodeProperty("Person", NewPropertyDescriptor("name", String)))
	require.Nil(t, s.AddNodeProperty("Person", NewPropertyDescriptor("age", Integer)))
	require.Nil(t, s.AddNodeProperty("Movie", NewPropertyDescriptor("title", String)))
	require.Nil(t, s.AddRelationship(RelationshipPattern{Start: "Person", End: "Person", Type: "KNOWS"}))
	require.Nil(t, s.AddRelationship(RelationshipPattern{Start: "Person", End: "Movie", Type: "ACTED_IN"}))
	require.Nil(t, s.AddRelationshipProperty("KNOWS", NewPropertyDescriptor("since", String)))
	require.Nil(t, s.AddRelationshipProperty("ACTED_IN", NewPropertyDescriptor("role", String)))
	return s
}

func TestAddLabelDuplicate(t *testing.T) {
	s := New()
	require.Nil(t, s.AddLabel("Person"))
	err := s.AddLabel("Person")
	require.NotNil(t, err)
	assert.Equal(t, "duplicate_label", string(err.Kind))
}

func TestRemoveLabelAbsent(t *testing.T) {
	s := New()
	err := s.RemoveLabel("Ghost")
	require.NotNil(t, err)
	assert.Equal(t, "label_not_found", string(err.Kind))
}

func TestAddRelationshipDuplicateTriple(t *testing.T) {
	s := New()
	pattern := RelationshipPattern{Start: "Person", End: "Person", Type: "KNOWS"}
	require.Nil(t, s.AddRelationship(pattern))
	err := s.AddRelationship(pattern)
	require.NotNil(t, err)
	assert.Equal(t, "duplicate_relationship", string(err.Kind))
}

func TestSameTypeDifferentLabelPairIsNotDuplicate(t *testing.T) {
	s := New()
	require.Nil(t, s.AddRelationship(RelationshipPattern{Start: "Person", End: "Person", Type: "KNOWS"}))
	require.Nil(t, s.AddRelationship(RelationshipPattern{Start: "Person", End: "Movie", Type: "KNOWS"}))
	assert.Len(t, s.Relationships, 2)
}

func TestRemoveRelationshipPurgesProperties(t *testing.T) {
	s := personMovieSchema(t)
	require.Nil(t, s.RemoveRelationship(RelationshipPattern{Start: "Person", End: "Movie", Type: "ACTED_IN"}))
	assert.False(t, s.HasRelationshipType("ACTED_IN"))
	_, ok := s.RelProps["ACTED_IN"]
	assert.False(t, ok)
}

func TestAddNodePropertyCreatesLabel(t *testing.T) {
	s := New()
	require.Nil(t, s.AddNodeProperty("Person", NewPropertyDescriptor("name", String)))
	assert.True(t, s.HasLabel("Person"))
	assert.True(t, s.HasNodeProperty("Person", "name"))
}

func TestAddNodePropertyDuplicateName(t *testing.T) {
	s := personMovieSchema(t)
	err := s.AddNodeProperty("Person", NewPropertyDescriptor("name", String))
	require.NotNil(t, err)
	assert.Equal(t, "duplicate_property", string(err.Kind))
}

func TestHasPropertyInNodesAndRelationships(t *testing.T) {
	s := personMovieSchema(t)
	assert.True(t, s.HasPropertyInNodes("title"))
	assert.False(t, s.HasPropertyInNodes("since"))
	assert.True(t, s.HasPropertyInRelationships("role"))
	assert.False(t, s.HasPropertyInRelationships("title"))
}

func TestValidateNoIssues(t *testing.T) {
	s := personMovieSchema(t)
	assert.Empty(t, s.Validate())
}

func TestValidateDetectsNonSnakeCaseProperty(t *testing.T) {
	s := New()
	require.Nil(t, s.AddNodeProperty("Person", NewPropertyDescriptor("firstName", String)))
	issues := s.Validate()
	require.NotEmpty(t, issues)
}

func TestValidateDetectsDuplicateNameAcrossLabelsAndTypes(t *testing.T) {
	s := New()
	require.Nil(t, s.AddLabel("KNOWS"))
	require.Nil(t, s.AddRelationship(RelationshipPattern{Start: "A", End: "B", Type: "KNOWS"}))
	issues := s.Validate()
	require.NotEmpty(t, issues)
}

func TestJSONRoundTrip(t *testing.T) {
	s := personMovieSchema(t)
	str, err := s.ToJSONString()
	require.Nil(t, err)

	loaded, err := FromJSONString(str)
	require.Nil(t, err)

	assert.ElementsMatch(t, keys(loaded.NodeProps), keys(s.NodeProps))
	assert.ElementsMatch(t, keys(loaded.RelProps), keys(s.RelProps))
	assert.ElementsMatch(t, loaded.Relationships, s.Relationships)
	assert.True(t, loaded.HasNodeProperty("Person", "name"))
	assert.True(t, loaded.HasRelationshipProperty("KNOWS", "since"))
}

func TestFromJSONStringMissingKeysDefaultEmpty(t *testing.T) {
	loaded, err := FromJSONString(`{}`)
	require.Nil(t, err)
	assert.Empty(t, loaded.NodeProps)
	assert.Empty(t, loaded.RelProps)
	assert.Empty(t, loaded.Relationships)
}

func TestFromJSONStringInvalidJSON(t *testing.T) {
	_, err := FromJSONString(`not json`)
	require.NotNil(t, err)
	assert.Equal(t, "invalid_json", string(err.Kind))
}

func TestPropertyTypeFromStringAliases(t *testing.T) {
	cases := map[string]PropertyType{
		"str":      String,
		"STRING":   String,
		"int":      Integer,
		"Integer":  Integer,
		"bool":     Boolean,
		"BOOLEAN":  Boolean,
		"float":    Float,
		"point":    Point,
		"datetime": DateTime,
	}
	for input, expected := range cases {
		got, ok := PropertyTypeFromString(input)
		require.True(t, ok, input)
		assert.Equal(t, expected, got)
	}

	_, ok := PropertyTypeFromString("bogus")
	assert.False(t, ok)
}

func keys(m map[string][]PropertyDescriptor) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
