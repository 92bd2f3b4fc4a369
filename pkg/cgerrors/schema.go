package cgerrors

import "fmt"

// SchemaKind discriminates the SchemaError variants.
type SchemaKind string

const (
	InvalidFormat            SchemaKind = "invalid_format"
	MissingField             SchemaKind = "missing_field"
	InvalidJSON              SchemaKind = "invalid_json"
	IOError                  SchemaKind = "io_error"
	LabelNotFound            SchemaKind = "label_not_found"
	DuplicateLabel           SchemaKind = "duplicate_label"
	RelationshipNotFound     SchemaKind = "relationship_not_found"
	DuplicateRelationship    SchemaKind = "duplicate_relationship"
	PropertyNotFound         SchemaKind = "property_not_found"
	DuplicateProperty        SchemaKind = "duplicate_property"
	InvalidPropertyTypeValue SchemaKind = "invalid_property_type"
	InvalidRelationshipShape SchemaKind = "invalid_relationship_pattern"
	InvalidConstraint        SchemaKind = "invalid_constraint"
	InvalidIndex             SchemaKind = "invalid_index"
	InvalidValueRange        SchemaKind = "invalid_value_range"
	InvalidDistinctCount     SchemaKind = "invalid_distinct_value_count"
	InvalidEnumValues        SchemaKind = "invalid_enum_values"
)

// SchemaError reports that the schema file or a mutating schema call is
// malformed. Schema errors never surface from Validate; they surface only
// from schema construction or persistence.
type SchemaError struct {
	Kind    SchemaKind
	Message string
	Min     float64
	Max     float64
	Count   int64
}

func (e *SchemaError) Error() string {
	switch e.Kind {
	case InvalidValueRange:
		return fmt.Sprintf("invalid value range: min=%v max=%v", e.Min, e.Max)
	case InvalidDistinctCount:
		return fmt.Sprintf("invalid distinct value count: %d", e.Count)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func newSchemaMsg(kind SchemaKind, message string) *SchemaError {
	return &SchemaError{Kind: kind, Message: message}
}

func NewInvalidFormat(message string) *SchemaError   { return newSchemaMsg(InvalidFormat, message) }
func NewMissingField(name string) *SchemaError        { return newSchemaMsg(MissingField, name) }
func NewInvalidJSON(message string) *SchemaError      { return newSchemaMsg(InvalidJSON, message) }
func NewIOError(message string) *SchemaError          { return newSchemaMsg(IOError, message) }
func NewLabelNotFound(label string) *SchemaError      { return newSchemaMsg(LabelNotFound, label) }
func NewDuplicateLabel(label string) *SchemaError     { return newSchemaMsg(DuplicateLabel, label) }
func NewRelationshipNotFound(relType string) *SchemaError {
	return newSchemaMsg(RelationshipNotFound, relType)
}
func NewDuplicateRelationship(relType string) *SchemaError {
	return newSchemaMsg(DuplicateRelationship, relType)
}
func NewPropertyNotFound(name string) *SchemaError    { return newSchemaMsg(PropertyNotFound, name) }
func NewDuplicateProperty(name string) *SchemaError   { return newSchemaMsg(DuplicateProperty, name) }
func NewInvalidPropertyTypeValue(name string) *SchemaError {
	return newSchemaMsg(InvalidPropertyTypeValue, name)
}
func NewInvalidRelationshipShape(message string) *SchemaError {
	return newSchemaMsg(InvalidRelationshipShape, message)
}
func NewInvalidConstraint(message string) *SchemaError {
	return newSchemaMsg(InvalidConstraint, message)
}
func NewInvalidIndex(message string) *SchemaError { return newSchemaMsg(InvalidIndex, message) }
func NewInvalidEnumValues(message string) *SchemaError {
	return newSchemaMsg(InvalidEnumValues, message)
}

func NewInvalidValueRange(min, max float64) *SchemaError {
	return &SchemaError{Kind: InvalidValueRange, Min: min, Max: max}
}

func NewInvalidDistinctValueCount(n int64) *SchemaError {
	return &SchemaError{Kind: InvalidDistinctCount, Count: n}
}
