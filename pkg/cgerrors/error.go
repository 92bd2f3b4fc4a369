package cgerrors

import "fmt"

// Error is the top-level sum type returned by the façade: it wraps exactly
// one of a ParsingError, a SchemaError, or a ValidationError, plus a
// catch-all string variant for callers that need to surface an error this
// taxonomy has no dedicated kind for.
//
// Propagation policy: parsing errors terminate the pipeline immediately (no
// downstream passes run); schema errors surface only from schema
// construction or persistence, never from Validate; validation errors
// accumulate into a slice.
type Error struct {
	parsing    *ParsingError
	schema     *SchemaError
	validation *ValidationError
	invalid    string
	hasInvalid bool
}

func FromParsing(e *ParsingError) *Error       { return &Error{parsing: e} }
func FromSchema(e *SchemaError) *Error         { return &Error{schema: e} }
func FromValidation(e *ValidationError) *Error { return &Error{validation: e} }
func InvalidQuery(message string) *Error       { return &Error{invalid: message, hasInvalid: true} }

func (e *Error) Error() string {
	switch {
	case e.parsing != nil:
		return e.parsing.Error()
	case e.schema != nil:
		return e.schema.Error()
	case e.validation != nil:
		return e.validation.Error()
	default:
		return fmt.Sprintf("invalid query: %s", e.invalid)
	}
}

func (e *Error) IsParsing() bool    { return e.parsing != nil }
func (e *Error) IsSchema() bool     { return e.schema != nil }
func (e *Error) IsValidation() bool { return e.validation != nil }
func (e *Error) IsInvalidQuery() bool { return e.hasInvalid }

// Parsing returns the wrapped ParsingError, or nil if e does not wrap one.
func (e *Error) Parsing() *ParsingError { return e.parsing }

// Schema returns the wrapped SchemaError, or nil if e does not wrap one.
func (e *Error) Schema() *SchemaError { return e.schema }

// Validation returns the wrapped ValidationError, or nil if e does not wrap one.
func (e *Error) Validation() *ValidationError { return e.validation }

// InvalidQueryMessage returns the catch-all message, or "" if e is not that variant.
func (e *Error) InvalidQueryMessage() string { return e.invalid }
