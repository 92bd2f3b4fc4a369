// Package schema is the in-memory graph schema: labels, relationship
// patterns, typed property descriptors, and advisory constraints/indexes,
// plus the canonical JSON shape used to persist and reload a schema.
//
// A Schema is built through its mutation API, then treated as read-only for
// as many validations as the caller wishes to run against it. Nothing in
// this package synchronizes access: the caller must not mutate a Schema
// concurrently with a read, the same contract the validator documents for
// itself.
package schema

import "strings"

// PropertyType is the closed set of primitive value types a property
// descriptor can declare.
type PropertyType string

const (
	String   PropertyType = "STRING"
	Integer  PropertyType = "INTEGER"
	Float    PropertyType = "FLOAT"
	Boolean  PropertyType = "BOOLEAN"
	Point    PropertyType = "POINT"
	DateTime PropertyType = "DATETIME"
)

// PropertyTypeFromString parses a type name case-insensitively, accepting
// the short aliases ("STR", "INT", "BOOL") a human-authored schema file or a
// CLI flag is likely to use alongside the canonical names.
//
// Example:
//
//	PropertyTypeFromString("int")    // Integer, true
//	PropertyTypeFromString("STRING") // String, true
//	PropertyTypeFromString("bogus")  // "", false
func PropertyTypeFromString(s string) (PropertyType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "STRING", "STR":
		return String, true
	case "INTEGER", "INT":
		return Integer, true
	case "FLOAT":
		return Float, true
	case "BOOLEAN", "BOOL":
		return Boolean, true
	case "POINT":
		return Point, true
	case "DATETIME":
		return DateTime, true
	default:
		return "", false
	}
}

func (t PropertyType) String() string { return string(t) }

// PropertyDescriptor is a named, typed field attachable to either a label or
// a relationship type. All fields beyond Name and Type are optional
// metadata: enum membership, numeric bounds, a cardinality estimate, and
// sample values, all advisory and never consulted by the parser.
type PropertyDescriptor struct {
	Name               string
	Type               PropertyType
	EnumValues         []string
	MinValue           *float64
	MaxValue           *float64
	DistinctValueCount *int64
	ExampleValues      []string
}

// NewPropertyDescriptor returns a descriptor with the given name and type
// and no optional metadata set.
func NewPropertyDescriptor(name string, t PropertyType) PropertyDescriptor {
	return PropertyDescriptor{Name: name, Type: t}
}

func (d PropertyDescriptor) HasEnumValues() bool    { return len(d.EnumValues) > 0 }
func (d PropertyDescriptor) HasMinValue() bool      { return d.MinValue != nil }
func (d PropertyDescriptor) HasMaxValue() bool      { return d.MaxValue != nil }
func (d PropertyDescriptor) HasDistinctCount() bool { return d.DistinctValueCount != nil }
func (d PropertyDescriptor) HasExampleValues() bool { return len(d.ExampleValues) > 0 }

// RelationshipPattern is a declared (start label, relationship type, end
// label) triple. Uniqueness within a Schema is on the full triple: the same
// type may connect different label pairs.
type RelationshipPattern struct {
	Start string
	End   string
	Type  string
}

// ConstraintKind is the closed set of constraint kinds a schema can declare.
type ConstraintKind string

const (
	Unique  ConstraintKind = "UNIQUE"
	NodeKey ConstraintKind = "NODE_KEY"
	Exists  ConstraintKind = "EXISTS"
)

// EntityKind distinguishes a node-scoped constraint/index from a
// relationship-scoped one.
type EntityKind string

const (
	NodeEntity         EntityKind = "node"
	RelationshipEntity EntityKind = "rel"
)

// Constraint is advisory metadata describing a uniqueness, node-key, or
// existence constraint declared over one or more labels/types and
// properties. The validator never enforces constraints; they exist for
// callers that want to render schema documentation or drive external tools.
type Constraint struct {
	ID            string
	Name          string
	Kind          ConstraintKind
	EntityKind    EntityKind
	LabelsOrTypes []string
	Properties    []string
	OwnedIndex    string
}

// Index is advisory metadata describing a declared index: which label and
// properties it covers, its reported size, kind, and selectivity.
type Index struct {
	Label          string
	Properties     []string
	Size           int64
	Kind           string
	Selectivity    float64
	DistinctValues int64
}

// Metadata groups the advisory constraint and index lists carried alongside
// a Schema's labels and relationship patterns.
type Metadata struct {
	Constraints []Constraint
	Indexes     []Index
}

// NewMetadata returns an empty Metadata.
func NewMetadata() Metadata {
	return Metadata{Constraints: []Constraint{}, Indexes: []Index{}}
}
