package schema

import (
	"encoding/json"
	"log"
	"os"

	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
)

// LoadDebug, when true, makes FromJSONString log a one-line summary of the
// schema it parsed (label, relationship-type, and relationship counts) via
// the package logger before returning it. Off by default; this supplements
// the original implementation's unconditional debug printf on every load
// with an opt-in flag logged through the ambient logger instead.
var LoadDebug = false

var logger = log.New(log.Writer(), "schema: ", log.LstdFlags)

type wireNeo4jType struct {
	Type  string  `json:"type"`
	Value *string `json:"value,omitempty"`
}

type wireProperty struct {
	Name               string        `json:"name"`
	Neo4jType          wireNeo4jType `json:"neo4j_type"`
	EnumValues         []string      `json:"enum_values"`
	MinValue           *float64      `json:"min_value"`
	MaxValue           *float64      `json:"max_value"`
	DistinctValueCount *int64        `json:"distinct_value_count"`
	ExampleValues      []string      `json:"example_values"`
}

type wireRelationship struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	RelType string `json:"rel_type"`
}

type wireConstraint struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	ConstraintType string  `json:"constraint_type,omitempty"`
	EntityType    string   `json:"entity_type,omitempty"`
	LabelsOrTypes []string `json:"labels_or_types,omitempty"`
	Properties    []string `json:"properties,omitempty"`
	OwnedIndex    string   `json:"owned_index,omitempty"`
}

type wireIndex struct {
	Label             string   `json:"label,omitempty"`
	Properties        []string `json:"properties,omitempty"`
	Size              int64    `json:"size,omitempty"`
	IndexType         string   `json:"index_type,omitempty"`
	ValuesSelectivity float64  `json:"values_selectivity,omitempty"`
	DistinctValues    int64    `json:"distinct_values,omitempty"`
}

type wireMetadata struct {
	Constraints []wireConstraint `json:"constraints"`
	Indexes     []wireIndex      `json:"indexes"`
}

type wireSchema struct {
	NodeProps     map[string][]wireProperty `json:"node_props"`
	RelProps      map[string][]wireProperty `json:"rel_props"`
	Relationships []wireRelationship        `json:"relationships"`
	Metadata      wireMetadata              `json:"metadata"`
}

func toWireProperty(p PropertyDescriptor) wireProperty {
	return wireProperty{
		Name:               p.Name,
		Neo4jType:          wireNeo4jType{Type: string(p.Type)},
		EnumValues:         p.EnumValues,
		MinValue:           p.MinValue,
		MaxValue:           p.MaxValue,
		DistinctValueCount: p.DistinctValueCount,
		ExampleValues:      p.ExampleValues,
	}
}

func fromWireProperty(w wireProperty) PropertyDescriptor {
	t, ok := PropertyTypeFromString(w.Neo4jType.Type)
	if !ok {
		t = String
	}
	return PropertyDescriptor{
		Name:               w.Name,
		Type:               t,
		EnumValues:         w.EnumValues,
		MinValue:           w.MinValue,
		MaxValue:           w.MaxValue,
		DistinctValueCount: w.DistinctValueCount,
		ExampleValues:      w.ExampleValues,
	}
}

func (s *Schema) toWire() wireSchema {
	w := wireSchema{
		NodeProps:     map[string][]wireProperty{},
		RelProps:      map[string][]wireProperty{},
		Relationships: []wireRelationship{},
		Metadata:      wireMetadata{Constraints: []wireConstraint{}, Indexes: []wireIndex{}},
	}
	for label, props := range s.NodeProps {
		list := make([]wireProperty, len(props))
		for i, p := range props {
			list[i] = toWireProperty(p)
		}
		w.NodeProps[label] = list
	}
	for relType, props := range s.RelProps {
		list := make([]wireProperty, len(props))
		for i, p := range props {
			list[i] = toWireProperty(p)
		}
		w.RelProps[relType] = list
	}
	for _, r := range s.Relationships {
		w.Relationships = append(w.Relationships, wireRelationship{Start: r.Start, End: r.End, RelType: r.Type})
	}
	for _, c := range s.Metadata.Constraints {
		w.Metadata.Constraints = append(w.Metadata.Constraints, wireConstraint{
			ID: c.ID, Name: c.Name, ConstraintType: string(c.Kind), EntityType: string(c.EntityKind),
			LabelsOrTypes: c.LabelsOrTypes, Properties: c.Properties, OwnedIndex: c.OwnedIndex,
		})
	}
	for _, idx := range s.Metadata.Indexes {
		w.Metadata.Indexes = append(w.Metadata.Indexes, wireIndex{
			Label: idx.Label, Properties: idx.Properties, Size: idx.Size, IndexType: idx.Kind,
			ValuesSelectivity: idx.Selectivity, DistinctValues: idx.DistinctValues,
		})
	}
	return w
}

func fromWire(w wireSchema) *Schema {
	s := New()
	for label, props := range w.NodeProps {
		list := make([]PropertyDescriptor, len(props))
		for i, p := range props {
			list[i] = fromWireProperty(p)
		}
		s.NodeProps[label] = list
	}
	for relType, props := range w.RelProps {
		list := make([]PropertyDescriptor, len(props))
		for i, p := range props {
			list[i] = fromWireProperty(p)
		}
		s.RelProps[relType] = list
	}
	for _, r := range w.Relationships {
		s.Relationships = append(s.Relationships, RelationshipPattern{Start: r.Start, End: r.End, Type: r.RelType})
	}
	for _, c := range w.Metadata.Constraints {
		s.Metadata.Constraints = append(s.Metadata.Constraints, Constraint{
			ID: c.ID, Name: c.Name, Kind: ConstraintKind(c.ConstraintType), EntityKind: EntityKind(c.EntityType),
			LabelsOrTypes: c.LabelsOrTypes, Properties: c.Properties, OwnedIndex: c.OwnedIndex,
		})
	}
	for _, idx := range w.Metadata.Indexes {
		s.Metadata.Indexes = append(s.Metadata.Indexes, Index{
			Label: idx.Label, Properties: idx.Properties, Size: idx.Size, Kind: idx.IndexType,
			Selectivity: idx.ValuesSelectivity, DistinctValues: idx.DistinctValues,
		})
	}
	return s
}

// ToJSONString renders the schema in the canonical shape documented in the
// external interfaces: node_props/rel_props keyed by label or relationship
// type, relationships as {start,end,rel_type} triples, and advisory
// metadata.
func (s *Schema) ToJSONString() (string, *cgerrors.SchemaError) {
	data, err := json.MarshalIndent(s.toWire(), "", "  ")
	if err != nil {
		return "", cgerrors.NewInvalidJSON(err.Error())
	}
	return string(data), nil
}

// ToJSONFile writes ToJSONString's output to path.
func (s *Schema) ToJSONFile(path string) *cgerrors.SchemaError {
	str, serr := s.ToJSONString()
	if serr != nil {
		return serr
	}
	if err := os.WriteFile(path, []byte(str), 0o644); err != nil {
		return cgerrors.NewIOError(err.Error())
	}
	return nil
}

// FromJSONString parses the canonical schema shape. Unknown top-level keys
// are ignored; missing keys default to empty collections.
func FromJSONString(s string) (*Schema, *cgerrors.SchemaError) {
	var w wireSchema
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, cgerrors.NewInvalidJSON(err.Error())
	}
	parsed := fromWire(w)
	if LoadDebug {
		logger.Printf("loaded schema: %d labels, %d relationship types, %d relationships",
			len(parsed.NodeProps), len(parsed.RelProps), len(parsed.Relationships))
	}
	return parsed, nil
}

// FromJSONFile reads path and parses it via FromJSONString.
func FromJSONFile(path string) (*Schema, *cgerrors.SchemaError) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cgerrors.NewIOError(err.Error())
	}
	return FromJSONString(string(data))
}
