package schema

import (
	"sort"

	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
)

// Schema owns four collections: the node and relationship property tables,
// the declared relationship patterns, and advisory metadata. A label is
// "known" iff it is a key of NodeProps; a relationship type is "known" iff
// some RelationshipPattern carries it: a label or type MAY appear in
// Relationships without a corresponding property-table entry, since schemas
// may declare entities without declaring any properties for them.
//
// Thread safety: Schema performs no internal synchronization. The contract
// (per the package doc) is that callers never mutate a Schema while any
// validation holds a reference to it.
type Schema struct {
	NodeProps     map[string][]PropertyDescriptor
	RelProps      map[string][]PropertyDescriptor
	Relationships []RelationshipPattern
	Metadata      Metadata
}

// New returns an empty Schema ready for population via the mutation API.
func New() *Schema {
	return &Schema{
		NodeProps:     map[string][]PropertyDescriptor{},
		RelProps:      map[string][]PropertyDescriptor{},
		Relationships: []RelationshipPattern{},
		Metadata:      NewMetadata(),
	}
}

// AddLabel declares label as known with no properties yet. Fails with
// DuplicateLabel if the label is already present.
//
// Example:
//
//	err := s.AddLabel("Person")
//	err := s.AddLabel("Person") // returns a DuplicateLabel SchemaError
func (s *Schema) AddLabel(label string) *cgerrors.SchemaError {
	if _, ok := s.NodeProps[label]; ok {
		return cgerrors.NewDuplicateLabel(label)
	}
	s.NodeProps[label] = []PropertyDescriptor{}
	return nil
}

// RemoveLabel deletes label and its property list. Fails with LabelNotFound
// if label is absent.
func (s *Schema) RemoveLabel(label string) *cgerrors.SchemaError {
	if _, ok := s.NodeProps[label]; !ok {
		return cgerrors.NewLabelNotFound(label)
	}
	delete(s.NodeProps, label)
	return nil
}

// AddRelationship declares pattern as known. Fails with
// DuplicateRelationship if an identical {start, end, type} triple already
// exists: the same type connecting a different label pair is not a
// duplicate.
func (s *Schema) AddRelationship(pattern RelationshipPattern) *cgerrors.SchemaError {
	for _, existing := range s.Relationships {
		if existing == pattern {
			return cgerrors.NewDuplicateRelationship(pattern.Type)
		}
	}
	s.Relationships = append(s.Relationships, pattern)
	return nil
}

// RemoveRelationship deletes pattern and, if no other relationship still
// carries pattern.Type, purges RelProps[pattern.Type] along with it. Fails
// with RelationshipNotFound if pattern is absent.
func (s *Schema) RemoveRelationship(pattern RelationshipPattern) *cgerrors.SchemaError {
	idx := -1
	for i, existing := range s.Relationships {
		if existing == pattern {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cgerrors.NewRelationshipNotFound(pattern.Type)
	}
	s.Relationships = append(s.Relationships[:idx], s.Relationships[idx+1:]...)
	if !s.HasRelationshipType(pattern.Type) {
		delete(s.RelProps, pattern.Type)
	}
	return nil
}

// AddNodeProperty attaches descriptor to label, implicitly creating the
// label if it is not yet known. Fails with DuplicateProperty
// if label already has a property by that name.
func (s *Schema) AddNodeProperty(label string, descriptor PropertyDescriptor) *cgerrors.SchemaError {
	if _, ok := s.NodeProps[label]; !ok {
		s.NodeProps[label] = []PropertyDescriptor{}
	}
	for _, existing := range s.NodeProps[label] {
		if existing.Name == descriptor.Name {
			return cgerrors.NewDuplicateProperty(descriptor.Name)
		}
	}
	s.NodeProps[label] = append(s.NodeProps[label], descriptor)
	return nil
}

// RemoveNodeProperty deletes the named property from label. Fails with
// LabelNotFound or PropertyNotFound as appropriate.
func (s *Schema) RemoveNodeProperty(label, name string) *cgerrors.SchemaError {
	props, ok := s.NodeProps[label]
	if !ok {
		return cgerrors.NewLabelNotFound(label)
	}
	for i, p := range props {
		if p.Name == name {
			s.NodeProps[label] = append(props[:i], props[i+1:]...)
			return nil
		}
	}
	return cgerrors.NewPropertyNotFound(name)
}

// AddRelationshipProperty attaches descriptor to relType, creating an entry
// in RelProps for relType if one does not already exist. Fails with
// DuplicateProperty if relType already has a property by that name.
func (s *Schema) AddRelationshipProperty(relType string, descriptor PropertyDescriptor) *cgerrors.SchemaError {
	if _, ok := s.RelProps[relType]; !ok {
		s.RelProps[relType] = []PropertyDescriptor{}
	}
	for _, existing := range s.RelProps[relType] {
		if existing.Name == descriptor.Name {
			return cgerrors.NewDuplicateProperty(descriptor.Name)
		}
	}
	s.RelProps[relType] = append(s.RelProps[relType], descriptor)
	return nil
}

// RemoveRelationshipProperty deletes the named property from relType. Fails
// with RelationshipNotFound or PropertyNotFound as appropriate.
func (s *Schema) RemoveRelationshipProperty(relType, name string) *cgerrors.SchemaError {
	props, ok := s.RelProps[relType]
	if !ok {
		return cgerrors.NewRelationshipNotFound(relType)
	}
	for i, p := range props {
		if p.Name == name {
			s.RelProps[relType] = append(props[:i], props[i+1:]...)
			return nil
		}
	}
	return cgerrors.NewPropertyNotFound(name)
}

func (s *Schema) HasLabel(label string) bool {
	_, ok := s.NodeProps[label]
	return ok
}

func (s *Schema) HasRelationshipType(relType string) bool {
	for _, r := range s.Relationships {
		if r.Type == relType {
			return true
		}
	}
	return false
}

func (s *Schema) HasRelationship(pattern RelationshipPattern) bool {
	for _, r := range s.Relationships {
		if r == pattern {
			return true
		}
	}
	return false
}

func (s *Schema) HasNodeProperty(label, name string) bool {
	for _, p := range s.NodeProps[label] {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s *Schema) HasRelationshipProperty(relType, name string) bool {
	for _, p := range s.RelProps[relType] {
		if p.Name == name {
			return true
		}
	}
	return false
}

func (s *Schema) GetNodeProperties(label string) []PropertyDescriptor {
	return s.NodeProps[label]
}

func (s *Schema) GetRelationshipProperties(relType string) []PropertyDescriptor {
	return s.RelProps[relType]
}

func (s *Schema) GetNodeProperty(label, name string) (PropertyDescriptor, bool) {
	for _, p := range s.NodeProps[label] {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}

func (s *Schema) GetRelationshipProperty(relType, name string) (PropertyDescriptor, bool) {
	for _, p := range s.RelProps[relType] {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}

// HasPropertyInNodes reports whether any label declares a property named
// name, regardless of which label.
func (s *Schema) HasPropertyInNodes(name string) bool {
	for _, props := range s.NodeProps {
		for _, p := range props {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// HasPropertyInRelationships reports whether any relationship type declares
// a property named name, regardless of which type.
func (s *Schema) HasPropertyInRelationships(name string) bool {
	for _, props := range s.RelProps {
		for _, p := range props {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// Validate returns a list of non-fatal issues: duplicate names across the
// union of labels and relationship types, and property names containing
// characters outside [a-z0-9_]. It never mutates or rejects the schema;
// these are advisory findings, not validation errors.
func (s *Schema) Validate() []string {
	var issues []string

	names := make([]string, 0, len(s.NodeProps)+len(s.RelProps))
	for label := range s.NodeProps {
		names = append(names, label)
	}
	relTypes := map[string]bool{}
	for relType := range s.RelProps {
		relTypes[relType] = true
	}
	for _, r := range s.Relationships {
		relTypes[r.Type] = true
	}
	for relType := range relTypes {
		names = append(names, relType)
	}
	sort.Strings(names)
	for i := 1; i < len(names); i++ {
		if names[i] == names[i-1] {
			issues = append(issues, "duplicate name across labels and relationship types: "+names[i])
		}
	}

	for label, props := range s.NodeProps {
		for _, p := range props {
			if !isSnakeCase(p.Name) {
				issues = append(issues, "property name is not snake_case: "+label+"."+p.Name)
			}
		}
	}
	for relType, props := range s.RelProps {
		for _, p := range props {
			if !isSnakeCase(p.Name) {
				issues = append(issues, "property name is not snake_case: "+relType+"."+p.Name)
			}
		}
	}

	sort.Strings(issues)
	return issues
}

func isSnakeCase(name string) bool {
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}
