package validate

import (
	"sort"
	"strconv"

	"github.com/neo4j-field/cypher-guard/pkg/cgerrors"
	"github.com/neo4j-field/cypher-guard/pkg/cyquery"
	"github.com/neo4j-field/cypher-guard/pkg/schema"
)

// Validate checks an extracted reference set against a schema and returns
// every mismatch found; it never short-circuits on the first error. Map
// iteration is sorted so the output is deterministic across runs even though
// Go's map order is not, unlike the insertion-ordered collections the
// reference implementation walks.
func Validate(elements QueryElements, s *schema.Schema) []*cgerrors.ValidationError {
	var errs []*cgerrors.ValidationError

	for _, label := range sortedSet(elements.NodeLabels) {
		if !s.HasLabel(label) {
			errs = append(errs, cgerrors.NewInvalidNodeLabelErr(label))
		}
	}

	for _, relType := range sortedSet(elements.RelationshipTypes) {
		if !s.HasRelationshipType(relType) {
			errs = append(errs, cgerrors.NewInvalidRelationshipTypeErr(relType))
		}
	}

	for _, label := range sortedKeys(elements.NodeProperties) {
		for _, use := range elements.NodeProperties[label] {
			if !s.HasLabel(label) {
				continue
			}
			if !s.HasNodeProperty(label, use.Name) {
				errs = append(errs, cgerrors.NewInvalidNodePropertyErr(label, use.Name))
				continue
			}
			if use.Value != nil {
				if err := checkPropertyType(s, label, use.Name, use.Value, false); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	for _, relType := range sortedKeys(elements.RelationshipProperties) {
		for _, use := range elements.RelationshipProperties[relType] {
			if !s.HasRelationshipType(relType) {
				continue
			}
			if !s.HasRelationshipProperty(relType, use.Name) {
				errs = append(errs, cgerrors.NewInvalidRelationshipPropertyErr(relType, use.Name))
				continue
			}
			if use.Value != nil {
				if err := checkPropertyType(s, relType, use.Name, use.Value, true); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	return errs
}

// checkPropertyType compares a literal value's dynamic kind against the
// property's declared type. Only STRING/INTEGER/FLOAT/BOOLEAN are checked;
// POINT and DATETIME literals have no corresponding Cypher literal syntax in
// C3, so any value reaching one of those properties passes through
// unchecked (a decided Open Question, see SPEC_FULL.md §6). A FLOAT property
// also accepts an INTEGER literal, since the query grammar has no
// floating-point literal.
func checkPropertyType(s *schema.Schema, owner, property string, value cyquery.Expression, isRel bool) *cgerrors.ValidationError {
	lit, ok := value.(*cyquery.Literal)
	if !ok {
		return nil
	}

	var desc schema.PropertyDescriptor
	var found bool
	if isRel {
		desc, found = s.GetRelationshipProperty(owner, property)
	} else {
		desc, found = s.GetNodeProperty(owner, property)
	}
	if !found {
		return nil
	}

	actual, actualKind := literalKind(lit.Value)
	if actualKind == "" {
		return nil
	}

	switch desc.Type {
	case schema.String:
		if actualKind != "STRING" {
			return cgerrors.NewInvalidPropertyTypeErr(owner, property, string(desc.Type), actual)
		}
	case schema.Integer:
		if actualKind != "INTEGER" {
			return cgerrors.NewInvalidPropertyTypeErr(owner, property, string(desc.Type), actual)
		}
	case schema.Float:
		if actualKind != "FLOAT" && actualKind != "INTEGER" {
			return cgerrors.NewInvalidPropertyTypeErr(owner, property, string(desc.Type), actual)
		}
	case schema.Boolean:
		if actualKind != "BOOLEAN" {
			return cgerrors.NewInvalidPropertyTypeErr(owner, property, string(desc.Type), actual)
		}
	}
	return nil
}

// literalKind returns a printable value for the error message and the
// parsed literal's descriptor-kind label, in that order; the label is empty
// for null and for any unrecognized value.
func literalKind(v any) (string, string) {
	switch val := v.(type) {
	case string:
		return val, "STRING"
	case int64:
		return strconv.FormatInt(val, 10), "INTEGER"
	case bool:
		if val {
			return "true", "BOOLEAN"
		}
		return "false", "BOOLEAN"
	case nil:
		return "null", ""
	default:
		return "", ""
	}
}

func sortedSet(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string][]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
