// Package validate extracts the set of schema-referencing elements from a
// parsed query (C8) and checks them against a schema (C9), with a small
// façade (C11) composing parse → extract → validate for callers that only
// want a pass/fail or an error list.
package validate

import "github.com/neo4j-field/cypher-guard/pkg/cyquery"

// PropertyUse is one property name observed on a label or relationship type,
// along with the literal value it was set to, when the use came from a
// property map rather than a bare access (`n.age` has no Value).
type PropertyUse struct {
	Name  string
	Value cyquery.Expression
}

// QueryElements is the deduplicated reference set a query makes against a
// schema: every label and relationship type it names, and every property it
// reads or writes on an entity whose label/type is known.
type QueryElements struct {
	NodeLabels             map[string]bool
	RelationshipTypes      map[string]bool
	NodeProperties         map[string][]PropertyUse
	RelationshipProperties map[string][]PropertyUse
	UndefinedVariables     []UndefinedVariableUse
}

// UndefinedVariableUse records a property access on a variable never
// introduced by any preceding pattern element in the same Query.
type UndefinedVariableUse struct {
	Name string
	Span cyquery.Span
}

func newQueryElements() QueryElements {
	return QueryElements{
		NodeLabels:             map[string]bool{},
		RelationshipTypes:      map[string]bool{},
		NodeProperties:         map[string][]PropertyUse{},
		RelationshipProperties: map[string][]PropertyUse{},
	}
}

// variableLabel tracks, within one Query, the label or relationship type
// bound to a variable the first time it's introduced by a pattern element,
// so that later property-access expressions (`n.age` in WHERE/RETURN) can
// resolve `n` back to its declared label by linear scan.
type variableLabel struct {
	label      string
	isRel      bool
	relType    string
	hasRelType bool
}

// ExtractElements walks every clause of the query and accumulates the four
// reference sets C8 defines. Recursion enters QuantifiedPathPattern and
// treats its inner pattern identically to a plain one.
func ExtractElements(q *cyquery.Query) QueryElements {
	elements := newQueryElements()
	vars := map[string]variableLabel{}

	walkElement := func(mel cyquery.MatchElement) {
		extractPattern(mel.Pattern, &elements, vars)
	}

	for _, m := range q.MatchClauses {
		for _, el := range m.Elements {
			walkElement(el)
		}
		if m.Where != nil {
			extractExpression(m.Where.Expression, &elements, vars)
		}
	}
	for _, m := range q.MergeClauses {
		walkElement(m.Element)
		for _, item := range m.OnCreate {
			extractSetItem(item, &elements, vars)
		}
		for _, item := range m.OnMatch {
			extractSetItem(item, &elements, vars)
		}
	}
	for _, c := range q.CreateClauses {
		for _, el := range c.Elements {
			walkElement(el)
		}
	}
	for _, c := range q.InsertClauses {
		for _, el := range c.Elements {
			walkElement(el)
		}
	}
	for _, w := range q.WithClauses {
		for _, item := range w.Items {
			extractExpression(item.Expression, &elements, vars)
		}
		if w.Where != nil {
			extractExpression(w.Where.Expression, &elements, vars)
		}
		for _, o := range w.OrderBy {
			extractExpression(o.Expression, &elements, vars)
		}
	}
	for _, w := range q.WhereClauses {
		extractExpression(w.Expression, &elements, vars)
	}
	for _, r := range q.ReturnClauses {
		for _, item := range r.Items {
			extractExpression(item.Expression, &elements, vars)
		}
		for _, o := range r.OrderBy {
			extractExpression(o.Expression, &elements, vars)
		}
	}
	for _, u := range q.UnwindClauses {
		extractExpression(u.Expression, &elements, vars)
	}
	for _, st := range q.SetClauses {
		for _, item := range st.Items {
			extractSetItem(item, &elements, vars)
		}
	}
	for _, c := range q.CallClauses {
		if c.Subquery != nil {
			sub := ExtractElements(c.Subquery)
			mergeInto(&elements, sub)
		}
		for _, arg := range c.Args {
			extractExpression(arg, &elements, vars)
		}
	}

	return elements
}

func extractSetItem(item cyquery.SetItem, elements *QueryElements, vars map[string]variableLabel) {
	if v, ok := vars[item.Variable]; ok {
		recordPropertyUse(elements, v, item.Property, item.Value)
	}
	extractExpression(item.Value, elements, vars)
}

func extractPattern(pattern []cyquery.PatternElement, elements *QueryElements, vars map[string]variableLabel) {
	for _, el := range pattern {
		switch node := el.(type) {
		case *cyquery.NodePattern:
			if node.Label != "" {
				elements.NodeLabels[node.Label] = true
			}
			v := variableLabel{label: node.Label}
			if node.Variable != "" {
				vars[node.Variable] = v
			}
			if node.Label != "" {
				for _, kv := range node.Properties {
					recordPropertyUse(elements, v, kv.Key, kv.Value)
					extractExpression(kv.Value, elements, vars)
				}
			}
		case *cyquery.RelationshipPattern:
			for _, t := range splitTypes(node.Type) {
				elements.RelationshipTypes[t] = true
			}
			v := variableLabel{isRel: true, relType: node.Type, hasRelType: node.Type != ""}
			if node.Variable != "" {
				vars[node.Variable] = v
			}
			if node.Type != "" {
				for _, kv := range node.Properties {
					recordPropertyUse(elements, v, kv.Key, kv.Value)
					extractExpression(kv.Value, elements, vars)
				}
			}
			if node.InnerWhere != nil {
				extractExpression(node.InnerWhere.Expression, elements, vars)
			}
		case *cyquery.QuantifiedPathPattern:
			extractPattern(node.Pattern, elements, vars)
			if node.InnerWhere != nil {
				extractExpression(node.InnerWhere.Expression, elements, vars)
			}
		}
	}
}

// recordPropertyUse keys a relationship-property use under each constituent
// type of a union relationship (`[:A|B|C]`), never under the joined string
// itself: the schema has no type literally named "A|B|C", so keying on the
// union would make every property on a typed-union relationship look
// undeclared.
func recordPropertyUse(elements *QueryElements, v variableLabel, property string, value cyquery.Expression) {
	if v.isRel {
		if !v.hasRelType {
			return
		}
		for _, t := range splitTypes(v.relType) {
			elements.RelationshipProperties[t] = append(elements.RelationshipProperties[t], PropertyUse{Name: property, Value: value})
		}
		return
	}
	if v.label == "" {
		return
	}
	elements.NodeProperties[v.label] = append(elements.NodeProperties[v.label], PropertyUse{Name: property, Value: value})
}

func extractExpression(expr cyquery.Expression, elements *QueryElements, vars map[string]variableLabel) {
	switch e := expr.(type) {
	case *cyquery.PropertyAccess:
		if v, ok := vars[e.Variable]; ok {
			recordPropertyUse(elements, v, e.Property, nil)
		} else {
			elements.UndefinedVariables = append(elements.UndefinedVariables, UndefinedVariableUse{Name: e.Variable, Span: e.Span})
		}
	case *cyquery.FunctionCall:
		for _, a := range e.Args {
			extractExpression(a, elements, vars)
		}
	case *cyquery.ListLiteral:
		for _, item := range e.Items {
			extractExpression(item, elements, vars)
		}
	case *cyquery.MapLiteral:
		for _, kv := range e.Entries {
			extractExpression(kv.Value, elements, vars)
		}
	case *cyquery.Comparison:
		extractExpression(e.Left, elements, vars)
		extractExpression(e.Right, elements, vars)
	case *cyquery.And:
		extractExpression(e.Left, elements, vars)
		extractExpression(e.Right, elements, vars)
	case *cyquery.Or:
		extractExpression(e.Left, elements, vars)
		extractExpression(e.Right, elements, vars)
	case *cyquery.Not:
		extractExpression(e.Inner, elements, vars)
	case *cyquery.Parenthesized:
		extractExpression(e.Inner, elements, vars)
	}
}

func mergeInto(dst *QueryElements, src QueryElements) {
	for k := range src.NodeLabels {
		dst.NodeLabels[k] = true
	}
	for k := range src.RelationshipTypes {
		dst.RelationshipTypes[k] = true
	}
	for k, v := range src.NodeProperties {
		dst.NodeProperties[k] = append(dst.NodeProperties[k], v...)
	}
	for k, v := range src.RelationshipProperties {
		dst.RelationshipProperties[k] = append(dst.RelationshipProperties[k], v...)
	}
	dst.UndefinedVariables = append(dst.UndefinedVariables, src.UndefinedVariables...)
}

// splitTypes splits a `A|B|C` relationship-type union into its parts; a
// plain type or an empty string (anonymous relationship) returns itself or
// nil respectively.
func splitTypes(t string) []string {
	if t == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(t); i++ {
		if t[i] == '|' {
			out = append(out, t[start:i])
			start = i + 1
		}
	}
	out = append(out, t[start:])
	return out
}
