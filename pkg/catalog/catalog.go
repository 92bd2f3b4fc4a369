// Package catalog holds read-only tables of well-known namespace.procedure
// signatures for the subset of optional checks that want to know whether a
// CALL target is a recognized built-in rather than a user-defined
// procedure. Nothing in pkg/validate consults this package by default; a
// caller opts in explicitly (see pkg/validate's facade options).
package catalog

// Signature describes one known procedure or function: its full dotted
// name, how many positional arguments it accepts, and the YIELD column
// names it produces (empty for a function rather than a procedure).
type Signature struct {
	Name      string
	MinArgs   int
	MaxArgs   int
	Yields    []string
	Procedure bool
}

// procedures is keyed by the full dotted name (`apoc.coll.sum`, not split
// into namespace/procedure) so lookups from a parsed CallClause only need
// one string concatenation.
var procedures = buildCatalog()

// Lookup returns the known signature for a dotted procedure or function
// name, and whether one was found.
func Lookup(fullName string) (Signature, bool) {
	sig, ok := procedures[fullName]
	return sig, ok
}

// Names returns every known signature name, for diagnostics and tests.
func Names() []string {
	names := make([]string, 0, len(procedures))
	for name := range procedures {
		names = append(names, name)
	}
	return names
}

func buildCatalog() map[string]Signature {
	sigs := []Signature{
		// apoc.coll: list utilities.
		{Name: "apoc.coll.sum", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.avg", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.max", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.min", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.sort", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.toSet", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.coll.flatten", MinArgs: 1, MaxArgs: 2},
		{Name: "apoc.coll.zip", MinArgs: 2, MaxArgs: 2},

		// apoc.text: string utilities.
		{Name: "apoc.text.join", MinArgs: 2, MaxArgs: 2},
		{Name: "apoc.text.split", MinArgs: 2, MaxArgs: 2},
		{Name: "apoc.text.replace", MinArgs: 3, MaxArgs: 3},
		{Name: "apoc.text.capitalize", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.text.levenshteinDistance", MinArgs: 2, MaxArgs: 2},

		// apoc.math: numeric utilities.
		{Name: "apoc.math.round", MinArgs: 1, MaxArgs: 2},
		{Name: "apoc.math.maxLong", MinArgs: 0, MaxArgs: 0},
		{Name: "apoc.math.minLong", MinArgs: 0, MaxArgs: 0},

		// apoc.date: temporal utilities.
		{Name: "apoc.date.parse", MinArgs: 1, MaxArgs: 4},
		{Name: "apoc.date.format", MinArgs: 1, MaxArgs: 4},
		{Name: "apoc.date.currentTimestamp", MinArgs: 0, MaxArgs: 0},

		// apoc.convert: type coercion.
		{Name: "apoc.convert.toJson", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.convert.fromJsonMap", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.convert.toString", MinArgs: 1, MaxArgs: 1},

		// apoc.map: map utilities.
		{Name: "apoc.map.merge", MinArgs: 2, MaxArgs: 2},
		{Name: "apoc.map.fromPairs", MinArgs: 1, MaxArgs: 1},
		{Name: "apoc.map.removeKey", MinArgs: 2, MaxArgs: 3},

		// apoc.node / apoc.rel: entity introspection, called as procedures
		// (they carry YIELD columns).
		{Name: "apoc.node.degree", MinArgs: 1, MaxArgs: 2, Procedure: true, Yields: []string{"value"}},
		{Name: "apoc.node.labels", MinArgs: 1, MaxArgs: 1, Procedure: true, Yields: []string{"value"}},
		{Name: "apoc.rel.type", MinArgs: 1, MaxArgs: 1, Procedure: true, Yields: []string{"value"}},

		// apoc.path: path-finding procedures.
		{Name: "apoc.path.expand", MinArgs: 5, MaxArgs: 5, Procedure: true, Yields: []string{"path"}},
		{Name: "apoc.path.subgraphAll", MinArgs: 2, MaxArgs: 2, Procedure: true, Yields: []string{"nodes", "relationships"}},

		// apoc.meta: schema introspection procedures.
		{Name: "apoc.meta.schema", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"value"}},
		{Name: "apoc.meta.stats", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"labels", "relTypesCount"}},

		// built-in (non-apoc) procedures.
		{Name: "db.labels", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"label"}},
		{Name: "db.relationshipTypes", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"relationshipType"}},
		{Name: "db.propertyKeys", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"propertyKey"}},
		{Name: "db.schema.visualization", MinArgs: 0, MaxArgs: 0, Procedure: true, Yields: []string{"nodes", "relationships"}},
	}

	catalog := make(map[string]Signature, len(sigs))
	for _, sig := range sigs {
		catalog[sig.Name] = sig
	}
	return catalog
}
