package schema

import (
	"fmt"
	"sort"
	"strings"
)

// String renders a short human-readable summary of the schema: label and
// relationship-type counts, sorted, for the CLI's describe-schema command.
func (s *Schema) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schema(%d labels, %d relationship types, %d relationships)\n",
		len(s.NodeProps), len(s.RelProps), len(s.Relationships))

	labels := sortedKeys(s.NodeProps)
	for _, label := range labels {
		props := propertyNames(s.NodeProps[label])
		fmt.Fprintf(&b, "  (:%s {%s})\n", label, strings.Join(props, ", "))
	}

	relTypes := sortedKeys(s.RelProps)
	for _, relType := range relTypes {
		props := propertyNames(s.RelProps[relType])
		fmt.Fprintf(&b, "  [:%s {%s}]\n", relType, strings.Join(props, ", "))
	}

	patterns := make([]string, len(s.Relationships))
	for i, r := range s.Relationships {
		patterns[i] = fmt.Sprintf("(%s)-[:%s]->(%s)", r.Start, r.Type, r.End)
	}
	sort.Strings(patterns)
	for _, p := range patterns {
		fmt.Fprintf(&b, "  %s\n", p)
	}

	return b.String()
}

func sortedKeys(m map[string][]PropertyDescriptor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func propertyNames(props []PropertyDescriptor) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = fmt.Sprintf("%s: %s", p.Name, p.Type)
	}
	return names
}
