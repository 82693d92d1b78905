// Package synthesizer produces best-effort SQL from an entity-relationship
// graph and a free-text description, without calling a language model. It is
// the fallback path when remote generation is unavailable.
//
// Synthesize is total: it never fails and always returns a statement ending
// in ";". Matching is case-insensitive substring containment throughout; the
// description is never parsed into an AST.
package synthesizer

import "strings"

// EmptyGraphSQL is returned when the graph has no entities at all.
const EmptyGraphSQL = "SELECT * FROM table_name LIMIT 10;"

// Synthesize runs the description through the rule cascade and returns the
// first match. Identical inputs always produce identical output.
func Synthesize(graph Graph, description string) string {
	if len(graph.Entities) == 0 {
		return EmptyGraphSQL
	}

	req := &request{
		graph: graph,
		query: strings.ToLower(description),
	}
	req.detected = detectEntities(graph, req.query)

	for _, r := range rules {
		if sql, ok := r.apply(req); ok {
			return sql
		}
	}
	return EmptyGraphSQL
}
