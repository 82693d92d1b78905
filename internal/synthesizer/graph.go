package synthesizer

import "strings"

// Entity is a table-like structure from the ER diagram. Attribute order is
// significant: default projections take attributes front-to-back.
type Entity struct {
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// Relationship is a directed edge between two entities. Type (e.g.
// "one-to-many") is carried through but plays no part in key inference.
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Graph is the ER diagram supplied per request. It is never persisted here.
type Graph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// singularize strips the trailing character off a plural entity name
// ("Students" -> "Student"). It is deliberately naive and wrong for irregular
// plurals ("Boxes" -> "Boxe"); downstream matching depends on this exact
// behavior, so do not "fix" it.
func singularize(name string) string {
	if name == "" {
		return name
	}
	return name[:len(name)-1]
}

// entityByKind finds an entity whose name is kind or kind+"s",
// case-insensitive ("user" matches both "User" and "Users").
func (g Graph) entityByKind(kind string) (Entity, bool) {
	for _, e := range g.Entities {
		lower := strings.ToLower(e.Name)
		if lower == kind || lower == kind+"s" {
			return e, true
		}
	}
	return Entity{}, false
}

// entityContaining finds the first entity whose name contains the given
// fragment, used for bridge tables ("enrollment") and the like.
func (g Graph) entityContaining(fragment string) (Entity, bool) {
	for _, e := range g.Entities {
		if strings.Contains(strings.ToLower(e.Name), fragment) {
			return e, true
		}
	}
	return Entity{}, false
}

// relationshipBetween looks up a directed relationship, case-insensitive on
// both endpoints.
func (g Graph) relationshipBetween(from, to string) (Relationship, bool) {
	for _, rel := range g.Relationships {
		if strings.EqualFold(rel.From, from) && strings.EqualFold(rel.To, to) {
			return rel, true
		}
	}
	return Relationship{}, false
}

// detectEntities returns, in graph order, every entity whose name or
// singularized name appears in the lower-cased description.
func detectEntities(g Graph, queryLower string) []Entity {
	var detected []Entity
	for _, e := range g.Entities {
		lower := strings.ToLower(e.Name)
		if strings.Contains(queryLower, lower) || strings.Contains(queryLower, singularize(lower)) {
			detected = append(detected, e)
		}
	}
	return detected
}

// primaryKey infers an entity's key column: the first attribute containing
// "id" or ending in "_id", else the first attribute, else the literal "id".
func primaryKey(e Entity) string {
	for _, attr := range e.Attributes {
		lower := strings.ToLower(attr)
		if strings.Contains(lower, "id") || strings.HasSuffix(lower, "_id") {
			return attr
		}
	}
	if len(e.Attributes) > 0 {
		return e.Attributes[0]
	}
	return "id"
}

// joinKey scans e's attributes for one referencing other's singularized name
// ("Orders" side of Users<->Orders yields "user_id").
func joinKey(e, other Entity) (string, bool) {
	needle := strings.ToLower(singularize(other.Name))
	for _, attr := range e.Attributes {
		if strings.Contains(strings.ToLower(attr), needle) {
			return attr, true
		}
	}
	return "", false
}

// attrMatching returns the first attribute whose lower-cased name contains
// any of the given fragments.
func attrMatching(e Entity, fragments ...string) (string, bool) {
	for _, attr := range e.Attributes {
		lower := strings.ToLower(attr)
		for _, f := range fragments {
			if strings.Contains(lower, f) {
				return attr, true
			}
		}
	}
	return "", false
}

func firstN(attrs []string, n int) []string {
	if len(attrs) <= n {
		return attrs
	}
	return attrs[:n]
}

// alias is the first letter of the entity name, lower-cased.
func alias(e Entity) string {
	if e.Name == "" {
		return "t"
	}
	return strings.ToLower(e.Name[:1])
}

// qualify prefixes each attribute with an alias: "u" + [a b] -> "u.a, u.b".
func qualify(alias string, attrs []string) string {
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		parts = append(parts, alias+"."+attr)
	}
	return strings.Join(parts, ", ")
}
