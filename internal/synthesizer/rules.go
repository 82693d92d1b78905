package synthesizer

import (
	"fmt"
	"strings"
)

// request carries one synthesis call through the rule cascade.
type request struct {
	graph    Graph
	query    string // lower-cased description
	detected []Entity
}

// A rule inspects the request and either produces SQL or declines, letting
// the cascade fall through to the next rule. Rules are evaluated in order;
// first match wins.
type rule struct {
	name  string
	apply func(*request) (string, bool)
}

// The cascade. Named multi-entity patterns come first, then the generic
// two-entity JOIN, then keyword-classified single-entity templates, then the
// per-entity and global fallbacks. The global fallback always matches when
// the graph has at least one entity.
var rules = []rule{
	{"student-grades-by-course", studentGradesByCourse},
	{"instructors-with-departments", instructorsWithDepartments},
	{"course-schedules", courseSchedules},
	{"user-order-count", userOrderCount},
	{"user-orders", userOrders},
	{"generic-join", genericJoin},
	{"count-rows", countRows},
	{"price-filter", priceFilter},
	{"status-filter", statusFilter},
	{"sales-by-category", salesByCategory},
	{"recent-rows", recentRows},
	{"sum-total", sumTotal},
	{"search-like", searchLike},
	{"list-all", listAll},
	{"entity-default", entityDefault},
	{"global-default", globalDefault},
}

func containsAny(query string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(query, w) {
			return true
		}
	}
	return false
}

func containsAll(query string, words ...string) bool {
	for _, w := range words {
		if !strings.Contains(query, w) {
			return false
		}
	}
	return true
}

// target picks the entity a single-entity keyword rule operates on: the
// first detected entity, else the rule's conventional kind.
func (r *request) target(kind string) (Entity, bool) {
	if len(r.detected) > 0 {
		return r.detected[0], true
	}
	return r.graph.entityByKind(kind)
}

// wantsGreater reports a "greater than" comparison in the description.
func (r *request) wantsGreater() bool {
	return containsAny(r.query, "greater", "more", ">")
}

// Students with grades per course, routed through the bridge entity.
// Column names are fixed by the academic template.
func studentGradesByCourse(r *request) (string, bool) {
	if !containsAll(r.query, "student", "grade", "course") {
		return "", false
	}
	student, ok := r.graph.entityByKind("student")
	if !ok {
		return "", false
	}
	course, ok := r.graph.entityByKind("course")
	if !ok {
		return "", false
	}
	enrollment, ok := r.graph.entityContaining("enrollment")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT s.student_id, s.name, s.email, e.grade, c.title AS course_title\n"+
			"FROM %s s\n"+
			"JOIN %s e ON s.student_id = e.student_id\n"+
			"JOIN %s c ON e.course_id = c.course_id\n"+
			"ORDER BY s.name, c.title;",
		student.Name, enrollment.Name, course.Name), true
}

func instructorsWithDepartments(r *request) (string, bool) {
	if !containsAll(r.query, "instructor", "department") {
		return "", false
	}
	instructor, ok := r.graph.entityByKind("instructor")
	if !ok {
		return "", false
	}
	department, ok := r.graph.entityByKind("department")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT i.instructor_id, i.name, i.email, i.phone, d.name AS department_name\n"+
			"FROM %s i\n"+
			"JOIN %s d ON i.department = d.department_id\n"+
			"ORDER BY d.name, i.name;",
		instructor.Name, department.Name), true
}

func courseSchedules(r *request) (string, bool) {
	if !containsAll(r.query, "schedule", "course") {
		return "", false
	}
	schedule, ok := r.graph.entityContaining("schedule")
	if !ok {
		return "", false
	}
	course, ok := r.graph.entityByKind("course")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT s.schedule_id, s.day, s.start_time, s.end_time, c.title AS course_title\n"+
			"FROM %s s\n"+
			"JOIN %s c ON s.course_id = c.course_id\n"+
			"ORDER BY c.title, s.day, s.start_time;",
		schedule.Name, course.Name), true
}

// Orders counted per user. Checked before the generic JOIN so that a count
// request gets the aggregate instead of a plain row join.
func userOrderCount(r *request) (string, bool) {
	if !containsAll(r.query, "user", "order", "count") {
		return "", false
	}
	user, order, ok := r.userOrderPair()
	if !ok {
		return "", false
	}
	nameAttr := attrAt(user, 1, "name")
	emailAttr := attrAt(user, 2, "email")
	userKey := primaryKey(user)
	orderKey := foreignKey(order, user)
	return fmt.Sprintf(
		"SELECT u.%s, u.%s, COUNT(o.%s) AS order_count\n"+
			"FROM %s u\n"+
			"LEFT JOIN %s o ON u.%s = o.%s\n"+
			"GROUP BY u.%s, u.%s\n"+
			"ORDER BY order_count DESC;",
		nameAttr, emailAttr, primaryKey(order),
		user.Name, order.Name, userKey, orderKey,
		userKey, nameAttr), true
}

func userOrders(r *request) (string, bool) {
	if !containsAll(r.query, "user", "order") {
		return "", false
	}
	user, order, ok := r.userOrderPair()
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT u.%s, u.%s, o.%s AS order_id, o.%s\n"+
			"FROM %s u\n"+
			"JOIN %s o ON u.%s = o.%s\n"+
			"ORDER BY o.%s DESC;",
		attrAt(user, 1, "name"), attrAt(user, 2, "email"),
		primaryKey(order), attrAt(order, 2, "total"),
		user.Name, order.Name, primaryKey(user), foreignKey(order, user),
		primaryKey(order)), true
}

func (r *request) userOrderPair() (Entity, Entity, bool) {
	user, ok := r.graph.entityByKind("user")
	if !ok {
		return Entity{}, Entity{}, false
	}
	order, ok := r.graph.entityByKind("order")
	if !ok {
		return Entity{}, Entity{}, false
	}
	if _, ok := r.graph.relationshipBetween(user.Name, order.Name); !ok {
		return Entity{}, Entity{}, false
	}
	return user, order, true
}

// genericJoin handles any two detected entities connected by a relationship
// in either direction. Projection is the first three attributes of each side;
// ordering is by the first entity's key.
func genericJoin(r *request) (string, bool) {
	if len(r.detected) < 2 {
		return "", false
	}
	e1, e2 := r.detected[0], r.detected[1]
	_, ok := r.graph.relationshipBetween(e1.Name, e2.Name)
	if !ok {
		_, ok = r.graph.relationshipBetween(e2.Name, e1.Name)
	}
	if !ok {
		return "", false
	}
	e1Key, found := joinKey(e1, e2)
	if !found {
		e1Key = primaryKey(e1)
	}
	e2Key, found := joinKey(e2, e1)
	if !found {
		e2Key = primaryKey(e2)
	}
	a1, a2 := alias(e1), alias(e2)
	projection := qualify(a1, firstN(e1.Attributes, 3)) + ", " + qualify(a2, firstN(e2.Attributes, 3))
	return fmt.Sprintf(
		"SELECT %s\n"+
			"FROM %s %s\n"+
			"JOIN %s %s ON %s.%s = %s.%s\n"+
			"ORDER BY %s.%s DESC\n"+
			"LIMIT 10;",
		projection,
		e1.Name, a1,
		e2.Name, a2, a1, e1Key, a2, e2Key,
		a1, primaryKey(e1)), true
}

func countRows(r *request) (string, bool) {
	if !strings.Contains(r.query, "count") {
		return "", false
	}
	target := priorityEntity(r.graph)
	if len(r.detected) > 0 {
		target = r.detected[0]
	}
	return fmt.Sprintf("SELECT COUNT(*)\nFROM %s;", target.Name), true
}

func priceFilter(r *request) (string, bool) {
	if !containsAny(r.query, "price", "cost") {
		return "", false
	}
	target, ok := r.target("product")
	if !ok {
		return "", false
	}
	priceAttr, ok := attrMatching(target, "price", "cost")
	if !ok {
		return "", false
	}
	projection := strings.Join(firstN(target.Attributes, 3), ", ")
	if r.wantsGreater() {
		return fmt.Sprintf(
			"SELECT %s\nFROM %s\nWHERE %s > 50\nORDER BY %s DESC;",
			projection, target.Name, priceAttr, priceAttr), true
	}
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nORDER BY %s ASC;",
		projection, target.Name, priceAttr), true
}

func statusFilter(r *request) (string, bool) {
	if !strings.Contains(r.query, "status") {
		return "", false
	}
	target, ok := r.target("order")
	if !ok {
		return "", false
	}
	statusAttr, ok := attrMatching(target, "status")
	if !ok {
		return "", false
	}
	projection := strings.Join(target.Attributes, ", ")
	if strings.Contains(r.query, "pending") {
		return fmt.Sprintf(
			"SELECT %s\nFROM %s\nWHERE %s = 'pending'\nORDER BY %s DESC;",
			projection, target.Name, statusAttr, primaryKey(target)), true
	}
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nORDER BY %s DESC;",
		projection, target.Name, primaryKey(target)), true
}

func salesByCategory(r *request) (string, bool) {
	if !containsAll(r.query, "sales", "category") {
		return "", false
	}
	target, ok := r.target("product")
	if !ok {
		return "", false
	}
	categoryAttr, ok := attrMatching(target, "category")
	if !ok {
		return "", false
	}
	priceAttr, ok := attrMatching(target, "price")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT %s, SUM(%s) AS total_sales\nFROM %s\nGROUP BY %s\nORDER BY total_sales DESC;",
		categoryAttr, priceAttr, target.Name, categoryAttr), true
}

func recentRows(r *request) (string, bool) {
	if !containsAny(r.query, "recent", "last") {
		return "", false
	}
	target, ok := r.target("order")
	if !ok {
		return "", false
	}
	dateAttr, ok := attrMatching(target, "date", "created", "time", "updated")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT *\nFROM %s\nWHERE %s >= DATE_SUB(NOW(), INTERVAL 30 DAY)\nORDER BY %s DESC;",
		target.Name, dateAttr, dateAttr), true
}

func sumTotal(r *request) (string, bool) {
	if !containsAny(r.query, "total", "sum") {
		return "", false
	}
	target, ok := r.target("order")
	if !ok {
		return "", false
	}
	totalAttr, ok := attrMatching(target, "total", "amount", "price", "cost", "quantity")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT SUM(%s) AS total_revenue\nFROM %s;",
		totalAttr, target.Name), true
}

func searchLike(r *request) (string, bool) {
	if !containsAny(r.query, "find", "search") {
		return "", false
	}
	target, ok := r.target("user")
	if !ok {
		return "", false
	}
	textAttr, ok := attrMatching(target, "name", "title", "description", "email")
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nWHERE %s LIKE '%%search_term%%';",
		strings.Join(target.Attributes, ", "), target.Name, textAttr), true
}

// listAll handles "all ..." requests. The entity named in the description
// wins; only when none is named does the fixed priority list decide, and
// then only for kinds the description actually mentions.
func listAll(r *request) (string, bool) {
	if !strings.Contains(r.query, "all") {
		return "", false
	}
	target, ok := Entity{}, false
	if len(r.detected) > 0 {
		target, ok = r.detected[0], true
	} else {
		for _, kind := range []string{"user", "order", "product", "student", "course"} {
			if !strings.Contains(r.query, kind) {
				continue
			}
			if target, ok = r.graph.entityByKind(kind); ok {
				break
			}
		}
	}
	if !ok {
		return "", false
	}
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nORDER BY %s DESC;",
		strings.Join(target.Attributes, ", "), target.Name, primaryKey(target)), true
}

// entityDefault fires when an entity was named in the description but no
// earlier rule produced anything. Courses get one extra check for a
// credit-threshold filter.
func entityDefault(r *request) (string, bool) {
	if len(r.detected) == 0 {
		return "", false
	}
	target := r.detected[0]
	if strings.Contains(strings.ToLower(target.Name), "course") &&
		strings.Contains(r.query, "credit") && r.wantsGreater() {
		if creditAttr, ok := attrMatching(target, "credit"); ok {
			return fmt.Sprintf(
				"SELECT %s\nFROM %s\nWHERE %s > 3\nORDER BY %s DESC;",
				strings.Join(target.Attributes, ", "), target.Name, creditAttr, creditAttr), true
		}
	}
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nORDER BY %s DESC\nLIMIT 10;",
		strings.Join(target.Attributes, ", "), target.Name, primaryKey(target)), true
}

// globalDefault always matches on a non-empty graph.
func globalDefault(r *request) (string, bool) {
	target := priorityEntity(r.graph)
	return fmt.Sprintf(
		"SELECT %s\nFROM %s\nORDER BY %s DESC\nLIMIT 10;",
		strings.Join(firstN(target.Attributes, 3), ", "), target.Name, primaryKey(target)), true
}

// priorityEntity scans a fixed list of common nouns against entity names and
// falls back to the first entity in the graph.
func priorityEntity(g Graph) Entity {
	for _, kind := range []string{"user", "customer", "student", "order", "product", "course"} {
		if e, ok := g.entityByKind(kind); ok {
			return e
		}
	}
	return g.Entities[0]
}

// attrAt returns the attribute at index i, or fallback when the entity has
// too few attributes.
func attrAt(e Entity, i int, fallback string) string {
	if i < len(e.Attributes) {
		return e.Attributes[i]
	}
	return fallback
}

// foreignKey infers the column on e that references other: an attribute
// containing other's singularized name, else the naming convention
// "<other-singular>_id".
func foreignKey(e, other Entity) string {
	if key, ok := joinKey(e, other); ok {
		return key
	}
	return strings.ToLower(singularize(other.Name)) + "_id"
}
