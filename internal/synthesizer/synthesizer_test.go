package synthesizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userOrderGraph() Graph {
	return Graph{
		Entities: []Entity{
			{Name: "Users", Attributes: []string{"id", "name", "email"}},
			{Name: "Orders", Attributes: []string{"id", "user_id", "total", "status"}},
		},
		Relationships: []Relationship{
			{From: "Users", To: "Orders", Type: "one-to-many"},
		},
	}
}

func academicGraph() Graph {
	return Graph{
		Entities: []Entity{
			{Name: "Students", Attributes: []string{"student_id", "name", "email"}},
			{Name: "Courses", Attributes: []string{"course_id", "title"}},
			{Name: "Enrollments", Attributes: []string{"student_id", "course_id", "grade"}},
		},
		Relationships: []Relationship{
			{From: "Students", To: "Enrollments", Type: "one-to-many"},
			{From: "Courses", To: "Enrollments", Type: "one-to-many"},
		},
	}
}

func TestSynthesize_UserOrderCount(t *testing.T) {
	got := Synthesize(userOrderGraph(), "show all users and their order count")
	want := "SELECT u.name, u.email, COUNT(o.id) AS order_count\n" +
		"FROM Users u\n" +
		"LEFT JOIN Orders o ON u.id = o.user_id\n" +
		"GROUP BY u.id, u.name\n" +
		"ORDER BY order_count DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_PriceFilter(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Products", Attributes: []string{"id", "name", "price", "category"}},
		},
	}
	got := Synthesize(graph, "products with price greater than 50")
	want := "SELECT id, name, price\n" +
		"FROM Products\n" +
		"WHERE price > 50\n" +
		"ORDER BY price DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_EmptyGraph(t *testing.T) {
	require.Equal(t, "SELECT * FROM table_name LIMIT 10;", Synthesize(Graph{}, "anything at all"))
	require.Equal(t, "SELECT * FROM table_name LIMIT 10;", Synthesize(Graph{}, ""))
}

func TestSynthesize_StudentGradesByCourse(t *testing.T) {
	got := Synthesize(academicGraph(), "student grades for each course")
	want := "SELECT s.student_id, s.name, s.email, e.grade, c.title AS course_title\n" +
		"FROM Students s\n" +
		"JOIN Enrollments e ON s.student_id = e.student_id\n" +
		"JOIN Courses c ON e.course_id = c.course_id\n" +
		"ORDER BY s.name, c.title;"
	require.Equal(t, want, got)
}

// The named academic template must win even though Students and Courses are
// both detected and connected through relationships, which would otherwise
// satisfy the generic two-entity JOIN.
func TestSynthesize_NamedPatternBeatsGenericJoin(t *testing.T) {
	got := Synthesize(academicGraph(), "student grades for each course")
	assert.Contains(t, got, "JOIN Enrollments e")
	assert.NotContains(t, got, "LIMIT 10")
}

func TestSynthesize_GlobalFallback(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Orders", Attributes: []string{"id", "user_id", "total", "created_at"}},
		},
	}
	got := Synthesize(graph, "xyz")
	want := "SELECT id, user_id, total\n" +
		"FROM Orders\n" +
		"ORDER BY id DESC\n" +
		"LIMIT 10;"
	require.Equal(t, want, got)
}

func TestSynthesize_GlobalFallbackFirstEntity(t *testing.T) {
	// No entity matches the priority noun list, so the first one wins.
	graph := Graph{
		Entities: []Entity{
			{Name: "Shipments", Attributes: []string{"shipment_id", "carrier", "eta"}},
			{Name: "Warehouses", Attributes: []string{"warehouse_id", "city"}},
		},
	}
	got := Synthesize(graph, "xyz")
	assert.Contains(t, got, "FROM Shipments")
}

func TestSynthesize_GenericJoin(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Authors", Attributes: []string{"id", "name", "country"}},
			{Name: "Books", Attributes: []string{"id", "author_id", "title", "year"}},
		},
		Relationships: []Relationship{
			{From: "Authors", To: "Books", Type: "one-to-many"},
		},
	}
	got := Synthesize(graph, "books by author")
	want := "SELECT a.id, a.name, a.country, b.id, b.author_id, b.title\n" +
		"FROM Authors a\n" +
		"JOIN Books b ON a.id = b.author_id\n" +
		"ORDER BY a.id DESC\n" +
		"LIMIT 10;"
	require.Equal(t, want, got)
}

func TestSynthesize_GenericJoinReverseRelationship(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Authors", Attributes: []string{"id", "name"}},
			{Name: "Books", Attributes: []string{"id", "author_id", "title"}},
		},
		Relationships: []Relationship{
			// Declared in the opposite direction from detection order.
			{From: "Books", To: "Authors", Type: "many-to-one"},
		},
	}
	got := Synthesize(graph, "books by author")
	assert.Contains(t, got, "JOIN Books b ON a.id = b.author_id")
}

func TestSynthesize_InstructorsWithDepartments(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Instructors", Attributes: []string{"instructor_id", "name", "email", "phone", "department"}},
			{Name: "Departments", Attributes: []string{"department_id", "name"}},
		},
	}
	got := Synthesize(graph, "instructors and their departments")
	want := "SELECT i.instructor_id, i.name, i.email, i.phone, d.name AS department_name\n" +
		"FROM Instructors i\n" +
		"JOIN Departments d ON i.department = d.department_id\n" +
		"ORDER BY d.name, i.name;"
	require.Equal(t, want, got)
}

func TestSynthesize_CourseSchedules(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Schedules", Attributes: []string{"schedule_id", "day", "start_time", "end_time", "course_id"}},
			{Name: "Courses", Attributes: []string{"course_id", "title"}},
		},
	}
	got := Synthesize(graph, "weekly course schedule")
	want := "SELECT s.schedule_id, s.day, s.start_time, s.end_time, c.title AS course_title\n" +
		"FROM Schedules s\n" +
		"JOIN Courses c ON s.course_id = c.course_id\n" +
		"ORDER BY c.title, s.day, s.start_time;"
	require.Equal(t, want, got)
}

func TestSynthesize_CountRows(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Products", Attributes: []string{"id", "name", "price"}},
		},
	}
	got := Synthesize(graph, "count of products")
	require.Equal(t, "SELECT COUNT(*)\nFROM Products;", got)
}

func TestSynthesize_StatusPending(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Orders", Attributes: []string{"id", "user_id", "total", "status"}},
		},
	}
	got := Synthesize(graph, "orders with pending status")
	want := "SELECT id, user_id, total, status\n" +
		"FROM Orders\n" +
		"WHERE status = 'pending'\n" +
		"ORDER BY id DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_SalesByCategory(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Products", Attributes: []string{"id", "name", "price", "category"}},
		},
	}
	got := Synthesize(graph, "show total sales by category")
	want := "SELECT category, SUM(price) AS total_sales\n" +
		"FROM Products\n" +
		"GROUP BY category\n" +
		"ORDER BY total_sales DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_SalesByCategoryNeedsBothAttributes(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Products", Attributes: []string{"id", "name", "price"}},
		},
	}
	// Without a category attribute the rule declines and the entity
	// default answers instead.
	got := Synthesize(graph, "sales by category for products")
	assert.NotContains(t, got, "GROUP BY")
	assert.Contains(t, got, "FROM Products")
}

func TestSynthesize_RecentRows(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Orders", Attributes: []string{"id", "user_id", "total", "created_at"}},
		},
	}
	got := Synthesize(graph, "recent orders")
	want := "SELECT *\n" +
		"FROM Orders\n" +
		"WHERE created_at >= DATE_SUB(NOW(), INTERVAL 30 DAY)\n" +
		"ORDER BY created_at DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_SumTotal(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Orders", Attributes: []string{"id", "user_id", "total"}},
		},
	}
	got := Synthesize(graph, "total revenue")
	require.Equal(t, "SELECT SUM(total) AS total_revenue\nFROM Orders;", got)
}

func TestSynthesize_SearchLike(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Users", Attributes: []string{"id", "name", "email"}},
		},
	}
	got := Synthesize(graph, "find someone")
	want := "SELECT id, name, email\n" +
		"FROM Users\n" +
		"WHERE name LIKE '%search_term%';"
	require.Equal(t, want, got)
}

func TestSynthesize_ListAllNamedEntity(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Users", Attributes: []string{"id", "name", "email"}},
			{Name: "Products", Attributes: []string{"id", "name", "price"}},
		},
	}
	// The entity named in the description wins over the priority list.
	got := Synthesize(graph, "all products")
	want := "SELECT id, name, price\n" +
		"FROM Products\n" +
		"ORDER BY id DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_ListAllDeclinesWhenUnnamed(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Products", Attributes: []string{"id", "name", "price"}},
			{Name: "Users", Attributes: []string{"id", "name", "email"}},
		},
	}
	// No entity is named, so the request falls through to the global
	// fallback, which prefers Users over Products.
	got := Synthesize(graph, "show all rows")
	want := "SELECT id, name, email\n" +
		"FROM Users\n" +
		"ORDER BY id DESC\n" +
		"LIMIT 10;"
	require.Equal(t, want, got)
}

func TestSynthesize_CourseCreditFilter(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Courses", Attributes: []string{"course_id", "title", "credits"}},
		},
	}
	got := Synthesize(graph, "courses with more than 3 credits")
	want := "SELECT course_id, title, credits\n" +
		"FROM Courses\n" +
		"WHERE credits > 3\n" +
		"ORDER BY credits DESC;"
	require.Equal(t, want, got)
}

func TestSynthesize_EntityDefault(t *testing.T) {
	graph := Graph{
		Entities: []Entity{
			{Name: "Students", Attributes: []string{"student_id", "name", "email"}},
		},
	}
	got := Synthesize(graph, "student roster")
	want := "SELECT student_id, name, email\n" +
		"FROM Students\n" +
		"ORDER BY student_id DESC\n" +
		"LIMIT 10;"
	require.Equal(t, want, got)
}

func TestSynthesize_Deterministic(t *testing.T) {
	graph := userOrderGraph()
	first := Synthesize(graph, "show all users and their order count")
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Synthesize(graph, "show all users and their order count"))
	}
}

func TestSynthesize_Totality(t *testing.T) {
	graphs := []Graph{
		{},
		{Entities: []Entity{{Name: "Logs"}}},
		{Entities: []Entity{{Name: "X", Attributes: []string{"y"}}}},
		userOrderGraph(),
		academicGraph(),
	}
	descriptions := []string{"", "xyz", "count", "price", "status", "recent last",
		"total sum", "find search", "all", "student grade course", ");DROP TABLE--"}
	for _, g := range graphs {
		for _, d := range descriptions {
			got := Synthesize(g, d)
			require.NotEmpty(t, got)
			assert.True(t, strings.HasSuffix(got, ";"), "missing terminator for %q: %q", d, got)
		}
	}
}

func TestPrimaryKey(t *testing.T) {
	assert.Equal(t, "id", primaryKey(Entity{Name: "Products", Attributes: []string{"id", "name", "price"}}))
	assert.Equal(t, "order_id", primaryKey(Entity{Name: "Orders", Attributes: []string{"order_id", "total"}}))
	assert.Equal(t, "name", primaryKey(Entity{Name: "Tags", Attributes: []string{"name", "color"}}))
	assert.Equal(t, "id", primaryKey(Entity{Name: "Empty"}))
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "Student", singularize("Students"))
	// Naive by contract: trailing-character strip only.
	assert.Equal(t, "Boxe", singularize("Boxes"))
	assert.Equal(t, "", singularize(""))
}

func TestDetectEntities(t *testing.T) {
	g := userOrderGraph()
	detected := detectEntities(g, "orders placed by each user")
	require.Len(t, detected, 2)
	assert.Equal(t, "Users", detected[0].Name)
	assert.Equal(t, "Orders", detected[1].Name)

	assert.Empty(t, detectEntities(g, "nothing relevant"))
}
