package gen_test

import (
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pocogen/compiler/gen"
	_ "github.com/syssam/pocogen/compiler/gen/sql"
	"github.com/syssam/pocogen/graph"
	"github.com/syssam/pocogen/schema"
)

// =============================================================================
// Fixtures
// =============================================================================

func ordersTable() *schema.Table {
	id := schema.NewColumn("OrderID", "int")
	id.Identity = true
	t := schema.NewTable("dbo", "Orders",
		id,
		schema.NewColumn("CustomerName", "nvarchar").Null(),
		schema.NewColumn("Total", "money").WithDefault("((0))"),
		schema.NewColumn("Created", "datetime").WithDefault("(getdate())"),
		schema.NewColumn("Status", "varchar").WithEnum("open", "closed").WithDefault("('open')"),
	)
	t.SetPrimaryKey("PK_Orders", "OrderID")
	return t
}

// shop returns a sqlserver server with one database holding objs, every
// object included.
func shop(objs ...schema.Object) (*schema.Server, *schema.Database) {
	srv := schema.NewServer("local", schema.SQLServer)
	db := schema.NewDatabase("Shop")
	db.Add(objs...)
	srv.Add(db)
	for _, o := range objs {
		o.Info().Included = true
	}
	graph.Resolve(db)
	return srv, db
}

func run(t *testing.T, s *gen.Settings, h *gen.Hooks, srv *schema.Server) *gen.Output {
	t.Helper()
	var d *gen.Dispatcher
	if h != nil {
		d = h.Snapshot(nil)
	}
	out, err := gen.NewEngine(s, d, nil).Run(srv, nil)
	require.NoError(t, err)
	return out
}

func settings() *gen.Settings {
	s := gen.DefaultSettings()
	return &s
}

// =============================================================================
// Emission
// =============================================================================

func TestRunTable(t *testing.T) {
	srv, _ := shop(ordersTable())
	out := run(t, settings(), nil, srv)

	text := out.Text
	assert.True(t, strings.HasPrefix(text, gen.DefaultHeader+"\n\npackage models\n\nimport (\n\t\"time\"\n)\n\n"))
	assert.Contains(t, text, "// Order maps the table dbo.Orders.\n")
	assert.Contains(t, text, "type Order struct {\n")
	assert.Contains(t, text, "\tOrderID int32 `json:\"order_id\" db:\"OrderID\"`\n")
	assert.Contains(t, text, "\tCustomerName *string `json:\"customer_name,omitempty\" db:\"CustomerName\"`\n")
	assert.Contains(t, text, "\tTotal float64 `json:\"total\" db:\"Total\"`\n")
	assert.Contains(t, text, "\tStatus OrderStatus `json:\"status\" db:\"Status\"`\n")
	assert.Contains(t, text, "func (Order) TableName() string {\n\treturn \"dbo.Orders\"\n}\n")
	assert.Contains(t, text, "func NewOrder() *Order {\n\tv := &Order{}\n")
	assert.Contains(t, text, "\tv.Total = 0.0\n")
	assert.Contains(t, text, "\tv.Created = time.Now()\n")
	assert.Contains(t, text, "\tv.Status = OrderStatusOpen\n")
	assert.Contains(t, text, "type OrderStatus string\n")
	assert.Contains(t, text, "\tOrderStatusClosed OrderStatus = \"closed\"\n")
	assert.NotContains(t, text, "v.OrderID")

	_, err := format.Source([]byte(text))
	require.NoError(t, err, text)

	require.Len(t, out.Files, 1)
	assert.Equal(t, "models.go", out.Files[0].Name)
	assert.Equal(t, text, string(out.Files[0].Content))
	assert.Zero(t, out.Warnings)
	assert.False(t, out.Stopped)
}

func TestRunDeterministic(t *testing.T) {
	build := func() *schema.Server {
		customers := schema.NewTable("dbo", "Customers", schema.NewColumn("CustomerID", "int"))
		customers.SetPrimaryKey("PK_Customers", "CustomerID")
		orders := ordersTable()
		orders.Columns = append(orders.Columns, schema.NewColumn("CustomerID", "int"))
		orders.AddForeignKey("FK_Orders_Customers", customers, "CustomerID", "CustomerID")
		srv, _ := shop(customers, orders, schema.NewView("dbo", "OpenOrders", schema.NewColumn("OrderID", "int")))
		return srv
	}
	first := run(t, settings(), nil, build()).Text
	for range 5 {
		assert.Equal(t, first, run(t, settings(), nil, build()).Text)
	}
}

func TestRunRoutines(t *testing.T) {
	proc := schema.NewProcedure("dbo", "GetOrders", schema.NewColumn("OrderID", "int"))
	proc.Parameters = []*schema.Parameter{
		{Name: "@CustomerID", DataType: "int"},
		{Name: "@Count", DataType: "int", Nullable: true, Direction: schema.DirOut},
	}
	srv, _ := shop(proc)
	text := run(t, settings(), nil, srv).Text

	assert.Contains(t, text, "type GetOrdersResult struct {\n\tOrderID int32")
	assert.Contains(t, text, "type GetOrdersParams struct {\n\tCustomerID int32")
	assert.Contains(t, text, "\tCount *int32 `json:\"count,omitempty\" db:\"Count\"` // out\n")
	assert.NotContains(t, text, "TableName")
}

func TestRunErrorChain(t *testing.T) {
	broken := schema.NewTable("dbo", "Broken")
	broken.Err = fmt.Errorf("load columns: %w", errors.New("permission denied"))
	fine := schema.NewTable("dbo", "Fine", schema.NewColumn("ID", "int"))
	srv, _ := shop(broken, fine)

	out := run(t, settings(), nil, srv)
	assert.Contains(t, out.Text, "// Broken (table dbo.Broken) could not be generated:\n//\tload columns\n//\tpermission denied\n")
	assert.Contains(t, out.Text, "type Fine struct {")
	assert.NotContains(t, out.Text, "type Broken struct")
	assert.Equal(t, 1, out.Warnings)
}

func TestRunComplexTypes(t *testing.T) {
	customers := schema.NewTable("dbo", "Customers",
		schema.NewColumn("CustomerID", "int"),
		schema.NewColumn("Addr_Street", "nvarchar"),
		schema.NewColumn("Addr_City", "nvarchar").Null(),
	)
	srv, db := shop(customers)
	cts := schema.DetectComplexTypes(db, "_")
	require.Len(t, cts, 1)

	s := settings()
	s.ComplexTypes.Enabled = true
	text := run(t, s, nil, srv).Text

	assert.Contains(t, text, "type Customer struct {\n\tCustomerID int32 `json:\"customer_id\" db:\"CustomerID\"`\n\tAddr Addr `json:\"addr\" db:\"Addr\"`\n}\n")
	assert.Contains(t, text, "type Addr struct {\n\tStreet string `json:\"street\" db:\"Street\"`\n\tCity *string")
	assert.Less(t, strings.Index(text, "type Customer struct"), strings.Index(text, "type Addr struct"))

	s.ComplexTypes.Enabled = false
	text = run(t, s, nil, srv).Text
	assert.Contains(t, text, "\tAddrStreet string")
	assert.NotContains(t, text, "type Addr struct")
}

func TestRunNavigation(t *testing.T) {
	managers := schema.NewTable("dbo", "Managers", schema.NewColumn("ManagerID", "int"))
	managers.SetPrimaryKey("PK_Managers", "ManagerID")
	employees := schema.NewTable("dbo", "Employees",
		schema.NewColumn("EmployeeID", "int"),
		schema.NewColumn("ManagerID1", "int"),
		schema.NewColumn("ManagerID2", "int").Null(),
	)
	employees.SetPrimaryKey("PK_Employees", "EmployeeID")
	employees.AddForeignKey("FK_Employees_Manager1", managers, "ManagerID1", "ManagerID")
	employees.AddForeignKey("FK_Employees_Manager2", managers, "ManagerID2", "ManagerID")
	srv, _ := shop(managers, employees)

	text := run(t, settings(), nil, srv).Text
	assert.Contains(t, text, "\tManager1 *Manager `json:\"manager1,omitempty\" db:\"-\"`\n")
	assert.Contains(t, text, "\tManager2 *Manager `json:\"manager2,omitempty\" db:\"-\"`\n")
	assert.Contains(t, text, "\tEmployees1 []*Employee `json:\"employees1,omitempty\" db:\"-\"`\n")
	assert.Contains(t, text, "\tEmployees2 []*Employee")
	assert.Contains(t, text, "\tv.Employees1 = []*Employee{}\n")

	s := settings()
	s.Navigation.Enabled = false
	text = run(t, s, nil, srv).Text
	assert.NotContains(t, text, "*Manager")
}

func TestRunAccessibleTarget(t *testing.T) {
	customers := schema.NewTable("dbo", "Customers", schema.NewColumn("CustomerID", "int"))
	customers.SetPrimaryKey("PK_Customers", "CustomerID")
	orders := schema.NewTable("dbo", "Orders", schema.NewColumn("OrderID", "int"), schema.NewColumn("CustomerID", "int"))
	orders.AddForeignKey("FK_Orders_Customers", customers, "CustomerID", "CustomerID")

	srv := schema.NewServer("local", schema.SQLServer)
	db := schema.NewDatabase("Shop")
	db.Add(customers, orders)
	srv.Add(db)
	orders.Included = true
	require.Equal(t, []*schema.Table{customers}, graph.Resolve(db))

	text := run(t, settings(), nil, srv).Text
	assert.Contains(t, text, "\tCustomer *Customer")
	assert.NotContains(t, text, "type Customer struct")
}

func TestRunJoinTable(t *testing.T) {
	students := schema.NewTable("dbo", "Students", schema.NewColumn("StudentID", "int"))
	students.SetPrimaryKey("PK_Students", "StudentID")
	courses := schema.NewTable("dbo", "Courses", schema.NewColumn("CourseID", "int"))
	courses.SetPrimaryKey("PK_Courses", "CourseID")
	enrollments := schema.NewTable("dbo", "Enrollments", schema.NewColumn("StudentID", "int"), schema.NewColumn("CourseID", "int"))
	enrollments.SetPrimaryKey("PK_Enrollments", "StudentID", "CourseID")
	enrollments.AddForeignKey("FK_Enrollments_Students", students, "StudentID", "StudentID")
	enrollments.AddForeignKey("FK_Enrollments_Courses", courses, "CourseID", "CourseID")
	srv, _ := shop(students, courses, enrollments)

	text := run(t, settings(), nil, srv).Text
	assert.Contains(t, text, "\tCourses []*Course")
	assert.Contains(t, text, "\tStudents []*Student")
	assert.NotContains(t, text, "[]*Enrollment")

	s := settings()
	s.Navigation.JoinTables = true
	text = run(t, s, nil, srv).Text
	assert.Contains(t, text, "\tEnrollments []*Enrollment")
	assert.Contains(t, text, "\tStudent *Student")
}

func TestRunFilePerObject(t *testing.T) {
	srv, _ := shop(ordersTable(), schema.NewView("dbo", "OpenOrders", schema.NewColumn("OrderID", "int")))
	s := settings()
	s.Output.FilePerObject = true

	out := run(t, s, nil, srv)
	require.Len(t, out.Files, 2)
	assert.Equal(t, "order.go", out.Files[0].Name)
	assert.Equal(t, "open_order.go", out.Files[1].Name)
	for _, f := range out.Files {
		assert.True(t, strings.HasPrefix(string(f.Content), gen.DefaultHeader+"\n\npackage models\n"), f.Name)
		_, err := format.Source(f.Content)
		assert.NoError(t, err, f.Name)
	}
	assert.NotContains(t, string(out.Files[1].Content), "\"time\"")
}

func TestRunUnknownDialect(t *testing.T) {
	srv := schema.NewServer("local", "oracle")
	_, err := gen.NewEngine(settings(), nil, nil).Run(srv, nil)
	assert.ErrorIs(t, err, gen.ErrUnknownDialect)
}

// =============================================================================
// Hooks
// =============================================================================

// recorder subscribes to every hook and records the fired ids.
func recorder(h *gen.Hooks, fired *[]string) {
	for l := gen.LevelServer; l <= gen.LevelTVP; l++ {
		for _, id := range []gen.HookID{gen.Generating(l), gen.Generated(l), gen.POCO(l)} {
			h.On(id, func(ev *gen.Event) gen.Action {
				name := id.String()
				if ev.Object != nil {
					name += " " + ev.Object.Info().Name
				}
				*fired = append(*fired, name)
				return gen.Continue
			})
		}
	}
}

func TestHookOrder(t *testing.T) {
	srv, _ := shop(ordersTable(), schema.NewView("dbo", "OpenOrders", schema.NewColumn("OrderID", "int")))
	h := gen.NewHooks()
	var fired []string
	recorder(h, &fired)
	run(t, settings(), h, srv)

	assert.Equal(t, []string{
		"server/generating",
		"database/generating",
		"tables/generating",
		"table/generating Orders",
		"table/poco Orders",
		"table/generated Orders",
		"tables/generated",
		"views/generating",
		"view/generating OpenOrders",
		"view/poco OpenOrders",
		"view/generated OpenOrders",
		"views/generated",
		"procedures/generating",
		"procedures/generated",
		"functions/generating",
		"functions/generated",
		"tvps/generating",
		"tvps/generated",
		"database/generated",
		"server/generated",
	}, fired)
}

func TestHookSkip(t *testing.T) {
	t.Run("group", func(t *testing.T) {
		srv, _ := shop(ordersTable(), schema.NewView("dbo", "OpenOrders", schema.NewColumn("OrderID", "int")))
		h := gen.NewHooks()
		h.On(gen.Generating(gen.LevelTables), func(*gen.Event) gen.Action { return gen.Skip })
		var fired []string
		recorder(h, &fired)

		out := run(t, settings(), h, srv)
		assert.NotContains(t, out.Text, "type Order struct")
		assert.Contains(t, out.Text, "type OpenOrder struct")
		assert.NotContains(t, fired, "tables/generated")
		assert.Contains(t, fired, "views/generated")
	})

	t.Run("first table", func(t *testing.T) {
		t1 := schema.NewTable("dbo", "T1", schema.NewColumn("ID", "int"))
		t2 := schema.NewTable("dbo", "T2", schema.NewColumn("ID", "int"))
		srv, _ := shop(t1, t2)
		h := gen.NewHooks()
		h.On(gen.Generating(gen.LevelTable), func(ev *gen.Event) gen.Action {
			if ev.Object == t1 {
				return gen.Skip
			}
			return gen.Continue
		})

		out := run(t, settings(), h, srv)
		assert.NotContains(t, out.Text, "type T1 struct")
		assert.Contains(t, out.Text, "type T2 struct")
	})
}

func TestHookStop(t *testing.T) {
	t1 := schema.NewTable("dbo", "T1", schema.NewColumn("ID", "int"))
	t2 := schema.NewTable("dbo", "T2", schema.NewColumn("ID", "int"))
	srv, _ := shop(t1, t2)
	h := gen.NewHooks()
	var texts []string
	h.On(gen.POCO(gen.LevelTable), func(ev *gen.Event) gen.Action {
		texts = append(texts, ev.Text)
		return gen.Stop
	})
	var fired []string
	recorder(h, &fired)

	out := run(t, settings(), h, srv)
	assert.True(t, out.Stopped)
	assert.Contains(t, out.Text, "type T1 struct")
	assert.NotContains(t, out.Text, "type T2 struct")
	require.Len(t, texts, 1)
	assert.True(t, strings.HasPrefix(texts[0], "// T1 maps the table dbo.T1.\ntype T1 struct {"))
	assert.Equal(t, "server/generated", fired[len(fired)-1])
	assert.NotContains(t, fired, "table/generated T1")
	assert.NotContains(t, fired, "database/generated")
}

func TestHookStopGenerating(t *testing.T) {
	t1 := schema.NewTable("dbo", "T1", schema.NewColumn("ID", "int"))
	t2 := schema.NewTable("dbo", "T2", schema.NewColumn("ID", "int"))
	srv, _ := shop(t1, t2)
	h := gen.NewHooks()
	h.On(gen.Generating(gen.LevelTable), func(ev *gen.Event) gen.Action {
		if ev.Object.Info().Name == "T2" {
			return gen.Stop
		}
		return gen.Continue
	})
	var pocos []string
	h.On(gen.POCO(gen.LevelTable), func(ev *gen.Event) gen.Action {
		pocos = append(pocos, ev.Object.Info().Name)
		return gen.Continue
	})

	out := run(t, settings(), h, srv)
	assert.True(t, out.Stopped)
	assert.Equal(t, []string{"T1"}, pocos)
	assert.Contains(t, out.Text, "type T1 struct")
	assert.NotContains(t, out.Text, "type T2 struct")

	t.Run("FirstObject", func(t *testing.T) {
		h := gen.NewHooks()
		h.On(gen.Generating(gen.LevelTable), func(*gen.Event) gen.Action { return gen.Stop })
		var pocos int
		h.On(gen.POCO(gen.LevelTable), func(*gen.Event) gen.Action {
			pocos++
			return gen.Continue
		})
		out := run(t, settings(), h, srv)
		assert.True(t, out.Stopped)
		assert.Zero(t, pocos)
		assert.NotContains(t, out.Text, "struct {")
	})
}

func TestHookNamespace(t *testing.T) {
	srv, _ := shop(ordersTable())
	h := gen.NewHooks()
	var namespaces []string
	h.On(gen.Generating(gen.LevelDatabase), func(ev *gen.Event) gen.Action {
		ev.Namespace = "shop"
		return gen.Continue
	})
	h.On(gen.Generated(gen.LevelTable), func(ev *gen.Event) gen.Action {
		namespaces = append(namespaces, ev.Namespace)
		return gen.Continue
	})

	out := run(t, settings(), h, srv)
	assert.Contains(t, out.Text, "package shop\n")
	assert.Equal(t, []string{"shop"}, namespaces)
}

func TestHookPOCOWithoutListener(t *testing.T) {
	srv, _ := shop(ordersTable())
	sink := &gen.BufferSink{}
	require.NoError(t, sink.StartSnapshot())

	out, err := gen.NewEngine(settings(), gen.NewHooks().Snapshot(nil), nil).Run(srv, sink)
	require.NoError(t, err)
	assert.Zero(t, out.Warnings)
	assert.Equal(t, out.Text, sink.String())
}

func TestObjectSwitches(t *testing.T) {
	srv, _ := shop(ordersTable(), schema.NewView("dbo", "OpenOrders", schema.NewColumn("OrderID", "int")))
	s := settings()
	s.Objects.Views = false
	h := gen.NewHooks()
	var fired []string
	recorder(h, &fired)

	out := run(t, s, h, srv)
	assert.NotContains(t, out.Text, "OpenOrder")
	assert.NotContains(t, fired, "views/generating")
}

// =============================================================================
// Writer
// =============================================================================

func TestWriter(t *testing.T) {
	t.Run("writes files", func(t *testing.T) {
		dir := t.TempDir()
		w := gen.NewWriter(dir).WithWorkers(2).WithFormat(false)
		files := []gen.File{
			{Name: "a.go", Content: []byte("package models\n")},
			{Name: "b.go", Content: []byte("package models\n\ntype B struct{}\n")},
		}
		require.NoError(t, w.Write(t.Context(), files))

		data, err := os.ReadFile(filepath.Join(dir, "b.go"))
		require.NoError(t, err)
		assert.Equal(t, "package models\n\ntype B struct{}\n", string(data))
		assert.Equal(t, 2, w.Metrics().FilesWritten)
	})

	t.Run("keeps unformattable output", func(t *testing.T) {
		dir := t.TempDir()
		err := gen.NewWriter(dir).Write(t.Context(), []gen.File{{Name: "bad.go", Content: []byte("package models\nfunc {")}})

		require.Error(t, err)
		assert.True(t, gen.IsGenerationError(err))
		assert.FileExists(t, filepath.Join(dir, "bad.go.error"))
		assert.NoFileExists(t, filepath.Join(dir, "bad.go"))
	})

	t.Run("output needs a target", func(t *testing.T) {
		err := gen.WriteOutput(t.Context(), settings(), &gen.Output{})
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("single file target", func(t *testing.T) {
		dir := t.TempDir()
		srv, _ := shop(ordersTable())
		s := settings()
		s.Output.Target = filepath.Join(dir, "shop.go")
		s.Output.Format = false

		out := run(t, s, nil, srv)
		require.NoError(t, gen.WriteOutput(t.Context(), s, out))
		assert.FileExists(t, filepath.Join(dir, "shop.go"))
	})
}
