package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/pocogen/schema"
)

// stubDialect classifies columns by their exact data type.
type stubDialect struct {
	cats  map[string]Category
	funcs map[string]DefaultKind
}

func newStubDialect() *stubDialect {
	return &stubDialect{
		cats: map[string]Category{
			"bit":      CategoryBool,
			"tinyint":  CategoryByte,
			"utinyint": CategoryByte,
			"smallint": CategoryShort,
			"int":      CategoryInt,
			"bigint":   CategoryLong,
			"float":    CategoryFloat,
			"decimal":  CategoryDecimal,
			"datetime": CategoryDateTime,
			"varchar":  CategoryString,
			"binary":   CategoryBytes,
			"guid":     CategoryGUID,
		},
		funcs: map[string]DefaultKind{
			"getdate":    DefaultNow,
			"getutcdate": DefaultNowUTC,
			"newid":      DefaultNewID,
		},
	}
}

func (d *stubDialect) Name() schema.Dialect { return "stub" }

func (d *stubDialect) Is(cat Category, c *schema.Column) bool { return d.cats[c.BaseType()] == cat }

func (d *stubDialect) Unsigned(c *schema.Column) bool { return c.BaseType() == "utinyint" }

func (d *stubDialect) Opaque(c *schema.Column) (TypeRef, bool) {
	if c.BaseType() == "tags" {
		return TypeRef{Name: "pq.StringArray", Import: "github.com/lib/pq", Nillable: true}, true
	}
	return TypeRef{}, false
}

func (d *stubDialect) Default(c *schema.Column) DefaultValue {
	if !c.HasDefault() {
		return DefaultValue{}
	}
	return ParseDefault(*c.Default, d.funcs)
}

// =============================================================================
// ParseDefault Tests
// =============================================================================

func TestParseDefault(t *testing.T) {
	funcs := newStubDialect().funcs
	tests := []struct {
		raw    string
		kind   DefaultKind
		text   string
		quoted bool
	}{
		{"", DefaultNone, "", false},
		{"NULL", DefaultNone, "", false},
		{"(NULL)", DefaultNone, "", false},
		{"((0))", DefaultLiteral, "0", false},
		{"(getdate())", DefaultNow, "getdate()", false},
		{"GETUTCDATE", DefaultNowUTC, "GETUTCDATE", false},
		{"(newid())", DefaultNewID, "newid()", false},
		{"'abc'", DefaultLiteral, "abc", true},
		{"(N'it''s')", DefaultLiteral, "it's", true},
		{"E'x'", DefaultLiteral, "x", true},
		{"'a'::text", DefaultLiteral, "a", true},
		{"('2020-01-02'::date)", DefaultLiteral, "2020-01-02", true},
		{"-1", DefaultLiteral, "-1", false},
		{"nextval('seq'::regclass)", DefaultExpr, "nextval('seq'::regclass)", false},
		{"lower('A')", DefaultExpr, "lower('A')", false},
		{"'a' || 'b'", DefaultLiteral, "'a' || 'b'", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			dv := ParseDefault(tt.raw, funcs)
			assert.Equal(t, tt.kind, dv.Kind)
			assert.Equal(t, tt.text, dv.Text)
			assert.Equal(t, tt.quoted, dv.Quoted)
		})
	}
}

func TestStripCast(t *testing.T) {
	assert.Equal(t, "now()", stripCast("now()"))
	assert.Equal(t, "'a'", stripCast("'a'::character varying"))
	assert.Equal(t, "'1'", stripCast("('1'::text)::integer"))
	assert.Equal(t, "timezone('utc'::text, now())", stripCast("timezone('utc'::text, now())"))
	assert.Equal(t, "'a::b'", stripCast("'a::b'"))
}

// =============================================================================
// Literal Tests
// =============================================================================

func TestLiteral(t *testing.T) {
	tests := []struct {
		name    string
		t       TypeRef
		text    string
		want    string
		imports []string
		ok      bool
	}{
		{"bool", TypeRef{Base: "bool", Category: CategoryBool}, "1", "true", nil, true},
		{"mysql bit", TypeRef{Base: "bool", Category: CategoryBool}, "b'0'", "false", nil, true},
		{"bad bool", TypeRef{Base: "bool", Category: CategoryBool}, "maybe", "", nil, false},
		{"int", TypeRef{Base: "int32", Category: CategoryInt}, "-42", "-42", nil, true},
		{"int overflow", TypeRef{Base: "int8", Category: CategoryByte}, "300", "", nil, false},
		{"unsigned", TypeRef{Base: "uint8", Category: CategoryByte}, "255", "255", nil, true},
		{"negative unsigned", TypeRef{Base: "uint8", Category: CategoryByte}, "-1", "", nil, false},
		{"float", TypeRef{Base: "float64", Category: CategoryFloat}, "1.5", "1.5", nil, true},
		{"whole float", TypeRef{Base: "float64", Category: CategoryDecimal}, "2", "2.0", nil, true},
		{"decimal", TypeRef{Base: "decimal.Decimal", Category: CategoryDecimal}, "10.50", `decimal.RequireFromString("10.5")`, []string{pkgDecimal}, true},
		{"date", TypeRef{Base: "time.Time", Category: CategoryDateTime}, "2020-01-02", "time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)", []string{pkgTime}, true},
		{"datetime", TypeRef{Base: "time.Time", Category: CategoryDateTime}, "2020-01-02 03:04:05", "time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)", []string{pkgTime}, true},
		{"bad date", TypeRef{Base: "time.Time", Category: CategoryDateTime}, "tomorrow", "", nil, false},
		{"string", TypeRef{Base: "string", Category: CategoryString}, `say "hi"`, `"say \"hi\""`, nil, true},
		{"bytes", TypeRef{Base: "[]byte", Category: CategoryBytes}, "0x0A0B", "[]byte{10, 11}", nil, true},
		{"postgres bytes", TypeRef{Base: "[]byte", Category: CategoryBytes}, `\x01`, "[]byte{1}", nil, true},
		{"guid", TypeRef{Base: "uuid.UUID", Category: CategoryGUID}, "6F9619FF-8B86-D011-B42D-00C04FC964FF", `uuid.MustParse("6f9619ff-8b86-d011-b42d-00c04fc964ff")`, []string{pkgUUID}, true},
		{"opaque", TypeRef{Base: "any"}, "1", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, imports, ok := literal(tt.t, tt.text)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.imports, imports)
		})
	}
}

// =============================================================================
// Initializer Tests
// =============================================================================

func TestInitStatements(t *testing.T) {
	tests := []struct {
		name string
		init Init
		want []string
	}{
		{
			name: "plain",
			init: Init{Field: "Count", Expr: "1", Type: TypeRef{Name: "int32", Base: "int32"}},
			want: []string{"v.Count = 1"},
		},
		{
			name: "pointer",
			init: Init{Field: "Count", Expr: "1", Type: TypeRef{Name: "*int32", Base: "int32", Pointer: true}},
			want: []string{"v.Count = new(int32)", "*v.Count = 1"},
		},
		{
			name: "null wrapper",
			init: Init{Field: "Count", Expr: "1", Type: TypeRef{Name: "sql.NullInt32", Base: "int32", Null: "Int32"}},
			want: []string{"v.Count = sql.NullInt32{Int32: 1, Valid: true}"},
		},
		{
			name: "disabled",
			init: Init{Field: "Code", Expr: "lower('A')", Disabled: true},
			want: []string{"// v.Code = lower('A')"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.init.Statements("v"))
		})
	}
}

func TestDefaultRenderer(t *testing.T) {
	poco := DefaultSettings().POCO
	r := defaultRenderer{dialect: newStubDialect(), poco: &poco}
	types := typeMapper{dialect: newStubDialect(), poco: &poco}

	render := func(c *schema.Column) (Init, bool) {
		return r.column(c, "F", types.column(c, ""), nil)
	}

	t.Run("now", func(t *testing.T) {
		init, ok := render(schema.NewColumn("Created", "datetime").WithDefault("(getdate())"))
		require.True(t, ok)
		assert.Equal(t, "time.Now()", init.Expr)
		assert.Equal(t, []string{pkgTime}, init.Imports)
	})

	t.Run("utc", func(t *testing.T) {
		init, ok := render(schema.NewColumn("Created", "datetime").WithDefault("getutcdate()"))
		require.True(t, ok)
		assert.Equal(t, "time.Now().UTC()", init.Expr)
	})

	t.Run("new id", func(t *testing.T) {
		init, ok := render(schema.NewColumn("ID", "guid").WithDefault("(newid())"))
		require.True(t, ok)
		assert.Equal(t, "uuid.New()", init.Expr)

		init, ok = render(schema.NewColumn("Key", "varchar").WithDefault("(newid())"))
		require.True(t, ok)
		assert.Equal(t, "uuid.NewString()", init.Expr)
	})

	t.Run("now on a non date column is disabled", func(t *testing.T) {
		init, ok := render(schema.NewColumn("Stamp", "int").WithDefault("getdate()"))
		require.True(t, ok)
		assert.True(t, init.Disabled)
		assert.Equal(t, "getdate()", init.Expr)
	})

	t.Run("untranslatable quoted literal keeps quotes", func(t *testing.T) {
		init, ok := render(schema.NewColumn("Count", "int").WithDefault("'many'"))
		require.True(t, ok)
		assert.True(t, init.Disabled)
		assert.Equal(t, `"many"`, init.Expr)
	})

	t.Run("identity and computed columns", func(t *testing.T) {
		c := schema.NewColumn("ID", "int").WithDefault("1")
		c.Identity = true
		_, ok := render(c)
		assert.False(t, ok)

		c = schema.NewColumn("Total", "int").WithDefault("1")
		c.Computed = true
		_, ok = render(c)
		assert.False(t, ok)
	})

	t.Run("nullable pointer", func(t *testing.T) {
		init, ok := render(schema.NewColumn("Count", "int").Null().WithDefault("((5))"))
		require.True(t, ok)
		assert.Equal(t, []string{"v.F = new(int32)", "*v.F = 5"}, init.Statements("v"))
	})

	t.Run("enum constant", func(t *testing.T) {
		c := schema.NewColumn("Status", "varchar").WithEnum("open", "closed").WithDefault("'open'")
		init, ok := r.column(c, "Status", TypeRef{Name: "OrderStatus", Base: "OrderStatus", Category: CategoryString}, map[string]string{"open": "OrderStatusOpen"})
		require.True(t, ok)
		assert.Equal(t, "OrderStatusOpen", init.Expr)
	})

	t.Run("action column", func(t *testing.T) {
		p := poco
		p.ActionColumnsDefaultNow = true
		ar := defaultRenderer{dialect: newStubDialect(), poco: &p}
		c := schema.NewColumn("ModifiedOn", "datetime")
		init, ok := ar.column(c, "ModifiedOn", types.column(c, ""), nil)
		require.True(t, ok)
		assert.Equal(t, "time.Now()", init.Expr)

		c = schema.NewColumn("Birthday", "datetime")
		_, ok = ar.column(c, "Birthday", types.column(c, ""), nil)
		assert.False(t, ok)
	})

	t.Run("defaults disabled", func(t *testing.T) {
		p := poco
		p.Defaults = false
		off := defaultRenderer{dialect: newStubDialect(), poco: &p}
		c := schema.NewColumn("Count", "int").WithDefault("1")
		_, ok := off.column(c, "Count", types.column(c, ""), nil)
		assert.False(t, ok)
	})
}
