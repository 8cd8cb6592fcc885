package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Order Date", "Order_Date"},
		{"1x", "_1x"},
		{"  Trimmed  ", "Trimmed"},
		{"first-name", "first_name"},
		{"Price($)", "Price___"},
		{"", ""},
		{"Ünïcode", "Ünïcode"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanName(tt.input))
		})
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"OrderDate", []string{"Order", "Date"}},
		{"order_date", []string{"order", "date"}},
		{"HTTPCode", []string{"HTTP", "Code"}},
		{"UserIDs", []string{"User", "IDs"}},
		{"IDsByName", []string{"IDs", "By", "Name"}},
		{"Table2Name", []string{"Table2", "Name"}},
		{"first-name value", []string{"first", "name", "value"}},
		{"userInfo", []string{"user", "Info"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Words(tt.input))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Employees", "Employee"},
		{"Employee", "Employee"},
		{"Categories", "Category"},
		{"Order_Details", "Order_Detail"},
		{"OrderDetails", "OrderDetail"},
		{"CUSTOMERS", "CUSTOMER"},
		{"Table2", "Table2"},
		{"Items_2", "Items_2"},
		{"UserIDs", "UserID"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Singularize(tt.input))
		})
	}

	t.Run("Idempotent", func(t *testing.T) {
		for _, in := range []string{"Employees", "Categories", "Order_Details", "UserIDs"} {
			once := Singularize(in)
			assert.Equal(t, once, Singularize(once), in)
		}
	})
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Customer", "Customers"},
		{"Category", "Categories"},
		{"Order_Detail", "Order_Details"},
		{"OrderDetail", "OrderDetails"},
		{"UserID", "UserIDs"},
		{"Table2", "Table2"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pluralize(tt.input))
		})
	}
}

func TestTransformName(t *testing.T) {
	tests := []struct {
		name     string
		sep      string
		casing   Casing
		expected string
	}{
		{"order_date", "", Pascal, "OrderDate"},
		{"order_date", "", Camel, "orderDate"},
		{"OrderDate", "_", Lower, "order_date"},
		{"OrderDate", "_", Upper, "ORDER_DATE"},
		{"ORDER_DATE", "", Title, "OrderDate"},
		{"Order Date", "-", Preserve, "Order-Date"},
		{"customerID", "", Pascal, "CustomerID"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.casing.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, TransformName(tt.name, tt.sep, tt.casing))
		})
	}
}

func TestCasingText(t *testing.T) {
	var c Casing
	require.NoError(t, c.UnmarshalText([]byte("Camel")))
	assert.Equal(t, Camel, c)
	b, err := Title.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "title", string(b))
	require.Error(t, c.UnmarshalText([]byte("kebab")))
}

func TestGoName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"customer_id", "CustomerID"},
		{"CustomerID", "CustomerID"},
		{"ORDER_DATE", "OrderDate"},
		{"http_code", "HTTPCode"},
		{"UserIDs", "UserIDs"},
		{"Order Date", "OrderDate"},
		{"1x", "X1x"},
		{"api_url", "APIURL"},
		{"already", "Already"},
		{"ManagerID1", "ManagerID1"},
		{"manager_id2", "ManagerID2"},
		{"ADDRESS2", "Address2"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GoName(tt.input))
		})
	}
}

func TestLowerGoName(t *testing.T) {
	assert.Equal(t, "customerID", LowerGoName("customer_id"))
	assert.Equal(t, "type_", LowerGoName("Type"))
	assert.Equal(t, "string_", LowerGoName("STRING"))
}

func TestAddAcronym(t *testing.T) {
	AddAcronym("POCO")
	assert.Equal(t, "POCOName", GoName("poco_name"))
}

func TestDisambiguate(t *testing.T) {
	t.Run("DigitSuffixes", func(t *testing.T) {
		got := Disambiguate([]Candidate{
			{Name: "Employee", Column: "ManagerID1"},
			{Name: "Employee", Column: "ManagerID2"},
		})
		assert.Equal(t, []string{"Employee1", "Employee2"}, got)
	})

	t.Run("Sequential", func(t *testing.T) {
		got := Disambiguate([]Candidate{
			{Name: "Customer", Column: "BillingCustomerID"},
			{Name: "Customer", Column: "ShippingCustomerID"},
			{Name: "Customer", Column: "OwnerID"},
		})
		assert.Equal(t, []string{"Customer", "Customer1", "Customer2"}, got)
	})

	t.Run("SkipsTakenSuffix", func(t *testing.T) {
		got := Disambiguate([]Candidate{
			{Name: "Order"},
			{Name: "Order"},
			{Name: "Order1"},
		})
		assert.Equal(t, []string{"Order", "Order2", "Order1"}, got)
	})

	t.Run("Reserved", func(t *testing.T) {
		got := Disambiguate([]Candidate{{Name: "Customer", Column: "CustomerID"}, {Name: "Orders"}}, "Customer", "CustomerID")
		assert.Equal(t, []string{"Customer1", "Orders"}, got)
	})

	t.Run("MixedDigits", func(t *testing.T) {
		got := Disambiguate([]Candidate{
			{Name: "Employee", Column: "ReportsTo"},
			{Name: "Employee", Column: "Mentor2"},
			{Name: "Employee", Column: "Boss"},
		})
		assert.Equal(t, []string{"Employee", "Employee2", "Employee1"}, got)
	})

	t.Run("Deterministic", func(t *testing.T) {
		cands := []Candidate{{Name: "A"}, {Name: "B"}, {Name: "A"}, {Name: "A", Column: "X7"}}
		first := Disambiguate(cands)
		for range 5 {
			assert.Equal(t, first, Disambiguate(cands))
		}
		assert.Equal(t, []string{"A", "B", "A1", "A7"}, first)
	})
}

func TestIsActionName(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"CreatedDate", true},
		{"CreateDate", true},
		{"created_at", true},
		{"ModifiedOn", true},
		{"LastUpdate", true},
		{"UpdatedAt", true},
		{"DateAdded", false},
		{"OrderDate", false},
		{"ShippedDate", false},
		{"ShipDate", false},
		{"BirthDate", false},
		{"Timestamp", true},
		{"PostedDate", true},
		{"Amount", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsActionName(tt.input))
		})
	}
}
