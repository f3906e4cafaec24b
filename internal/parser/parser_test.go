package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"catalogreport/internal/logger"
	"catalogreport/internal/models"
)

const inlineCatalog = `products:
- Milk: price: 1.50
  quantity: 2
  weight: 1 kg
- Bread: price: 2.00
  weight: 500 g
`

const dashedCatalog = `products:
- Milk:
  - price: 1.50
  - quantity: 2
  - weight: 1 kg

- Bread:
  - price: 2.00
  - weight: 500 g
- Cheese:
  - price: 4.20
  - quantity: 0
  - weight: 25 dkg
`

func intPtr(v int) *int {
	return &v
}

func assertProduct(t *testing.T, got models.Product, name string, price float64, count *int, weight models.Weight) {
	t.Helper()

	if got.Name != name {
		t.Errorf("Name = %q, want %q", got.Name, name)
	}

	if got.Price != price {
		t.Errorf("%s: Price = %v, want %v", name, got.Price, price)
	}

	switch {
	case count == nil && got.Count != nil:
		t.Errorf("%s: Count = %d, want absent", name, *got.Count)
	case count != nil && got.Count == nil:
		t.Errorf("%s: Count absent, want %d", name, *count)
	case count != nil && *got.Count != *count:
		t.Errorf("%s: Count = %d, want %d", name, *got.Count, *count)
	}

	if got.Weight != weight {
		t.Errorf("%s: Weight = %v, want %v", name, got.Weight, weight)
	}
}

func TestParser_ParseCatalog_InlinePrice(t *testing.T) {
	p := NewParser(Options{})

	catalog, err := p.ParseCatalog(inlineCatalog)
	if err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	if len(catalog) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(catalog))
	}

	assertProduct(t, catalog[0], "Milk", 1.50, intPtr(2), models.Weight{Value: 1, Unit: models.Kilogram})
	assertProduct(t, catalog[1], "Bread", 2.00, nil, models.Weight{Value: 500, Unit: models.Gram})
}

func TestParser_ParseCatalog_DashedFields(t *testing.T) {
	for _, strict := range []bool{false, true} {
		p := NewParser(Options{RequireFieldDash: strict})

		catalog, err := p.ParseCatalog(dashedCatalog)
		if err != nil {
			t.Fatalf("ParseCatalog(strict=%v) failed: %v", strict, err)
		}

		if len(catalog) != 3 {
			t.Fatalf("Expected 3 products, got %d", len(catalog))
		}

		assertProduct(t, catalog[0], "Milk", 1.50, intPtr(2), models.Weight{Value: 1, Unit: models.Kilogram})
		assertProduct(t, catalog[1], "Bread", 2.00, nil, models.Weight{Value: 500, Unit: models.Gram})
		assertProduct(t, catalog[2], "Cheese", 4.20, intPtr(0), models.Weight{Value: 25, Unit: models.Decagram})
	}
}

func TestParser_Parse_PreservesOrder(t *testing.T) {
	names := []string{"Zucchini", "Apple", "Milk", "Apple"}

	var sb strings.Builder
	for i, name := range names {
		sb.WriteString("- " + name + ":\n")
		sb.WriteString("price: 1\n")

		if i%2 == 0 {
			sb.WriteString("quantity: 3\n")
		}

		sb.WriteString("weight: 100 g\n")
	}

	p := NewParser(Options{})

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")

	catalog, err := p.Parse(lines)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(catalog) != len(names) {
		t.Fatalf("Expected %d products, got %d", len(names), len(catalog))
	}

	for i, name := range names {
		if catalog[i].Name != name {
			t.Errorf("catalog[%d].Name = %q, want %q", i, catalog[i].Name, name)
		}

		if catalog[i].HasCount() != (i%2 == 0) {
			t.Errorf("catalog[%d].HasCount() = %v", i, catalog[i].HasCount())
		}
	}
}

func TestParser_Parse_OptionalQuantityKeepsWeight(t *testing.T) {
	p := NewParser(Options{})

	catalog, err := p.Parse([]string{
		"- Flour:",
		"price: 0.89",
		"weight: 1 kg",
		"- Sugar:",
		"price: 1.10",
		"quantity: 4",
		"weight: 50 dkg",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(catalog) != 2 {
		t.Fatalf("Expected 2 products, got %d", len(catalog))
	}

	assertProduct(t, catalog[0], "Flour", 0.89, nil, models.Weight{Value: 1, Unit: models.Kilogram})
	assertProduct(t, catalog[1], "Sugar", 1.10, intPtr(4), models.Weight{Value: 50, Unit: models.Decagram})
}

func TestParser_Parse_KeywordBeforeDashIgnored(t *testing.T) {
	catalog, err := NewParser(Options{}).Parse([]string{
		"- Salt:",
		"price: 0.5",
		"(quantity n/a) - weight: 1 kg",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(catalog) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(catalog))
	}

	assertProduct(t, catalog[0], "Salt", 0.5, nil, models.Weight{Value: 1, Unit: models.Kilogram})
}

func TestParser_Parse_UnitCaseInsensitive(t *testing.T) {
	p := NewParser(Options{})

	catalog, err := p.Parse([]string{
		"- A:", "price: 1", "weight: 2 KG",
		"- B:", "price: 1", "weight: 3 Dkg",
		"- C:", "price: 1", "weight: 4.5 G",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []models.Weight{
		{Value: 2, Unit: models.Kilogram},
		{Value: 3, Unit: models.Decagram},
		{Value: 4.5, Unit: models.Gram},
	}

	for i, w := range want {
		if catalog[i].Weight != w {
			t.Errorf("catalog[%d].Weight = %v, want %v", i, catalog[i].Weight, w)
		}
	}
}

func TestParser_Parse_NameTrimming(t *testing.T) {
	p := NewParser(Options{})

	catalog, err := p.Parse([]string{"-   Whole grain bread  :", "price: 2", "weight: 1 kg"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if catalog[0].Name != "Whole grain bread" {
		t.Errorf("Name = %q, want %q", catalog[0].Name, "Whole grain bread")
	}
}

func TestParser_ParseCatalog_Empty(t *testing.T) {
	p := NewParser(Options{})

	for _, input := range []string{"", "\n\n  \n", "products:\n"} {
		catalog, err := p.ParseCatalog(input)
		if err != nil {
			t.Errorf("ParseCatalog(%q) returned unexpected error: %v", input, err)
		}

		if len(catalog) != 0 {
			t.Errorf("ParseCatalog(%q) returned %d products, want 0", input, len(catalog))
		}
	}
}

func TestParser_ParseCatalog_MissingHeader(t *testing.T) {
	p := NewParser(Options{})

	_, err := p.ParseCatalog("- Milk: price: 1\nweight: 1 kg\nproducts:\n")
	if !errors.Is(err, models.ErrMissingHeader) {
		t.Fatalf("Expected ErrMissingHeader, got %v", err)
	}
}

func TestParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
		wantMsg string
		line    int
	}{
		{
			name:    "Price keyword missing",
			input:   "products:\n- Bread:\n  9.99",
			wantErr: models.ErrMissingKeyword,
			wantMsg: `keyword not found "price", line 1`,
			line:    1,
		},
		{
			name:    "Name without dash",
			input:   "products:\nMilk:\nprice: 1\nweight: 1 kg",
			wantErr: models.ErrMissingDash,
			wantMsg: "dash must precede product name, line 0",
			line:    0,
		},
		{
			name:    "Name without colon",
			input:   "products:\n- Milk\nprice: 1\nweight: 1 kg",
			wantErr: models.ErrMissingColon,
			wantMsg: "colon must follow product name, line 0",
			line:    0,
		},
		{
			name:    "Empty name",
			input:   "products:\n- :\nprice: 1\nweight: 1 kg",
			wantErr: models.ErrEmptyName,
			wantMsg: "product name is empty, line 0",
			line:    0,
		},
		{
			name:    "Price not a number",
			input:   "products:\n- Milk:\nprice: abc\nweight: 1 kg",
			wantErr: models.ErrInvalidNumber,
			wantMsg: `invalid number "abc", line 1`,
			line:    1,
		},
		{
			name:    "Price infinite",
			input:   "products:\n- Milk:\nprice: Inf\nweight: 1 kg",
			wantErr: models.ErrInvalidNumber,
			line:    1,
		},
		{
			name:    "Price hex literal",
			input:   "products:\n- Milk:\nprice: 0x1p3\nweight: 1 kg",
			wantErr: models.ErrInvalidNumber,
			wantMsg: `invalid number "0x1p3", line 1`,
			line:    1,
		},
		{
			name:    "Weight hex literal",
			input:   "products:\n- Milk:\nprice: 1\nweight: -0X10 g",
			wantErr: models.ErrInvalidNumber,
			line:    2,
		},
		{
			name:    "Inline price invalid",
			input:   "products:\n- Milk: price: 1,50\nweight: 1 kg",
			wantErr: models.ErrInvalidNumber,
			wantMsg: `invalid number "1,50", line 0`,
			line:    0,
		},
		{
			name:    "Inline text without price keyword",
			input:   "products:\n- Milk: 1.50\nweight: 1 kg",
			wantErr: models.ErrMissingKeyword,
			line:    0,
		},
		{
			name:    "Price without colon",
			input:   "products:\n- Milk:\nprice 1.50\nweight: 1 kg",
			wantErr: models.ErrMissingColon,
			wantMsg: "colon must follow product price, line 1",
			line:    1,
		},
		{
			name:    "Quantity not an integer",
			input:   "products:\n- Milk:\nprice: 1\nquantity: 2.5\nweight: 1 kg",
			wantErr: models.ErrInvalidNumber,
			wantMsg: `invalid number "2.5", line 2`,
			line:    2,
		},
		{
			name:    "Quantity without colon",
			input:   "products:\n- Milk:\nprice: 1\nquantity 2\nweight: 1 kg",
			wantErr: models.ErrMissingColon,
			line:    2,
		},
		{
			name:    "Weight keyword missing",
			input:   "products:\n- Milk:\nprice: 1\nquantity: 2\nmass: 1 kg",
			wantErr: models.ErrMissingKeyword,
			wantMsg: `keyword not found "weight", line 3`,
			line:    3,
		},
		{
			name:    "Weight with three tokens",
			input:   "products:\n- Milk:\nprice: 1\nweight: 1 kg net",
			wantErr: models.ErrInvalidWeight,
			wantMsg: `invalid weight format "1 kg net", line 2`,
			line:    2,
		},
		{
			name:    "Weight with double space",
			input:   "products:\n- Milk:\nprice: 1\nweight: 1  kg",
			wantErr: models.ErrInvalidWeight,
			line:    2,
		},
		{
			name:    "Weight without unit",
			input:   "products:\n- Milk:\nprice: 1\nweight: 1000",
			wantErr: models.ErrInvalidWeight,
			line:    2,
		},
		{
			name:    "Weight magnitude not a number",
			input:   "products:\n- Milk:\nprice: 1\nweight: one kg",
			wantErr: models.ErrInvalidNumber,
			line:    2,
		},
		{
			name:    "Unknown weight unit",
			input:   "products:\n- Milk:\nprice: 1\nweight: 2 lb",
			wantErr: models.ErrInvalidUnit,
			wantMsg: `invalid weight unit "lb", line 2`,
			line:    2,
		},
		{
			name:    "Record with only a name",
			input:   "products:\n- Milk:",
			wantErr: models.ErrTruncatedRecord,
			wantMsg: "truncated record, line 1",
			line:    1,
		},
		{
			name:    "Record missing weight",
			input:   "products:\n- Milk:\nprice: 1",
			wantErr: models.ErrTruncatedRecord,
			line:    2,
		},
		{
			name:    "Record missing weight after quantity",
			input:   "products:\n- Milk:\nprice: 1\nquantity: 2",
			wantErr: models.ErrTruncatedRecord,
			line:    3,
		},
		{
			name:    "Error in second record",
			input:   "products:\n- Milk:\nprice: 1\nweight: 1 kg\n- Bread:\nprice: 2\nweight: 1 stone",
			wantErr: models.ErrInvalidUnit,
			line:    5,
		},
		{
			name:    "Strict mode price without dash",
			input:   "products:\n- Milk:\nprice: 1.50\n- weight: 1 kg",
			opts:    Options{RequireFieldDash: true},
			wantErr: models.ErrMissingDash,
			wantMsg: "dash must precede product price, line 1",
			line:    1,
		},
		{
			name:    "Strict mode quantity without dash",
			input:   "products:\n- Milk:\n- price: 1.50\nquantity: 2\n- weight: 1 kg",
			opts:    Options{RequireFieldDash: true},
			wantErr: models.ErrMissingDash,
			wantMsg: "dash must precede product quantity, line 2",
			line:    2,
		},
		{
			name:    "Strict mode weight without dash",
			input:   "products:\n- Milk:\n- price: 1.50\nweight: 1 kg",
			opts:    Options{RequireFieldDash: true},
			wantErr: models.ErrMissingDash,
			wantMsg: "dash must precede product weight, line 2",
			line:    2,
		},
		{
			name:    "Negative price rejected",
			input:   "products:\n- Milk:\nprice: -1.50\nweight: 1 kg",
			opts:    Options{RejectNegative: true},
			wantErr: models.ErrNegativeValue,
			wantMsg: "negative value price -1.50, line 1",
			line:    1,
		},
		{
			name:    "Negative quantity rejected",
			input:   "products:\n- Milk:\nprice: 1\nquantity: -3\nweight: 1 kg",
			opts:    Options{RejectNegative: true},
			wantErr: models.ErrNegativeValue,
			line:    2,
		},
		{
			name:    "Negative weight rejected",
			input:   "products:\n- Milk:\nprice: 1\nweight: -5 g",
			opts:    Options{RejectNegative: true},
			wantErr: models.ErrNegativeValue,
			line:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := NewParser(tt.opts).ParseCatalog(tt.input)
			if err == nil {
				t.Fatalf("Expected error, got %d products", len(catalog))
			}

			if catalog != nil {
				t.Errorf("Expected no partial result, got %d products", len(catalog))
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}

			var fe *models.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *models.FormatError, got %T", err)
			}

			if fe.Line != tt.line {
				t.Errorf("Line = %d, want %d", fe.Line, tt.line)
			}

			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParser_Parse_NegativeValuesAllowedByDefault(t *testing.T) {
	p := NewParser(Options{})

	catalog, err := p.Parse([]string{"- Refund:", "price: -2.50", "quantity: -1", "weight: -5 g"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assertProduct(t, catalog[0], "Refund", -2.50, intPtr(-1), models.Weight{Value: -5, Unit: models.Gram})
}

func TestParser_Parse_DebugLogging(t *testing.T) {
	var buf bytes.Buffer

	p := NewParser(Options{Logger: logger.New("debug", &buf)})

	if _, err := p.ParseCatalog(inlineCatalog); err != nil {
		t.Fatalf("ParseCatalog failed: %v", err)
	}

	out := buf.String()
	if strings.Count(out, "parsed product") != 2 {
		t.Errorf("Expected 2 debug records, got:\n%s", out)
	}

	if !strings.Contains(out, "name=Bread") || !strings.Contains(out, "has_count=false") {
		t.Errorf("Expected Bread record without count, got:\n%s", out)
	}
}
