package quotes

import (
	"math"
	"testing"
)

func TestTabulateEmptyIsNil(t *testing.T) {
	if Tabulate(nil, 1000) != nil {
		t.Fatal("empty input should yield nil")
	}
	if Tabulate([]map[string]any{}, 1000) != nil {
		t.Fatal("empty slice should yield nil")
	}
}

func TestTabulateRecordsWithoutEndDateIgnored(t *testing.T) {
	statements := []map[string]any{
		{"cash": 1.0},
	}
	if Tabulate(statements, 1) != nil {
		t.Fatal("records without endDate should leave nothing to tabulate")
	}
}

func TestTabulateDivisorAndLabels(t *testing.T) {
	statements := []map[string]any{
		{"endDate": "2023-12-31", "total_assets": 5000.0, "common_stock": 2000.0},
		{"endDate": "2022-12-31", "total_assets": 4000.0},
	}
	m := Tabulate(statements, 1000)
	if m == nil {
		t.Fatal("expected a matrix")
	}
	if got, ok := m.Value("Total Assets", "2023-12-31"); !ok || got != 5.0 {
		t.Fatalf("Total Assets 2023 = %v (ok=%v), want 5.0", got, ok)
	}
	if got, ok := m.Value("Common Stock", "2023-12-31"); !ok || got != 2.0 {
		t.Fatalf("Common Stock 2023 = %v (ok=%v), want 2.0", got, ok)
	}
	// The metric missing from 2022 stays NaN there.
	row := m.Row("Common Stock")
	if row == nil {
		t.Fatal("Common Stock row missing")
	}
	if !math.IsNaN(m.Data[m.MetricIndex("Common Stock")][0]) {
		t.Fatal("missing 2022 cell should be NaN")
	}
}

func TestTabulateDivisorSkipsNumericStrings(t *testing.T) {
	statements := []map[string]any{
		{"endDate": "2023-12-31", "total_assets": 5000000.0, "treasury_stock": "3000000"},
	}
	m := Tabulate(statements, 1000)
	if got, ok := m.Value("Total Assets", "2023-12-31"); !ok || got != 5000.0 {
		t.Fatalf("Total Assets = %v (ok=%v), want 5000", got, ok)
	}
	// String-typed cells coerce but keep their reported magnitude.
	if got, ok := m.Value("Treasury Stock", "2023-12-31"); !ok || got != 3000000.0 {
		t.Fatalf("Treasury Stock = %v (ok=%v), want 3000000", got, ok)
	}
}

func TestTabulateDatesSortedAscending(t *testing.T) {
	statements := []map[string]any{
		{"endDate": "2023-12-31", "cash": 1.0},
		{"endDate": "2021-12-31", "cash": 3.0},
		{"endDate": "2022-12-31", "cash": 2.0},
	}
	m := Tabulate(statements, 1)
	want := []string{"2021-12-31", "2022-12-31", "2023-12-31"}
	if len(m.Dates) != len(want) {
		t.Fatalf("dates = %v", m.Dates)
	}
	for i := range want {
		if m.Dates[i] != want[i] {
			t.Fatalf("dates = %v, want %v", m.Dates, want)
		}
	}
}

func TestTabulateNonNumericStaysNaN(t *testing.T) {
	statements := []map[string]any{
		{"endDate": "2023-12-31", "cash": 10.0, "auditor": "someone"},
	}
	m := Tabulate(statements, 1)
	if got, ok := m.Value("Cash", "2023-12-31"); !ok || got != 10.0 {
		t.Fatalf("Cash = %v (ok=%v)", got, ok)
	}
	if _, ok := m.Value("Auditor", "2023-12-31"); ok {
		t.Fatal("non-numeric cell should read as missing")
	}
	if m.MetricIndex("Auditor") < 0 {
		t.Fatal("non-numeric metric should still appear as a row")
	}
}

func TestTabulateRFC3339EndDates(t *testing.T) {
	statements := []map[string]any{
		{"endDate": "2023-12-31T00:00:00Z", "cash": 7.0},
	}
	m := Tabulate(statements, 1)
	if got, ok := m.Value("Cash", "2023-12-31"); !ok || got != 7.0 {
		t.Fatalf("Cash = %v (ok=%v)", got, ok)
	}
}

func TestTitleLabel(t *testing.T) {
	cases := map[string]string{
		"total_assets":     "Total Assets",
		"commonStock":      "Commonstock",
		"cash":             "Cash",
		"net_income_YOY":   "Net Income Yoy",
		"já_transformado":  "Já Transformado",
	}
	for in, want := range cases {
		if got := titleLabel(in); got != want {
			t.Errorf("titleLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
