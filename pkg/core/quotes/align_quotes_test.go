package quotes

import (
	"math"
	"strings"
	"testing"
	"time"

	"brquote/pkg/core/table"
)

func statementMatrix(label string, values map[string]float64) *table.MetricMatrix {
	m := &table.MetricMatrix{Metrics: []string{label}}
	row := make([]float64, 0, len(values))
	for _, d := range []string{"2022-12-31", "2023-12-31"} {
		if v, ok := values[d]; ok {
			m.Dates = append(m.Dates, d)
			row = append(row, v)
		}
	}
	m.Data = [][]float64{row}
	return m
}

func priceFrame(columns ...string) *table.Frame {
	f := table.NewFrame(columns...)
	for _, d := range []string{"2023-06-30", "2024-06-30"} {
		date, _ := time.Parse("2006-01-02", d)
		cells := make([]float64, len(columns))
		for i := range cells {
			cells[i] = 1.0
		}
		f.AppendRow(date.UTC(), cells)
	}
	return f
}

func TestExtractCommonStockDataForwardFills(t *testing.T) {
	statements := map[string]*table.MetricMatrix{
		"PETR4.SA": statementMatrix("Common Stock", map[string]float64{"2022-12-31": 100, "2023-12-31": 120}),
		"VALE3.SA": statementMatrix("Commonstock", map[string]float64{"2022-12-31": 50}),
	}
	prices := priceFrame("PETR4.SA", "VALE3.SA")

	frame, err := ExtractCommonStockData(statements, prices, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.NumRows() != 2 {
		t.Fatalf("rows = %d, want the price index length", frame.NumRows())
	}
	// 2023-06-30 sees the 2022 statements; 2024-06-30 sees the latest.
	if got := frame.At(0, "PETR4.SA"); got != 100 {
		t.Fatalf("PETR4 at 2023-06-30 = %v, want 100", got)
	}
	if got := frame.At(1, "PETR4.SA"); got != 120 {
		t.Fatalf("PETR4 at 2024-06-30 = %v, want 120", got)
	}
	if got := frame.At(1, "VALE3.SA"); got != 50 {
		t.Fatalf("VALE3 at 2024-06-30 = %v, want forward-filled 50", got)
	}
}

func TestExtractCommonStockDataNormalizesKeys(t *testing.T) {
	statements := map[string]*table.MetricMatrix{
		"PETR4.SA": statementMatrix("Common Stock", map[string]float64{"2022-12-31": 100}),
	}
	prices := priceFrame("PETR4")
	strip := func(ticker string) string { return strings.TrimSuffix(ticker, ".SA") }

	frame, err := ExtractCommonStockData(statements, prices, strip)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := frame.At(0, "PETR4"); got != 100 {
		t.Fatalf("PETR4 = %v, want 100", got)
	}
}

func TestExtractCommonStockDataMissingColumnIsError(t *testing.T) {
	statements := map[string]*table.MetricMatrix{
		"PETR4.SA": statementMatrix("Common Stock", map[string]float64{"2022-12-31": 100}),
	}
	prices := priceFrame("PETR4.SA", "VALE3.SA")
	if _, err := ExtractCommonStockData(statements, prices, nil); err == nil {
		t.Fatal("reference column without a series must be an error")
	}
}

func TestExtractCommonStockDataNoRowsAnywhere(t *testing.T) {
	statements := map[string]*table.MetricMatrix{
		"PETR4.SA": statementMatrix("Total Assets", map[string]float64{"2022-12-31": 100}),
	}
	if _, err := ExtractCommonStockData(statements, priceFrame("PETR4.SA"), nil); err == nil {
		t.Fatal("expected error when no ticker has a common stock row")
	}
}

func TestExtractCommonStockDataLeadingGapIsNaN(t *testing.T) {
	statements := map[string]*table.MetricMatrix{
		"PETR4.SA": statementMatrix("Common Stock", map[string]float64{"2023-12-31": 120}),
	}
	prices := priceFrame("PETR4.SA")

	frame, err := ExtractCommonStockData(statements, prices, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := frame.At(0, "PETR4.SA"); !math.IsNaN(got) {
		t.Fatalf("value before the first statement = %v, want NaN", got)
	}
	if got := frame.At(1, "PETR4.SA"); got != 120 {
		t.Fatalf("value after the statement = %v, want 120", got)
	}
}
