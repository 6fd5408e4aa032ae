package quotes

import (
	"context"
	"math"
	"net/http"
	"testing"

	"brquote/pkg/core/table"
)

func TestFetchQuoteFundamentalBroadcast(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("fundamental"); got != "true" {
			t.Errorf("fundamental param = %q", got)
		}
		w.Write([]byte(`{"results":[{
			"historicalDataPrice":[
				{"date":1704153600,"close":37.5},
				{"date":1704240000,"close":38.1}
			],
			"fundamentals":{"marketCap":500000000.0,"priceEarnings":4.2}
		}]}`))
	})

	result, err := svc.FetchQuote(context.Background(), "PETR4", QuoteOptions{Fundamental: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame := result.(*table.Frame)
	if frame.ColumnIndex("fundamental_marketCap") < 0 {
		t.Fatalf("columns = %v", frame.Columns)
	}
	// Broadcast columns repeat the scalar on every row.
	for i := 0; i < frame.NumRows(); i++ {
		if got := frame.At(i, "fundamental_priceEarnings"); got != 4.2 {
			t.Fatalf("row %d priceEarnings = %v, want 4.2", i, got)
		}
	}
}

func TestFetchQuoteDividendsJoin(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{
			"historicalDataPrice":[
				{"date":1704153600,"close":37.5},
				{"date":1704240000,"close":38.1}
			],
			"dividendsData":{"cashDividends":[
				{"paymentDate":"2024-01-02T00:00:00Z","rate":1.15,"label":"DIVIDENDO"}
			]}
		}]}`))
	})

	result, err := svc.FetchQuote(context.Background(), "PETR4", QuoteOptions{Dividends: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frame := result.(*table.Frame)
	if frame.ColumnIndex("rate") < 0 {
		t.Fatalf("columns = %v", frame.Columns)
	}
	// 1704153600 is 2024-01-02 UTC, the payment date.
	if got := frame.At(0, "rate"); got != 1.15 {
		t.Fatalf("rate on payment date = %v, want 1.15", got)
	}
	if got := frame.At(1, "rate"); !math.IsNaN(got) {
		t.Fatalf("rate off payment date = %v, want NaN", got)
	}
	if frame.ColumnIndex("label") >= 0 {
		t.Fatal("non-numeric dividend fields should not become columns")
	}
}

func TestHistoryFrameColumnUnionSorted(t *testing.T) {
	history := []any{
		map[string]any{"date": float64(1704153600), "close": 10.0, "volume": 100.0},
		map[string]any{"date": float64(1704240000), "close": 11.0, "adjustedClose": 10.9},
	}
	frame := historyFrame(history)
	want := []string{"adjustedClose", "close", "volume"}
	if len(frame.Columns) != len(want) {
		t.Fatalf("columns = %v", frame.Columns)
	}
	for i := range want {
		if frame.Columns[i] != want[i] {
			t.Fatalf("columns = %v, want %v", frame.Columns, want)
		}
	}
	if got := frame.At(0, "adjustedClose"); !math.IsNaN(got) {
		t.Fatalf("missing cell = %v, want NaN", got)
	}
}
