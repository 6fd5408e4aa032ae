package quotes

import (
	"fmt"
	"time"

	"brquote/pkg/core/table"
)

// KeyNormalizer maps a statement-map ticker key to the spelling used by the
// reference price frame's columns. The caller knows whether its reference
// carries the market suffix; guessing from the data was the old behavior
// and silently dropped mixed-suffix inputs.
type KeyNormalizer func(ticker string) string

// commonStockLabels are the label variants under which providers report the
// common stock line, checked in order.
var commonStockLabels = []string{"Commonstock", "Common Stock", "CommonStock"}

// ExtractCommonStockData pulls each ticker's Common Stock row out of its
// balance-sheet matrix and aligns the sparse series onto the price frame's
// date index with forward-fill. Column order follows the price frame.
// Tickers without a common-stock row are skipped; a reference column
// with no surviving series is an error, since alignment
// expects the caller to have filtered to a common ticker set.
func ExtractCommonStockData(statements map[string]*table.MetricMatrix, prices *table.Frame, normalize KeyNormalizer) (*table.Frame, error) {
	if normalize == nil {
		normalize = func(t string) string { return t }
	}
	sparse := make(map[string]*table.Series, len(statements))
	for ticker, matrix := range statements {
		row := findCommonStockRow(matrix)
		if row < 0 {
			continue
		}
		series := &table.Series{}
		for j, dateStr := range matrix.Dates {
			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				continue
			}
			series.Append(date.UTC(), matrix.Data[row][j])
		}
		if series.Len() == 0 {
			continue
		}
		sparse[normalize(ticker)] = series
	}
	if len(sparse) == 0 {
		return nil, fmt.Errorf("no common stock data found for any ticker")
	}
	return table.AlignSeries(sparse, prices.Index, prices.Columns)
}

func findCommonStockRow(matrix *table.MetricMatrix) int {
	for _, label := range commonStockLabels {
		if i := matrix.MetricIndex(label); i >= 0 {
			return i
		}
	}
	return -1
}
