package quotes

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"brquote/pkg/core/table"
)

// statementDateFormats are the end-date shapes the provider has been seen to
// emit for statement periods.
var statementDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseStatementDate(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	for _, layout := range statementDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("2006-01-02"), true
		}
	}
	return "", false
}

// Tabulate pivots one entity's dated statement records into a metric × date
// matrix. Records without an endDate are ignored. When unitDivisor differs
// from 1, values that arrived as JSON numbers are rescaled by it (raw
// currency units to thousands); numeric strings still coerce but keep their
// reported magnitude, and non-numeric values end up NaN. Empty input yields
// nil, not an empty matrix, so callers can distinguish "no data" from "data
// with all-null cells".
func Tabulate(statements []map[string]any, unitDivisor float64) *table.MetricMatrix {
	if len(statements) == 0 {
		return nil
	}

	type cellKey struct{ metric, date string }
	cells := make(map[cellKey]float64)
	var metrics []string
	metricSeen := make(map[string]bool)
	var dates []string
	dateSeen := make(map[string]bool)

	for _, record := range statements {
		date, ok := parseStatementDate(record["endDate"])
		if !ok {
			continue
		}
		if !dateSeen[date] {
			dateSeen[date] = true
			dates = append(dates, date)
		}
		keys := make([]string, 0, len(record))
		for k := range record {
			if k != "endDate" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			value, numeric := table.Coerce(record[key])
			label := titleLabel(key)
			if !metricSeen[label] {
				metricSeen[label] = true
				metrics = append(metrics, label)
			}
			if !numeric {
				continue // cell stays NaN
			}
			if unitDivisor != 1 && unitDivisor != 0 && isJSONNumber(record[key]) {
				value /= unitDivisor
			}
			cells[cellKey{label, date}] = value
		}
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Strings(dates) // ISO dates sort chronologically

	m := &table.MetricMatrix{Metrics: metrics, Dates: dates}
	m.Data = make([][]float64, len(metrics))
	for i, metric := range metrics {
		row := make([]float64, len(dates))
		for j, date := range dates {
			if v, ok := cells[cellKey{metric, date}]; ok {
				row[j] = v
			} else {
				row[j] = math.NaN()
			}
		}
		m.Data[i] = row
	}
	return m
}

// isJSONNumber reports whether a decoded cell arrived as a number rather
// than numeric text. Unit rescaling applies only to native numbers.
func isJSONNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, json.Number:
		return true
	}
	return false
}

// titleLabel turns a raw metric key into its display label: underscores
// become spaces and each word is title-cased.
func titleLabel(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
