package table

import (
	"bytes"
	"math"
)

// MetricMatrix is the pivoted form of a financial statement history: rows
// are human-readable metric labels, columns are ISO period dates sorted
// ascending, cells are float64 with NaN for non-numeric residue.
type MetricMatrix struct {
	Metrics []string
	Dates   []string
	Data    [][]float64
}

// NumMetrics returns the row count.
func (m *MetricMatrix) NumMetrics() int { return len(m.Metrics) }

// NumDates returns the column count.
func (m *MetricMatrix) NumDates() int { return len(m.Dates) }

// MetricIndex returns the row position of a metric label, or -1.
func (m *MetricMatrix) MetricIndex(label string) int {
	for i, r := range m.Metrics {
		if r == label {
			return i
		}
	}
	return -1
}

// Value returns the cell at (metric label, ISO date). The second return is
// false when either label is absent or the cell is NaN.
func (m *MetricMatrix) Value(metric, date string) (float64, bool) {
	i := m.MetricIndex(metric)
	if i < 0 {
		return 0, false
	}
	for j, d := range m.Dates {
		if d == date {
			v := m.Data[i][j]
			if math.IsNaN(v) {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

// Row returns the cells of one metric in date order, or nil when absent.
func (m *MetricMatrix) Row(metric string) []float64 {
	i := m.MetricIndex(metric)
	if i < 0 {
		return nil
	}
	return m.Data[i]
}

// MarshalJSON encodes the matrix as {"metrics": [...], "dates": [...],
// "data": [[...]]} with NaN cells as null.
func (m *MetricMatrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"metrics":`)
	writeJSON(&buf, m.Metrics)
	buf.WriteString(`,"dates":`)
	writeJSON(&buf, m.Dates)
	buf.WriteString(`,"data":[`)
	for i, row := range m.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeFloatRow(&buf, row)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}
