package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Frame is a date-indexed table with one float64 column per label. Missing
// cells are NaN; NaN marshals to JSON null. Every column shares the Index,
// so Data is row-major: Data[i][j] is the value at Index[i] for Columns[j].
type Frame struct {
	Index   []time.Time
	Columns []string
	Data    [][]float64
}

// NewFrame returns an empty frame with the given column labels.
func NewFrame(columns ...string) *Frame {
	return &Frame{Columns: append([]string(nil), columns...)}
}

// NumRows returns the number of index entries.
func (f *Frame) NumRows() int { return len(f.Index) }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.Columns) }

// IsEmpty reports whether the frame holds no rows.
func (f *Frame) IsEmpty() bool { return len(f.Index) == 0 }

// ColumnIndex returns the position of a column label, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// AppendRow adds one row. The values slice must match the column count.
func (f *Frame) AppendRow(date time.Time, values []float64) {
	f.Index = append(f.Index, date)
	f.Data = append(f.Data, values)
}

// At returns the cell for (row, column label); NaN when the column is absent.
func (f *Frame) At(row int, column string) float64 {
	j := f.ColumnIndex(column)
	if j < 0 || row < 0 || row >= len(f.Data) {
		return math.NaN()
	}
	return f.Data[row][j]
}

// SortByIndex orders rows chronologically. Stable, so rows with equal dates
// keep arrival order.
func (f *Frame) SortByIndex() {
	order := make([]int, len(f.Index))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Index[order[a]].Before(f.Index[order[b]])
	})
	index := make([]time.Time, len(order))
	data := make([][]float64, len(order))
	for i, j := range order {
		index[i] = f.Index[j]
		data[i] = f.Data[j]
	}
	f.Index, f.Data = index, data
}

// Select returns a new frame restricted to the given columns, in that order.
// A missing column is an error: column selection against a reference set is
// a strict reconciliation, not a lenient filter.
func (f *Frame) Select(columns []string) (*Frame, error) {
	positions := make([]int, len(columns))
	for i, c := range columns {
		j := f.ColumnIndex(c)
		if j < 0 {
			return nil, fmt.Errorf("column %q not present in frame", c)
		}
		positions[i] = j
	}
	out := &Frame{
		Index:   append([]time.Time(nil), f.Index...),
		Columns: append([]string(nil), columns...),
		Data:    make([][]float64, len(f.Data)),
	}
	for i, row := range f.Data {
		selected := make([]float64, len(positions))
		for k, j := range positions {
			selected[k] = row[j]
		}
		out.Data[i] = selected
	}
	return out, nil
}

// ReindexFFill aligns the frame onto a new index carrying the last known
// value forward: each target date takes the most recent source row at or
// before it, and dates before the first source row stay NaN. The receiver
// must be sorted chronologically.
func (f *Frame) ReindexFFill(index []time.Time) *Frame {
	out := &Frame{
		Index:   append([]time.Time(nil), index...),
		Columns: append([]string(nil), f.Columns...),
		Data:    make([][]float64, len(index)),
	}
	src := 0
	last := -1
	for i, target := range index {
		for src < len(f.Index) && !f.Index[src].After(target) {
			last = src
			src++
		}
		row := make([]float64, len(f.Columns))
		if last < 0 {
			for j := range row {
				row[j] = math.NaN()
			}
		} else {
			copy(row, f.Data[last])
		}
		out.Data[i] = row
	}
	return out
}

// MergeSeries builds a frame from per-label sparse series. The index is the
// sorted union of all observation dates; labels with no observations are
// omitted, preserving the order given. Cells absent from a series are NaN.
func MergeSeries(series map[string]*Series, order []string) *Frame {
	columns := make([]string, 0, len(order))
	for _, label := range order {
		if s, ok := series[label]; ok && s.Len() > 0 {
			columns = append(columns, label)
		}
	}
	seen := make(map[time.Time]bool)
	var index []time.Time
	for _, label := range columns {
		for _, d := range series[label].Dates {
			if !seen[d] {
				seen[d] = true
				index = append(index, d)
			}
		}
	}
	sort.Slice(index, func(a, b int) bool { return index[a].Before(index[b]) })

	position := make(map[time.Time]int, len(index))
	for i, d := range index {
		position[d] = i
	}
	data := make([][]float64, len(index))
	for i := range data {
		row := make([]float64, len(columns))
		for j := range row {
			row[j] = math.NaN()
		}
		data[i] = row
	}
	for j, label := range columns {
		s := series[label]
		for k, d := range s.Dates {
			data[position[d]][j] = s.Values[k]
		}
	}
	return &Frame{Index: index, Columns: columns, Data: data}
}

// MarshalJSON encodes the frame as {"index": [...], "columns": [...],
// "data": [[...]]} with RFC3339 dates and NaN cells as null.
func (f *Frame) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"index":`)
	dates := make([]string, len(f.Index))
	for i, d := range f.Index {
		dates[i] = d.UTC().Format(time.RFC3339)
	}
	writeJSON(&buf, dates)
	buf.WriteString(`,"columns":`)
	writeJSON(&buf, f.Columns)
	buf.WriteString(`,"data":[`)
	for i, row := range f.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeFloatRow(&buf, row)
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		buf.WriteString("null")
		return
	}
	buf.Write(b)
}

func writeFloatRow(buf *bytes.Buffer, row []float64) {
	buf.WriteByte('[')
	for j, v := range row {
		if j > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
		} else {
			b, _ := json.Marshal(v)
			buf.Write(b)
		}
	}
	buf.WriteByte(']')
}
