package table

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
)

// Records is a label-indexed table of heterogeneous cells, used for
// entity-per-row results (key statistics, company profiles, quote listings)
// where not every column is numeric.
type Records struct {
	Index   []string
	Columns []string
	Data    [][]any
}

// FromMaps builds Records from row maps. Columns are the sorted union of
// keys across rows, so output is deterministic regardless of map iteration
// order. indexKey names the field promoted to the row label; rows missing it
// get an empty label, and the field is excluded from the columns.
func FromMaps(rows []map[string]any, indexKey string) *Records {
	r := &Records{}
	seen := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			if k == indexKey || seen[k] {
				continue
			}
			seen[k] = true
			r.Columns = append(r.Columns, k)
		}
	}
	sort.Strings(r.Columns)
	for _, row := range rows {
		label := ""
		if v, ok := row[indexKey].(string); ok {
			label = v
		}
		cells := make([]any, len(r.Columns))
		for j, c := range r.Columns {
			cells[j] = row[c]
		}
		r.Index = append(r.Index, label)
		r.Data = append(r.Data, cells)
	}
	return r
}

// NumRows returns the row count.
func (r *Records) NumRows() int { return len(r.Index) }

// HasColumn reports whether a column label is present.
func (r *Records) HasColumn(name string) bool {
	return r.columnIndex(name) >= 0
}

func (r *Records) columnIndex(name string) int {
	for i, c := range r.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// At returns the cell at (row, column label), or nil.
func (r *Records) At(row int, column string) any {
	j := r.columnIndex(column)
	if j < 0 || row < 0 || row >= len(r.Data) {
		return nil
	}
	return r.Data[row][j]
}

// CoerceNumeric converts the named columns (all columns when none are given)
// to float64, with NaN for non-numeric residue.
func (r *Records) CoerceNumeric(columns ...string) {
	targets := columns
	if len(targets) == 0 {
		targets = r.Columns
	}
	for _, name := range targets {
		j := r.columnIndex(name)
		if j < 0 {
			continue
		}
		for i := range r.Data {
			r.Data[i][j] = CoerceOrNaN(r.Data[i][j])
		}
	}
}

// SortByIndex orders rows by label, ascending.
func (r *Records) SortByIndex() {
	order := make([]int, len(r.Index))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return r.Index[order[a]] < r.Index[order[b]]
	})
	index := make([]string, len(order))
	data := make([][]any, len(order))
	for i, j := range order {
		index[i] = r.Index[j]
		data[i] = r.Data[j]
	}
	r.Index, r.Data = index, data
}

// KeepColumns restricts the records to the given columns, silently dropping
// names that are absent. Unlike Frame.Select this is lenient: listing
// payloads vary in which fields a provider response includes.
func (r *Records) KeepColumns(columns []string) {
	var kept []string
	var positions []int
	for _, c := range columns {
		if j := r.columnIndex(c); j >= 0 {
			kept = append(kept, c)
			positions = append(positions, j)
		}
	}
	for i, row := range r.Data {
		cells := make([]any, len(positions))
		for k, j := range positions {
			cells[k] = row[j]
		}
		r.Data[i] = cells
	}
	r.Columns = kept
}

// DropColumn removes one column if present.
func (r *Records) DropColumn(name string) {
	j := r.columnIndex(name)
	if j < 0 {
		return
	}
	r.Columns = append(r.Columns[:j], r.Columns[j+1:]...)
	for i, row := range r.Data {
		r.Data[i] = append(row[:j], row[j+1:]...)
	}
}

// MarshalJSON encodes the records with NaN cells as null.
func (r *Records) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"index":`)
	writeJSON(&buf, r.Index)
	buf.WriteString(`,"columns":`)
	writeJSON(&buf, r.Columns)
	buf.WriteString(`,"data":[`)
	for i, row := range r.Data {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		for j, v := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
				buf.WriteString("null")
				continue
			}
			b, err := json.Marshal(v)
			if err != nil {
				buf.WriteString("null")
				continue
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
	}
	buf.WriteString("]}")
	return buf.Bytes(), nil
}
