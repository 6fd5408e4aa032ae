package table

import (
	"fmt"
	"time"
)

// AlignSeries reindexes per-key sparse series onto a reference date index
// with forward-fill, producing a frame whose column order matches
// refColumns exactly. Each series is normalized to UTC and sorted before
// alignment; dates before a series' first observation stay NaN.
//
// Reconciliation is strict: every reference column must have a sparse
// series. Fetch functions tolerate missing tickers; alignment assumes the
// caller already filtered to a common ticker set, so a gap here is a caller
// bug and surfaces as an error rather than a silent column of NaN.
func AlignSeries(sparse map[string]*Series, refIndex []time.Time, refColumns []string) (*Frame, error) {
	for _, c := range refColumns {
		if _, ok := sparse[c]; !ok {
			return nil, fmt.Errorf("no series for reference column %q", c)
		}
	}
	merged := make(map[string]*Series, len(refColumns))
	for _, c := range refColumns {
		s := &Series{
			Dates:  append([]time.Time(nil), sparse[c].Dates...),
			Values: append([]float64(nil), sparse[c].Values...),
		}
		s.UTC()
		s.Sort()
		s.DedupeKeepLast()
		merged[c] = s
	}
	wide := MergeSeries(merged, refColumns)
	selected, err := wide.Select(refColumns)
	if err != nil {
		return nil, err
	}
	selected.SortByIndex()
	return selected.ReindexFFill(refIndex), nil
}
