package table

import (
	"sort"
	"time"
)

// Series is a sparse date-indexed sequence of float64 values. Dates and
// Values are parallel; ordering is whatever the producer appended until
// Sort is called.
type Series struct {
	Dates  []time.Time
	Values []float64
}

// Append adds one observation.
func (s *Series) Append(date time.Time, value float64) {
	s.Dates = append(s.Dates, date)
	s.Values = append(s.Values, value)
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Dates)
}

// Sort orders observations chronologically. The sort is stable so that
// duplicate dates keep their arrival order for DedupeKeepLast.
func (s *Series) Sort() {
	idx := make([]int, len(s.Dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Dates[idx[a]].Before(s.Dates[idx[b]])
	})
	dates := make([]time.Time, len(idx))
	values := make([]float64, len(idx))
	for i, j := range idx {
		dates[i] = s.Dates[j]
		values[i] = s.Values[j]
	}
	s.Dates, s.Values = dates, values
}

// DedupeKeepLast removes duplicate dates, keeping the last observation for
// each. The series must already be sorted.
func (s *Series) DedupeKeepLast() {
	if len(s.Dates) < 2 {
		return
	}
	dates := s.Dates[:0]
	values := s.Values[:0]
	for i := range s.Dates {
		if i+1 < len(s.Dates) && s.Dates[i].Equal(s.Dates[i+1]) {
			continue
		}
		dates = append(dates, s.Dates[i])
		values = append(values, s.Values[i])
	}
	s.Dates, s.Values = dates, values
}

// UTC normalizes every date to the UTC location.
func (s *Series) UTC() {
	for i, d := range s.Dates {
		s.Dates[i] = d.UTC()
	}
}
