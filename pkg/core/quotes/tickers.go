package quotes

import (
	"fmt"
	"strings"

	"brquote/pkg/core/logging"
)

// SuffixPolicy is the market suffix appended to canonical tickers (".SA"
// for B3). Canonicalization strips an existing suffix before appending, so
// applying the policy twice yields the same ticker.
type SuffixPolicy string

// Canonicalize returns the ticker with the market suffix exactly once.
func (p SuffixPolicy) Canonicalize(ticker string) string {
	s := string(p)
	if s == "" {
		return ticker
	}
	return strings.TrimSuffix(ticker, s) + s
}

// Tickers coerces a dispatch argument into a ticker list. A bare string is
// a one-element list; string slices and JSON arrays are accepted with
// non-string elements skipped under a warning. Any other shape is a
// validation error — the one failure mode that aborts instead of degrading.
// single reports whether the input was a bare string, which changes the
// result shape of fetch functions.
func Tickers(v any) (list []string, single bool, err error) {
	switch x := v.(type) {
	case string:
		return []string{x}, true, nil
	case []string:
		return append([]string(nil), x...), false, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				logging.Component("quotes").WithField("ticker", item).Warn("skipping invalid ticker")
				continue
			}
			out = append(out, s)
		}
		return out, false, nil
	default:
		return nil, false, fmt.Errorf("expected string or list of tickers, got %T", v)
	}
}
