package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coerce converts an arbitrary JSON-decoded value to float64. Strings are
// parsed after stripping thousands separators and percent signs. The second
// return is false for non-numeric residue; callers record such cells as NaN.
func Coerce(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSuffix(s, "%")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// CoerceOrNaN is Coerce with NaN standing in for non-numeric residue.
func CoerceOrNaN(v any) float64 {
	f, ok := Coerce(v)
	if !ok {
		return math.NaN()
	}
	return f
}
