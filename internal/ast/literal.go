package ast

import (
	"fmt"
	"math"
	"strconv"
)

// FormatNumber renders a number the way print and string concatenation
// show it: integral values have no fractional part, and exponents are never
// used.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func FormatLiteral(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return FormatNumber(v)
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
