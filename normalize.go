package sender

import (
	"github.com/spf13/cast"
	"strconv"
	"strings"
)

// NormalizeValue renders value with at most precision fractional digits,
// dropping trailing zeros and a trailing decimal point. The output never
// depends on locale: '.' is the only separator and no grouping is applied.
//
// Rounding follows strconv.FormatFloat, which rounds the exact binary value,
// so NormalizeValue(1.25, 1) is "1.2" while NormalizeValue(1.35, 1) is "1.4".
func NormalizeValue(value float64, precision int) string {
	s := strconv.FormatFloat(value, 'f', precision, 64)
	if strings.IndexByte(s, '.') >= 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// normalizeAny accepts any numeric-ish input (ints, unsigned, floats, numeric
// strings, bools) and normalizes it.
func normalizeAny(value interface{}, precision int) (string, error) {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return "", err
	}
	return NormalizeValue(f, precision), nil
}
