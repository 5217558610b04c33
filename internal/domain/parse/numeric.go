package parse

import (
	"math"
	"strconv"
)

// Int parses a base-10 integer. The whole string must be consumed, so "1.53"
// and "12abc" are rejected.
func Int(text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, newError(KindInteger, text)
	}
	return v, nil
}

// Double parses a finite decimal number.
func Double(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, newError(KindDouble, text)
	}
	return v, nil
}
