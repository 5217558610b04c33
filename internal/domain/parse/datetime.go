// Package parse converts export text fields into canonical numbers.
//
// Every function is total over its grammar and returns *Error otherwise;
// nothing is trimmed or guessed.
package parse

import (
	"strings"
	"time"
)

const (
	// Zone-naive datetimes are read as UTC.
	layoutNaive  = "2006-01-02 15:04:05"
	layoutOffset = "2006-01-02 15:04:05 -0700"

	shapeDate   = "dddd-dd-dd"
	shapeTime   = "dd:dd:dd"
	shapeOffset = "sdddd"
)

// Timestamp parses "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD HH:MM:SS ±HHMM" into
// milliseconds since the Unix epoch. A positive offset is ahead of UTC, so
// "... +0100" is one hour earlier than the same wall clock at "+0000".
func Timestamp(text string) (int64, error) {
	tokens := strings.Split(text, " ")
	layout := layoutNaive
	switch len(tokens) {
	case 2:
	case 3:
		if !matchShape(tokens[2], shapeOffset) {
			return 0, newError(KindDatetime, text)
		}
		layout = layoutOffset
	default:
		return 0, newError(KindDatetime, text)
	}
	// time.Parse tolerates fractional seconds and one-digit hours, neither of
	// which the export grammar allows.
	if !matchShape(tokens[0], shapeDate) || !matchShape(tokens[1], shapeTime) {
		return 0, newError(KindDatetime, text)
	}

	t, err := time.Parse(layout, text)
	if err != nil {
		return 0, newError(KindDatetime, text)
	}
	return t.UnixMilli(), nil
}

// matchShape reports whether s has the same length as shape and every byte
// fits: 'd' is an ASCII digit, 's' is '+' or '-', anything else is literal.
func matchShape(s, shape string) bool {
	if len(s) != len(shape) {
		return false
	}
	for i := 0; i < len(shape); i++ {
		c := s[i]
		switch shape[i] {
		case 'd':
			if c < '0' || c > '9' {
				return false
			}
		case 's':
			if c != '+' && c != '-' {
				return false
			}
		default:
			if c != shape[i] {
				return false
			}
		}
	}
	return true
}
