package series

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultGroup is used when a record carries no usable group label.
const DefaultGroup = "default"

// NormalizeGroup turns a free-text label into a group identifier:
// " hello  world " becomes "HelloWorld" and a blank label becomes DefaultGroup.
func NormalizeGroup(text string) string {
	if g := CamelCase(text); g != "" {
		return g
	}
	return DefaultGroup
}

// CamelCase splits text on whitespace runs, upper-cases the first letter of
// each token, lower-cases the rest and joins the tokens. Blank input yields "".
func CamelCase(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, tok := range strings.Fields(text) {
		r, size := utf8.DecodeRuneInString(tok)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(tok[size:]))
	}
	return b.String()
}
