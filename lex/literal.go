package lex

import (
	"strings"
	"unicode"
)

// The literal scanners below are shared by the tag-specific lexers. Each one
// receives the absolute byte offset pos of rest[0] and the unconsumed source,
// and returns the span of the literal, the offset just past it and what is
// left of rest.

// LexNumeric scans a number such as 5, -1.5 or 2e-3. The scan stops at the
// first byte that cannot continue the literal; whether what follows is
// acceptable is for the caller to decide.
func LexNumeric(pos int, rest string) (Span, int, string) {
	n := 0
	if n < len(rest) && rest[n] == '-' {
		n++
	}
	for n < len(rest) && (isDigit(rest[n]) || rest[n] == '.') {
		n++
	}
	if n < len(rest) && (rest[n] == 'e' || rest[n] == 'E') {
		m := n + 1
		if m < len(rest) && (rest[m] == '+' || rest[m] == '-') {
			m++
		}
		if m < len(rest) && isDigit(rest[m]) {
			for m < len(rest) && isDigit(rest[m]) {
				m++
			}
			n = m
		}
	}
	return Span{Offset: pos, Length: n}, pos + n, rest[n:]
}

// LexText scans a quoted string. rest must start with the opening quote (' or
// "); the span includes both quotes. A backslash escapes the next character.
func LexText(pos int, rest string) (Span, int, string, error) {
	quote := rest[0]
	for n := 1; n < len(rest); n++ {
		switch rest[n] {
		case '\\':
			n++
		case quote:
			n++
			return Span{Offset: pos, Length: n}, pos + n, rest[n:], nil
		}
	}
	return Span{}, pos, rest, newError(ErrUnterminatedLiteral, pos, len(rest))
}

// LexTranslated scans a translated string _('...'). rest must start with "_(".
// The span runs from the underscore to the closing parenthesis.
func LexTranslated(pos int, rest string) (Span, int, string, error) {
	n := len("_(")
	if n >= len(rest) || !isQuote(rest[n]) {
		return Span{}, pos, rest, newError(ErrIncompleteTranslated, pos, n)
	}
	text, _, after, err := LexText(pos+n, rest[n:])
	if err != nil {
		return Span{}, pos, rest, err
	}
	n += text.Length
	if !strings.HasPrefix(after, ")") {
		return Span{}, pos, rest, newError(ErrIncompleteTranslated, pos, n)
	}
	n++
	return Span{Offset: pos, Length: n}, pos + n, rest[n:], nil
}

// LexVariable scans a variable reference up to the next whitespace. Attribute
// lookups and filter chains (foo.bar|default:'spam') stay a single token; the
// parser splits them.
func LexVariable(pos int, rest string) (Span, int, string) {
	n := strings.IndexFunc(rest, unicode.IsSpace)
	if n < 0 {
		n = len(rest)
	}
	return Span{Offset: pos, Length: n}, pos + n, rest[n:]
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isQuote(b byte) bool {
	return b == '\'' || b == '"'
}
