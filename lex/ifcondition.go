package lex

import (
	"io"
	"strings"
	"unicode"
)

// IfConditionTokenType identifies the kind of an IfConditionToken.
type IfConditionTokenType int

const (
	Numeric IfConditionTokenType = iota
	Text
	TranslatedText
	Variable
	And
	Or
	Not
	Equal
	NotEqual
	LessThan
	GreaterThan
	LessThanEqual
	GreaterThanEqual
	In
	NotIn
	Is
	IsNot
)

var tokenTypeNames = [...]string{
	Numeric:          "Numeric",
	Text:             "Text",
	TranslatedText:   "TranslatedText",
	Variable:         "Variable",
	And:              "And",
	Or:               "Or",
	Not:              "Not",
	Equal:            "Equal",
	NotEqual:         "NotEqual",
	LessThan:         "LessThan",
	GreaterThan:      "GreaterThan",
	LessThanEqual:    "LessThanEqual",
	GreaterThanEqual: "GreaterThanEqual",
	In:               "In",
	NotIn:            "NotIn",
	Is:               "Is",
	IsNot:            "IsNot",
}

func (t IfConditionTokenType) String() string {
	if t < 0 || int(t) >= len(tokenTypeNames) {
		return "IfConditionTokenType(?)"
	}
	return tokenTypeNames[t]
}

// IsValue reports whether t is a literal or variable rather than an operator.
func (t IfConditionTokenType) IsValue() bool {
	return t <= Variable
}

// operators maps the single-word lexemes to their token types. "not" and "is"
// are resolved in Next because they may start a two-word operator.
var operators = map[string]IfConditionTokenType{
	"and": And,
	"or":  Or,
	"==":  Equal,
	"!=":  NotEqual,
	"<":   LessThan,
	">":   GreaterThan,
	"<=":  LessThanEqual,
	">=":  GreaterThanEqual,
	"in":  In,
}

// IfConditionToken is a single token of an {% if %} expression.
type IfConditionToken struct {
	At   Span
	Type IfConditionTokenType
}

// Content returns the token text from the template source.
func (t IfConditionToken) Content(template Source) string {
	return template.Content(t.At)
}

// IfConditionLexer splits the arguments of an if/elif tag into tokens.
// It is single-pass: once it has returned an error it only returns io.EOF.
type IfConditionLexer struct {
	rest   string // unconsumed part of the expression
	pos    int    // absolute offset of rest[0] in the template
	halted bool
}

// NewIfConditionLexer returns a lexer over the expression covered by parts.
func NewIfConditionLexer(template Source, parts TagParts) *IfConditionLexer {
	return &IfConditionLexer{
		rest: template.Content(parts.At),
		pos:  parts.At.Offset,
	}
}

// Next returns the next token of the expression. It returns io.EOF when the
// expression is exhausted or after a previous call returned a lexing error.
func (l *IfConditionLexer) Next() (IfConditionToken, error) {
	if l.halted || l.rest == "" {
		return IfConditionToken{}, io.EOF
	}

	index := wordEnd(l.rest)
	word := l.rest[:index]

	typ, ok := operators[word]
	switch {
	case ok:
	case word == "not":
		typ = Not
		if n, ok := l.lookahead(index, "in"); ok {
			typ, index = NotIn, n
		}
	case word == "is":
		typ = Is
		if n, ok := l.lookahead(index, "not"); ok {
			typ, index = IsNot, n
		}
	default:
		return l.lexValue()
	}

	at := Span{Offset: l.pos, Length: index}
	l.advance(index)
	l.skipSpace()
	return IfConditionToken{At: at, Type: typ}, nil
}

// Tokens drains the lexer. On error it returns the tokens read so far
// together with the error.
func (l *IfConditionLexer) Tokens() ([]IfConditionToken, error) {
	var tokens []IfConditionToken
	for {
		tok, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}

// lookahead checks whether the word after the first index bytes of the
// expression is want. On success it returns the length covering both words.
func (l *IfConditionLexer) lookahead(index int, want string) (int, bool) {
	rest := l.rest[index:]
	space := strings.IndexFunc(rest, isNotSpace)
	if space < 0 {
		return index, false
	}
	rest = rest[space:]
	if rest[:wordEnd(rest)] != want {
		return index, false
	}
	return index + space + len(want), true
}

func (l *IfConditionLexer) lexValue() (IfConditionToken, error) {
	var (
		typ  IfConditionTokenType
		at   Span
		next int
		rest string
		err  error
	)
	switch r := l.rest; {
	case strings.HasPrefix(r, "_("):
		typ = TranslatedText
		at, next, rest, err = LexTranslated(l.pos, r)
	case isQuote(r[0]):
		typ = Text
		at, next, rest, err = LexText(l.pos, r)
	case isDigit(r[0]) || r[0] == '-':
		typ = Numeric
		at, next, rest = LexNumeric(l.pos, r)
	default:
		typ = Variable
		at, next, rest = LexVariable(l.pos, r)
	}
	if err != nil {
		return l.fail(err)
	}
	l.pos, l.rest = next, rest

	if err := l.lexRemainder(); err != nil {
		return l.fail(err)
	}
	return IfConditionToken{At: at, Type: typ}, nil
}

// lexRemainder requires a value to be followed by whitespace or the end of
// the expression.
func (l *IfConditionLexer) lexRemainder() error {
	if n := wordEnd(l.rest); n > 0 {
		return newError(ErrInvalidRemainder, l.pos, n)
	}
	l.skipSpace()
	return nil
}

func (l *IfConditionLexer) fail(err error) (IfConditionToken, error) {
	l.rest = ""
	l.halted = true
	return IfConditionToken{}, err
}

func (l *IfConditionLexer) advance(n int) {
	l.pos += n
	l.rest = l.rest[n:]
}

func (l *IfConditionLexer) skipSpace() {
	rest := strings.TrimLeftFunc(l.rest, unicode.IsSpace)
	l.advance(len(l.rest) - len(rest))
}

// wordEnd returns the length of the leading run of non-space characters.
func wordEnd(s string) int {
	if n := strings.IndexFunc(s, unicode.IsSpace); n >= 0 {
		return n
	}
	return len(s)
}

func isNotSpace(r rune) bool {
	return !unicode.IsSpace(r)
}
