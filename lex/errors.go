package lex

import "errors"

var (
	ErrInvalidTagName       = errors.New("invalid block tag name")
	ErrUnterminatedLiteral  = errors.New("expected a complete string literal")
	ErrIncompleteTranslated = errors.New("expected a complete translation string")
	ErrInvalidRemainder     = errors.New("could not parse the remainder")
)

// Error is a lexical error pointing at the offending part of the template.
// Err is one of the sentinel errors above.
type Error struct {
	Err error
	At  Span
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Label is the short annotation diagnostics print under the span.
func (e *Error) Label() string {
	return "here"
}

func newError(err error, offset, length int) *Error {
	return &Error{Err: err, At: Span{Offset: offset, Length: length}}
}
