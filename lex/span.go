package lex

// Span locates a substring of the template source. Offsets are bytes into the
// whole template, never into a tag or an expression.
type Span struct {
	Offset int `json:"offset"` // Byte offset in the template
	Length int `json:"length"` // Length in bytes
}

// End returns the end offset of the span
func (s Span) End() int {
	return s.Offset + s.Length
}

// IsZero returns true if the span is uninitialized
func (s Span) IsZero() bool {
	return s.Offset == 0 && s.Length == 0
}

// Source is a read-only view of the full template text. Lexers resolve spans
// against it without copying.
type Source string

// Content returns the exact substring covered by at.
func (s Source) Content(at Span) string {
	return string(s[at.Offset:at.End()])
}
