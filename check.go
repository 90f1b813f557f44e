// Package djlex checks Django-style templates with the lexers of package lex
// and serves the results over HTTP.
package djlex

import (
	"github.com/dpotapov/go-djlex/diag"
	"github.com/dpotapov/go-djlex/lex"
)

// conditionTags are the tags whose arguments are lexed as boolean expressions.
var conditionTags = map[string]bool{
	"if":   true,
	"elif": true,
}

// Report is the result of checking one template.
type Report struct {
	Name        string            `json:"name"`
	Tags        []TagReport       `json:"tags"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`

	file *diag.File
}

// TagReport describes a lexed block tag.
type TagReport struct {
	Name      string    `json:"name"`
	At        lex.Span  `json:"at"`
	Parts     *lex.Span `json:"parts,omitempty"`
	Condition []Token   `json:"condition,omitempty"`
}

// Token is a condition token with its position resolved. The expr tags name
// the fields available to filter expressions.
type Token struct {
	Kind   string `json:"kind" expr:"kind"`
	Text   string `json:"text" expr:"text"`
	Tag    string `json:"tag" expr:"tag"`
	Value  bool   `json:"value" expr:"value"` // literal or variable rather than an operator
	Offset int    `json:"offset" expr:"offset"`
	Length int    `json:"length" expr:"length"`
	Line   int    `json:"line" expr:"line"`
	Column int    `json:"column" expr:"column"`
}

// Check lexes every block tag of src. Lexing errors do not stop the check;
// each one becomes a diagnostic and the scan continues with the next tag.
func Check(name, src string) *Report {
	f := diag.NewFile(name, src)
	source := lex.Source(src)
	r := &Report{Name: name, file: f}

	for _, raw := range ScanTags(src) {
		tag, err := lex.LexTag(raw.Inner, raw.Start)
		if err != nil {
			r.Diagnostics = append(r.Diagnostics, f.Diagnose(err))
			continue
		}
		if tag == nil {
			continue
		}

		tr := TagReport{Name: tag.Token.Content(source), At: raw.At}
		if tag.Parts != nil {
			at := tag.Parts.At
			tr.Parts = &at
		}

		if conditionTags[tr.Name] && tag.Parts != nil {
			tokens, err := lex.NewIfConditionLexer(source, *tag.Parts).Tokens()
			for _, tok := range tokens {
				pos := f.Position(tok.At.Offset)
				tr.Condition = append(tr.Condition, Token{
					Kind:   tok.Type.String(),
					Text:   tok.Content(source),
					Tag:    tr.Name,
					Value:  tok.Type.IsValue(),
					Offset: tok.At.Offset,
					Length: tok.At.Length,
					Line:   pos.Line,
					Column: pos.Column,
				})
			}
			if err != nil {
				r.Diagnostics = append(r.Diagnostics, f.Diagnose(err))
			}
		}

		r.Tags = append(r.Tags, tr)
	}
	return r
}

// OK reports whether the template produced no diagnostics.
func (r *Report) OK() bool {
	return len(r.Diagnostics) == 0
}

// File returns the checked source for rendering diagnostics.
func (r *Report) File() *diag.File {
	return r.file
}

// Tokens returns the condition tokens of all tags in source order.
func (r *Report) Tokens() []Token {
	var tokens []Token
	for _, t := range r.Tags {
		tokens = append(tokens, t.Condition...)
	}
	return tokens
}
