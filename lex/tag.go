package lex

import (
	"strings"
	"unicode"
)

// TagToken is the name of a block tag, e.g. "if" in {% if foo %}.
type TagToken struct {
	At Span
}

// Content returns the tag name from the template source.
func (t TagToken) Content(template Source) string {
	return template.Content(t.At)
}

// TagParts is the raw argument text following a tag name. It is tokenized
// later by a tag-specific lexer.
type TagParts struct {
	At Span
}

// Tag is the result of lexing a single tag body.
type Tag struct {
	Token TagToken
	Parts *TagParts // nil when the tag has no arguments
}

// LexTag splits the inner text of a {% %} tag into its name and arguments.
// start is the absolute offset of tag in the template. An empty or blank tag
// body returns (nil, nil).
func LexTag(tag string, start int) (*Tag, error) {
	rest := strings.TrimLeftFunc(tag, unicode.IsSpace)
	if strings.TrimSpace(rest) == "" {
		return nil, nil
	}

	start += len(tag) - len(rest)
	tag = strings.TrimSpace(tag)

	tagLen := strings.IndexFunc(tag, func(r rune) bool { return !isIdentContinue(r) })
	if tagLen < 0 {
		return &Tag{Token: TagToken{At: Span{Offset: start, Length: len(tag)}}}, nil
	}

	index := strings.IndexFunc(tag, unicode.IsSpace)
	if index < 0 {
		index = len(tag)
	}
	if index > tagLen {
		return nil, newError(ErrInvalidTagName, start, index)
	}

	token := TagToken{At: Span{Offset: start, Length: tagLen}}
	args := tag[tagLen:]
	trimmed := strings.TrimSpace(args)
	parts := &TagParts{At: Span{
		Offset: start + tagLen + len(args) - len(trimmed),
		Length: len(trimmed),
	}}
	return &Tag{Token: token, Parts: parts}, nil
}

// isIdentContinue approximates the Unicode XID_Continue property.
func isIdentContinue(r rune) bool {
	return unicode.In(r,
		unicode.L, unicode.Nl, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
		unicode.Other_ID_Start, unicode.Other_ID_Continue)
}
