package djlex

import (
	"strings"

	"github.com/dpotapov/go-djlex/lex"
)

const (
	tagStart     = "{%"
	tagEnd       = "%}"
	varStart     = "{{"
	varEnd       = "}}"
	commentStart = "{#"
	commentEnd   = "#}"
)

// RawTag is a {% %} tag found in a template, before lexing.
type RawTag struct {
	Inner string   // text between the delimiters
	Start int      // absolute offset of Inner
	At    lex.Span // the whole tag including delimiters
}

// ScanTags finds the block tags of a template. As in Django, a construct
// must open and close on the same line; an unterminated
// {% or one spanning lines is plain text. Variables and comments are skipped.
func ScanTags(src string) []RawTag {
	s := &tagScanner{input: src}
	for state := scanText; state != nil; {
		state = state(s)
	}
	return s.tags
}

// Implementation of the scanner based on https://go.dev/talks/2011/lex.slide

// tagScanner holds the state of the scanner.
type tagScanner struct {
	input string // the template being scanned
	pos   int    // current position in the input
	tags  []RawTag
}

// scanFn represents the state of the scanner
// as a function that returns the next state.
type scanFn func(*tagScanner) scanFn

// emit records the tag opening at s.pos and closing at end.
func (s *tagScanner) emit(end int) {
	s.tags = append(s.tags, RawTag{
		Inner: s.input[s.pos+len(tagStart) : end],
		Start: s.pos + len(tagStart),
		At:    lex.Span{Offset: s.pos, Length: end + len(tagEnd) - s.pos},
	})
}

// closing returns the offset of the delimiter closing the construct that
// opens at s.pos, or -1 if it is not closed on the same line.
func (s *tagScanner) closing(delim string) int {
	body := s.input[s.pos+2:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[:nl]
	}
	i := strings.Index(body, delim)
	if i < 0 {
		return -1
	}
	return s.pos + 2 + i
}

func scanText(s *tagScanner) scanFn {
	for {
		i := strings.IndexByte(s.input[s.pos:], '{')
		if i < 0 {
			s.pos = len(s.input)
			return nil
		}
		s.pos += i
		switch rest := s.input[s.pos:]; {
		case strings.HasPrefix(rest, tagStart):
			return scanTag
		case strings.HasPrefix(rest, varStart):
			return skipUntil(varEnd)
		case strings.HasPrefix(rest, commentStart):
			return skipUntil(commentEnd)
		}
		s.pos++
	}
}

func scanTag(s *tagScanner) scanFn {
	end := s.closing(tagEnd)
	if end < 0 {
		s.pos++
		return scanText
	}
	s.emit(end)
	s.pos = end + len(tagEnd)
	return scanText
}

// skipUntil returns a state that skips a variable or comment.
func skipUntil(delim string) scanFn {
	return func(s *tagScanner) scanFn {
		end := s.closing(delim)
		if end < 0 {
			s.pos++
			return scanText
		}
		s.pos = end + len(delim)
		return scanText
	}
}
