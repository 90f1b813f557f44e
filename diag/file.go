// Package diag maps lexer spans to line/column positions and renders
// diagnostics for people and tools.
package diag

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Position describes a source position including the file, line, and column location.
type Position struct {
	Filename string
	Offset   int // byte offset in the file
	Line     int // 1-based line number
	Column   int // 1-based column number (in runes, not bytes)
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// A File is a template source with a line table for offset to line/column
// conversion.
type File struct {
	name  string
	src   string
	lines []int // byte offsets of line starts
}

// NewFile returns a new File.
func NewFile(name, src string) *File {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &File{name: name, src: src, lines: lines}
}

// Name returns the file name.
func (f *File) Name() string {
	return f.name
}

// Source returns the file contents.
func (f *File) Source() string {
	return f.src
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.lines)
}

// Position returns the position of the given byte offset. Offsets past the end
// of the file are clamped to it.
func (f *File) Position(offset int) Position {
	if offset > len(f.src) {
		offset = len(f.src)
	}
	if offset < 0 {
		offset = 0
	}
	i := sort.Search(len(f.lines), func(i int) bool { return f.lines[i] > offset })
	start := f.lines[i-1]
	return Position{
		Filename: f.name,
		Offset:   offset,
		Line:     i,
		Column:   utf8.RuneCountInString(f.src[start:offset]) + 1,
	}
}

// Line returns the text of the 1-based line n without its line terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	start := f.lines[n-1]
	end := len(f.src)
	if n < len(f.lines) {
		end = f.lines[n] - 1
	}
	return strings.TrimSuffix(f.src[start:end], "\r")
}

// lineStart returns the byte offset of the 1-based line n.
func (f *File) lineStart(n int) int {
	return f.lines[n-1]
}
