package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Render writes d in the usual compiler layout, pointing at the offending
// span of the source line:
//
//	error: could not parse the remainder
//	  --> page.html:1:12
//	   |
//	 1 | {% if 'foo'remainder %}
//	   |            ^^^^^^^^^ here
func (f *File) Render(w io.Writer, d Diagnostic) error {
	var sb strings.Builder

	sb.WriteString("error: ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if !d.HasLocation() {
		if d.File != "" {
			fmt.Fprintf(&sb, "  --> %s\n", d.File)
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}

	lineNo := strconv.Itoa(d.Line)
	gutter := strings.Repeat(" ", len(lineNo)+1)
	line := f.Line(d.Line)

	fmt.Fprintf(&sb, "%s--> %s\n", gutter, d.Position())
	fmt.Fprintf(&sb, "%s |\n", gutter)
	fmt.Fprintf(&sb, " %s | %s\n", lineNo, line)
	fmt.Fprintf(&sb, "%s | %s%s", gutter, f.caretIndent(d, line), f.carets(d, line))
	if d.Label != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Label)
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

// caretIndent keeps tabs so the carets line up with the source line.
func (f *File) caretIndent(d Diagnostic, line string) string {
	prefix := line[:min(d.Offset-f.lineStart(d.Line), len(line))]
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}
		return ' '
	}, prefix)
}

// carets underlines the part of the span that lies on the first line.
func (f *File) carets(d Diagnostic, line string) string {
	start := min(d.Offset-f.lineStart(d.Line), len(line))
	end := min(start+d.Length, len(line))
	n := utf8.RuneCountInString(line[start:end])
	if n == 0 {
		n = 1
	}
	return strings.Repeat("^", n)
}
