package diag

import (
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderHTML writes d as an HTML fragment. The source line is shown with the
// offending span wrapped in a <mark> element.
func (f *File) RenderHTML(w io.Writer, d Diagnostic) error {
	div := element(atom.Div, "class", "diagnostic")

	msg := element(atom.P, "class", "message")
	if d.HasLocation() {
		msg.AppendChild(text(d.Position().String() + ": "))
	}
	msg.AppendChild(text(d.Message))
	div.AppendChild(msg)

	if d.HasLocation() {
		line := f.Line(d.Line)
		start := min(d.Offset-f.lineStart(d.Line), len(line))
		end := min(start+d.Length, len(line))

		code := element(atom.Code)
		if start > 0 {
			code.AppendChild(text(line[:start]))
		}
		mark := element(atom.Mark)
		if d.Label != "" {
			mark.Attr = append(mark.Attr, html.Attribute{Key: "title", Val: d.Label})
		}
		mark.AppendChild(text(line[start:end]))
		code.AppendChild(mark)
		if end < len(line) {
			code.AppendChild(text(line[end:]))
		}

		pre := element(atom.Pre, "data-line", strconv.Itoa(d.Line))
		pre.AppendChild(code)
		div.AppendChild(pre)
	}

	return html.Render(w, div)
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
