package diag

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/beevik/etree"
)

// WriteJSON writes diagnostics as an indented JSON array.
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// WriteCheckstyle writes diagnostics in the checkstyle XML format understood by
// most CI systems. Files appear in the order of their first diagnostic.
func WriteCheckstyle(w io.Writer, diags []Diagnostic) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", "4.3")

	files := make(map[string]*etree.Element)
	for _, d := range diags {
		file, ok := files[d.File]
		if !ok {
			file = root.CreateElement("file")
			file.CreateAttr("name", d.File)
			files[d.File] = file
		}
		el := file.CreateElement("error")
		if d.HasLocation() {
			el.CreateAttr("line", strconv.Itoa(d.Line))
			el.CreateAttr("column", strconv.Itoa(d.Column))
		}
		el.CreateAttr("severity", "error")
		el.CreateAttr("message", d.Message)
		el.CreateAttr("source", "djlex")
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
