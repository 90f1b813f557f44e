package diag

import (
	"errors"

	"github.com/dpotapov/go-djlex/lex"
)

// Diagnostic is an error located in a template.
type Diagnostic struct {
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
	Label   string `json:"label,omitempty"`
	Offset  int    `json:"offset"`
	Length  int    `json:"length"`
	Line    int    `json:"line"`   // 0 if the error carries no location
	Column  int    `json:"column"` // 0 if the error carries no location

	Err error `json:"-"`
}

func (d Diagnostic) Error() string {
	if d.Line == 0 {
		if d.File == "" {
			return d.Message
		}
		return d.File + ": " + d.Message
	}
	return d.Position().String() + ": " + d.Message
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Position returns the start position of the diagnostic.
func (d Diagnostic) Position() Position {
	return Position{Filename: d.File, Offset: d.Offset, Line: d.Line, Column: d.Column}
}

// HasLocation reports whether the diagnostic points into the source.
func (d Diagnostic) HasLocation() bool {
	return d.Line > 0
}

// Diagnose converts err into a Diagnostic. Errors that wrap a *lex.Error are
// located in f; any other error yields a diagnostic without a location.
func (f *File) Diagnose(err error) Diagnostic {
	d := Diagnostic{File: f.name, Message: err.Error(), Err: err}

	var lexErr *lex.Error
	if !errors.As(err, &lexErr) {
		return d
	}
	pos := f.Position(lexErr.At.Offset)
	d.Label = lexErr.Label()
	d.Offset = pos.Offset
	d.Length = lexErr.At.Length
	d.Line = pos.Line
	d.Column = pos.Column
	return d
}
