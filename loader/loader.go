// Package loader resolves template names to template sources.
package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTemplateNotFound is matched by every *NotFoundError.
var ErrTemplateNotFound = errors.New("template not found")

// Template is a loaded template source.
type Template struct {
	Name     string // name the template was requested by
	Filename string // where it was found; empty for in-memory templates
	Source   string
}

// Loader resolves a template name. When the template cannot be found the
// error is a *NotFoundError listing every location that was tried.
type Loader interface {
	GetTemplate(name string) (*Template, error)
}

// LoaderFunc adapts an ordinary function to the Loader interface. It is the
// hook for templates stored outside of the loaders in this package.
type LoaderFunc func(name string) (*Template, error)

func (f LoaderFunc) GetTemplate(name string) (*Template, error) {
	return f(name)
}

// Attempt is a location a loader tried and the reason it was rejected.
type Attempt struct {
	Location string
	Reason   string
}

// NotFoundError aggregates the attempts of every loader that was consulted.
type NotFoundError struct {
	Name  string
	Tried []Attempt
}

func (e *NotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("%s: %s", e.Name, ErrTemplateNotFound)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s, tried:", e.Name, ErrTemplateNotFound)
	for _, a := range e.Tried {
		fmt.Fprintf(&sb, "\n  %s (%s)", a.Location, a.Reason)
	}
	return sb.String()
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrTemplateNotFound
}

// Chain consults loaders in order and returns the first template found.
// A failure other than "not found" stops the search.
func Chain(loaders ...Loader) Loader {
	return LoaderFunc(func(name string) (*Template, error) {
		return getTemplate(loaders, name)
	})
}

func getTemplate(loaders []Loader, name string) (*Template, error) {
	var tried []Attempt
	for _, l := range loaders {
		t, err := l.GetTemplate(name)
		if err == nil {
			return t, nil
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
		tried = append(tried, nf.Tried...)
	}
	return nil, &NotFoundError{Name: name, Tried: tried}
}
