package loader

// LocMemLoader serves templates from memory, keyed by name.
type LocMemLoader struct {
	Templates map[string]string
}

func (l *LocMemLoader) GetTemplate(name string) (*Template, error) {
	src, ok := l.Templates[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Tried: []Attempt{{Location: name, Reason: reasonMissing}}}
	}
	return &Template{Name: name, Source: src}, nil
}
