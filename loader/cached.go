package loader

import (
	"errors"
	"io"
	"log/slog"
	"sync"
)

type cacheEntry struct {
	tmpl *Template
	err  *NotFoundError
}

// CachedLoader consults Loaders in order and remembers the outcome for each
// name. Both found templates and not-found failures stay cached until Reset
// is called; other errors are returned without being cached.
type CachedLoader struct {
	Loaders []Loader

	// Logger configures logging for cache hits and misses.
	Logger *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewCachedLoader returns a CachedLoader over loaders.
func NewCachedLoader(logger *slog.Logger, loaders ...Loader) *CachedLoader {
	return &CachedLoader{Loaders: loaders, Logger: logger}
}

func (l *CachedLoader) GetTemplate(name string) (*Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.cache[name]; ok {
		l.logger().Debug("Template cache hit", "name", name, "found", e.err == nil)
		if e.err != nil {
			return nil, e.err
		}
		return e.tmpl, nil
	}

	l.logger().Debug("Template cache miss", "name", name)

	t, err := getTemplate(l.Loaders, name)
	var nf *NotFoundError
	switch {
	case err == nil:
		l.store(name, cacheEntry{tmpl: t})
	case errors.As(err, &nf):
		l.store(name, cacheEntry{err: nf})
	default:
		l.logger().Error("Load template", "name", name, "error", err)
	}
	return t, err
}

// Reset empties the cache.
func (l *CachedLoader) Reset() {
	l.mu.Lock()
	l.cache = nil
	l.mu.Unlock()
}

func (l *CachedLoader) store(name string, e cacheEntry) {
	if l.cache == nil {
		l.cache = make(map[string]cacheEntry)
	}
	l.cache[name] = e
}

func (l *CachedLoader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return discardLogger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
