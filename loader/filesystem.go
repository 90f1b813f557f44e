package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	reasonMissing = "Source does not exist"
	reasonOutside = "Source is outside the template directory"
)

// DecodeError reports template bytes that are malformed in the configured
// encoding.
type DecodeError struct {
	Path     string
	Encoding string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not open %q with %s encoding", e.Path, e.Encoding)
}

// FileSystemLoader looks templates up in a list of directories.
type FileSystemLoader struct {
	Dirs []string

	// Encoding is the WHATWG name of the template file encoding. Defaults to utf-8.
	Encoding string
}

// GetTemplate returns the first file named name found in Dirs.
func (l *FileSystemLoader) GetTemplate(name string) (*Template, error) {
	enc, encName, err := lookupEncoding(l.Encoding)
	if err != nil {
		return nil, err
	}

	var tried []Attempt
	for _, dir := range l.Dirs {
		path, ok := safeJoin(dir, name)
		if !ok {
			tried = append(tried, Attempt{Location: filepath.Join(dir, name), Reason: reasonOutside})
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || isDirErr(path) {
				tried = append(tried, Attempt{Location: path, Reason: reasonMissing})
				continue
			}
			return nil, fmt.Errorf("read template %s: %w", path, err)
		}
		src, ok := decode(data, enc, encName)
		if !ok {
			return nil, &DecodeError{Path: path, Encoding: encName}
		}
		return &Template{Name: name, Filename: path, Source: src}, nil
	}
	return nil, &NotFoundError{Name: name, Tried: tried}
}

// safeJoin joins name to dir, refusing names that would escape dir.
func safeJoin(dir, name string) (string, bool) {
	if filepath.IsAbs(name) {
		return "", false
	}
	path := filepath.Join(dir, name)
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

func isDirErr(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func lookupEncoding(name string) (encoding.Encoding, string, error) {
	if name == "" {
		name = "utf-8"
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, "", fmt.Errorf("template encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	return enc, canonical, nil
}

// decode converts data to UTF-8. It reports false for input that does not
// decode cleanly.
func decode(data []byte, enc encoding.Encoding, name string) (string, bool) {
	if name == "utf-8" {
		return string(data), utf8.Valid(data)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// AppDirsLoader looks templates up in the "templates" directory of each
// application directory.
type AppDirsLoader struct {
	Apps     []string
	Encoding string
}

func (l *AppDirsLoader) GetTemplate(name string) (*Template, error) {
	dirs := make([]string, len(l.Apps))
	for i, app := range l.Apps {
		dirs[i] = filepath.Join(app, "templates")
	}
	fsl := FileSystemLoader{Dirs: dirs, Encoding: l.Encoding}
	return fsl.GetTemplate(name)
}
