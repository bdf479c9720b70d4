// Package source loads the external catalog documents fed to the aggregator
// from files, an fs.FS, HTTP endpoints or a reader.
package source

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

// Kind identifies where a document comes from.
type Kind string

const (
	KindFile   Kind = "file"
	KindFS     Kind = "fs"
	KindURL    Kind = "url"
	KindReader Kind = "reader"
)

// Source locates one document.
type Source interface {
	Kind() Kind
	Location() string
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() Kind       { return KindFile }

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() Kind       { return KindFS }

// FromFS returns a Source naming a file inside the loader's fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() Kind       { return KindURL }

// FromURL validates raw and returns a Source for it.
func FromURL(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("source: empty URL")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("source: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

func (s readerSource) Location() string { return s.name }
func (s readerSource) Kind() Kind       { return KindReader }

// FromReader wraps r. name is only used in error messages.
func FromReader(name string, r io.Reader) Source {
	return readerSource{name: name, r: r}
}

// Parse maps a command line argument to a Source: "-" reads stdin, http and
// https URLs are fetched and anything else is a file path.
func Parse(raw string, stdin io.Reader) (Source, error) {
	arg := strings.TrimSpace(raw)
	switch {
	case arg == "":
		return nil, fmt.Errorf("source: location is required")
	case arg == "-":
		return FromReader("stdin", stdin), nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return FromURL(arg)
	default:
		return FromFile(arg), nil
	}
}
