package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catalogform/internal/values"
)

// Option configures a Loader.
type Option func(*Loader)

// WithFileSystem resolves FromFS sources against files.
func WithFileSystem(files fs.FS) Option {
	return func(l *Loader) {
		l.fs = files
	}
}

// WithHTTPClient enables URL sources with a custom client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		l.http = client
	}
}

// WithHTTP enables URL sources with a default client and timeout.
func WithHTTP(timeout time.Duration) Option {
	return func(l *Loader) {
		if l.http == nil {
			l.http = &http.Client{}
		}
		l.timeout = timeout
	}
}

// Loader fetches and decodes catalog documents. HTTP is disabled unless a
// client is configured.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// NewLoader builds a loader.
func NewLoader(options ...Option) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	return l
}

// Load fetches src and decodes it into generic data (map[string]any, []any
// and scalars). JSON documents keep float64 numbers; anything else is parsed
// as YAML. An empty document decodes to nil.
func (l *Loader) Load(ctx context.Context, src Source) (any, error) {
	data, err := l.Read(ctx, src)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("source: %s %s: %w", src.Kind(), src.Location(), err)
	}
	return doc, nil
}

// Read returns the raw bytes behind src.
func (l *Loader) Read(ctx context.Context, src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("source: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch s := src.(type) {
	case fileSource:
		data, err = os.ReadFile(s.path)
	case fsSource:
		if l.fs == nil {
			return nil, errors.New("source: fs is not configured")
		}
		data, err = fs.ReadFile(l.fs, s.name)
	case urlSource:
		if l.http == nil {
			return nil, errors.New("source: http support disabled")
		}
		data, err = l.fetch(ctx, s.raw)
	case readerSource:
		if s.r == nil {
			return nil, errors.New("source: reader is nil")
		}
		data, err = io.ReadAll(s.r)
	default:
		return nil, fmt.Errorf("source: unsupported kind %q", src.Kind())
	}
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", src.Location(), err)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Decode parses a JSON or YAML document into generic data.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var doc any
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc); err == nil {
			return doc, nil
		}
	}
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return values.Normalize(doc), nil
}
