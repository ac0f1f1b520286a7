// Package source loads the list of monitored URLs from a configured
// document location. The document is JSON of the shape {"urls": [...]};
// anything else is a configuration error.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
)

// Loader fetches the ordered URL list. Order is preserved exactly as
// listed; it determines report order.
type Loader interface {
	Load(ctx context.Context) ([]string, error)
}

type document struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
}

var validate = validator.New()

func decode(r io.Reader) ([]string, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed urls document: %w", err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid urls document: %w", err)
	}
	return doc.URLs, nil
}

// File reads the document from a path on an afero filesystem.
type File struct {
	fs   afero.Fs
	path string
}

func NewFile(fsys afero.Fs, path string) *File {
	return &File{fs: fsys, path: path}
}

func (f *File) Load(ctx context.Context) ([]string, error) {
	fh, err := f.fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open urls document %s: %w", f.path, err)
	}
	defer fh.Close()
	return decode(fh)
}

// HTTP fetches the document from a remote location.
type HTTP struct {
	URL    string
	Client *http.Client
}

func NewHTTP(url string) *HTTP {
	return &HTTP{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *HTTP) Load(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", h.URL, err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch urls document %s: %w", h.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("fetch urls document %s: %s", h.URL, resp.Status)
	}
	return decode(resp.Body)
}

// Static serves a fixed list, for tests and ad-hoc CLI runs.
type Static []string

func (s Static) Load(ctx context.Context) ([]string, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("no urls configured")
	}
	return s, nil
}
