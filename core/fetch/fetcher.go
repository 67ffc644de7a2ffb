// Package fetch implements the Fetcher interface.
// It loads KML/KMZ sources from the local filesystem or over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/fauzanfathoni/convertero2an/core"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "convertero/1.0"
	defaultMaxBytes  = 64 << 20
)

// Fetcher loads sources from paths or http(s) URLs.
type Fetcher struct {
	client   *http.Client
	MaxBytes int64
}

// New creates a Fetcher with a sensible timeout and size limit.
func New() *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: defaultTimeout},
		MaxBytes: defaultMaxBytes,
	}
}

// IsURL reports whether location is an http(s) URL.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch reads the source at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*core.Source, error) {
	if IsURL(location) {
		return f.fetchURL(ctx, location)
	}
	return f.readFile(location)
}

func (f *Fetcher) readFile(p string) (*core.Source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory (use --all)", p)
	}
	if f.MaxBytes > 0 && info.Size() > f.MaxBytes {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), f.MaxBytes)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	return &core.Source{Name: filepath.Base(p), Data: data}, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) (*core.Source, error) {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	u, _ := url.Parse(rawURL)
	return &core.Source{Name: path.Base(u.Path), Data: body}, nil
}

// Get performs a GET request and returns the response body.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	var r io.Reader = resp.Body
	if f.MaxBytes > 0 {
		r = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if f.MaxBytes > 0 && int64(len(body)) > f.MaxBytes {
		return nil, fmt.Errorf("response too large (max %d bytes)", f.MaxBytes)
	}
	return body, nil
}
