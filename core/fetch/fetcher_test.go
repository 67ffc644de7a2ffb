package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.kmz": true,
		"http://example.com/":       true,
		"area.kml":                  false,
		"/data/area.kml":            false,
		"ftp://example.com/a.kml":   false,
		`C:\maps\area.kml`:          false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFetch_File(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "area.kml")
	if err := os.WriteFile(p, []byte("<kml/>"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := New().Fetch(context.Background(), p)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if src.Name != "area.kml" || string(src.Data) != "<kml/>" {
		t.Errorf("Fetch() = %q, %q", src.Name, src.Data)
	}

	if _, err := New().Fetch(context.Background(), dir); err == nil {
		t.Error("Fetch(directory) succeeded, want error")
	}
	if _, err := New().Fetch(context.Background(), filepath.Join(dir, "missing.kml")); err == nil {
		t.Error("Fetch(missing) succeeded, want error")
	}
}

func TestFetch_FileTooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.kml")
	if err := os.WriteFile(p, []byte(strings.Repeat("x", 32)), 0644); err != nil {
		t.Fatal(err)
	}
	f := New()
	f.MaxBytes = 16
	if _, err := f.Fetch(context.Background(), p); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("Fetch() error = %v, want too large", err)
	}
}

func TestFetch_URL(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/surveys/area.kmz":
			w.Write([]byte("PK"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src, err := New().Fetch(context.Background(), srv.URL+"/surveys/area.kmz")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if src.Name != "area.kmz" || string(src.Data) != "PK" {
		t.Errorf("Fetch() = %q, %q", src.Name, src.Data)
	}
	if gotUA != defaultUserAgent {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if _, err := New().Fetch(context.Background(), srv.URL+"/missing.kml"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("Fetch(missing) error = %v, want status 404", err)
	}
}

func TestGet_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	f := New()
	f.MaxBytes = 10
	if _, err := f.Get(context.Background(), srv.URL); err == nil {
		t.Error("Get() succeeded, want size error")
	}
}
