package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/kml"
)

func placemarkDoc(names ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2"><Document>`)
	for _, n := range names {
		b.WriteString(`<Placemark><name>` + n + `</name><Point><coordinates>106.8,-6.1,0</coordinates></Point></Placemark>`)
	}
	b.WriteString(`</Document></kml>`)
	return b.String()
}

type entry struct {
	name string
	body string
}

func buildZip(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(w, e.body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// corrupt flips one byte of a stored member body so its checksum fails.
func corrupt(t *testing.T, data []byte, body string) []byte {
	t.Helper()
	i := bytes.Index(data, []byte(body))
	if i < 0 {
		t.Fatal("member body not found in archive")
	}
	out := bytes.Clone(data)
	out[i+len(body)/2] ^= 0xFF
	return out
}

func newTestUnwrapper() *Unwrapper {
	return New(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestIsArchive(t *testing.T) {
	if !IsArchive(buildZip(t, entry{"doc.kml", "x"})) {
		t.Error("IsArchive(zip) = false")
	}
	if IsArchive([]byte(placemarkDoc("A"))) {
		t.Error("IsArchive(kml) = true")
	}
	if IsArchive(nil) {
		t.Error("IsArchive(nil) = true")
	}
}

func TestUnwrap_PassThrough(t *testing.T) {
	text := placemarkDoc("A")
	got, err := newTestUnwrapper().Unwrap([]byte(text))
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if got != text {
		t.Error("plain document was modified")
	}
}

func TestUnwrap_SingleDocument(t *testing.T) {
	text := placemarkDoc("A", "B")
	data := buildZip(t,
		entry{"files/icon.png", "\x89PNG"},
		entry{"doc.kml", text},
	)
	got, err := newTestUnwrapper().Unwrap(data)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	if got != text {
		t.Errorf("Unwrap() = %q, want the member text unchanged", got)
	}
}

func TestUnwrap_CombinesQualifyingDocuments(t *testing.T) {
	data := buildZip(t,
		entry{"a.kml", placemarkDoc("A1", "A2")},
		entry{"empty.kml", placemarkDoc()},
		entry{"broken.kml", "<kml><Placemark>"},
		entry{"sub/b.KML", placemarkDoc("B1")},
	)
	got, err := newTestUnwrapper().Unwrap(data)
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}

	doc, err := kml.Parse(got)
	if err != nil {
		t.Fatalf("combined document does not parse: %v\n%s", err, got)
	}
	var names []string
	for _, p := range doc.Placemarks() {
		names = append(names, p.Name())
	}
	if strings.Join(names, ",") != "A1,A2,B1" {
		t.Errorf("placemarks = %v, want [A1 A2 B1]", names)
	}
	if !strings.Contains(got, `xmlns:gx="http://www.google.com/kml/ext/2.2"`) {
		t.Error("combined document lost the gx namespace declaration")
	}
}

func TestUnwrap_NoContent(t *testing.T) {
	tests := []struct {
		name    string
		entries []entry
	}{
		{"no kml members", []entry{{"readme.txt", "hello"}}},
		{"kml without placemarks", []entry{{"doc.kml", placemarkDoc()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestUnwrapper().Unwrap(buildZip(t, tt.entries...))
			if !errors.Is(err, core.ErrNoContentFound) {
				t.Errorf("Unwrap() error = %v, want ErrNoContentFound", err)
			}
		})
	}
}

func TestUnwrap_UnreadableMember(t *testing.T) {
	bad := placemarkDoc("BAD1", "BAD2")
	good := placemarkDoc("G1")

	t.Run("skipped when another member qualifies", func(t *testing.T) {
		data := corrupt(t, buildZip(t, entry{"bad.kml", bad}, entry{"good.kml", good}), bad)
		got, err := newTestUnwrapper().Unwrap(data)
		if err != nil {
			t.Fatalf("Unwrap: %v", err)
		}
		if got != good {
			t.Errorf("Unwrap() = %q, want the readable member", got)
		}
	})

	t.Run("fatal when nothing else qualifies", func(t *testing.T) {
		data := corrupt(t, buildZip(t, entry{"doc.kml", bad}), bad)
		_, err := newTestUnwrapper().Unwrap(data)
		if !errors.Is(err, core.ErrNoContentFound) {
			t.Errorf("Unwrap() error = %v, want ErrNoContentFound", err)
		}
		if !errors.Is(err, core.ErrEmptyArchiveMember) {
			t.Errorf("Unwrap() error = %v, want ErrEmptyArchiveMember", err)
		}
		var memberErr *MemberError
		if !errors.As(err, &memberErr) || memberErr.Name != "doc.kml" {
			t.Errorf("Unwrap() error = %v, want MemberError for doc.kml", err)
		}
	})
}

func TestUnwrap_CorruptArchive(t *testing.T) {
	data := append([]byte{0x50, 0x4B, 0x03, 0x04}, []byte("not really a zip")...)
	_, err := newTestUnwrapper().Unwrap(data)
	if !errors.Is(err, core.ErrMalformedDocument) {
		t.Errorf("Unwrap() error = %v, want ErrMalformedDocument", err)
	}
}

func TestMembers(t *testing.T) {
	data := buildZip(t, entry{"doc.kml", "x"}, entry{"files/a.png", "y"})
	got, err := Members(data)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if strings.Join(got, ",") != "doc.kml,files/a.png" {
		t.Errorf("Members() = %v", got)
	}
}

func TestMemberError(t *testing.T) {
	cause := errors.New("checksum mismatch")
	err := error(&MemberError{Name: "doc.kml", Err: cause})

	if !errors.Is(err, core.ErrEmptyArchiveMember) {
		t.Error("MemberError does not match ErrEmptyArchiveMember")
	}
	if !errors.Is(err, cause) {
		t.Error("MemberError does not match its cause")
	}
	if !strings.Contains(err.Error(), "doc.kml") {
		t.Errorf("Error() = %q, want member name", err.Error())
	}
}
