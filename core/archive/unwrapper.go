// Package archive unwraps KMZ containers into a single KML document.
//
// A KMZ is a zip archive. Every member ending in .kml is a candidate; a
// candidate qualifies when it holds at least one placemark. One qualifying
// document is returned as-is. Several are merged into a synthetic document
// holding all their placemarks, so the parser always sees one document.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/fauzanfathoni/convertero2an/core"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

// zipMagic is the local file header signature that starts a zip archive.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// IsArchive reports whether data starts with a zip signature.
func IsArchive(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// MemberError reports an archive member that could not be read.
type MemberError struct {
	Name string
	Err  error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Name, core.ErrEmptyArchiveMember, e.Err)
}

// Unwrap lets errors.Is match core.ErrEmptyArchiveMember.
func (e *MemberError) Unwrap() []error {
	return []error{core.ErrEmptyArchiveMember, e.Err}
}

// Config configures an Unwrapper.
type Config struct {
	Logger *slog.Logger
}

// Unwrapper extracts KML documents from KMZ archives.
type Unwrapper struct {
	logger *slog.Logger
}

// New creates an Unwrapper.
func New(cfg Config) *Unwrapper {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Unwrapper{logger: cfg.Logger}
}

// member is a qualifying KML document read from the archive.
type member struct {
	name string
	text string
	doc  *etree.Document
}

// Unwrap returns the KML text held by data. Data that is not a zip archive
// is returned unchanged. It fails with core.ErrNoContentFound when no member
// holds a placemark; members that could not be read are joined into that
// error so callers can tell an unreadable archive from an empty one.
func (u *Unwrapper) Unwrap(data []byte) (string, error) {
	if !IsArchive(data) {
		return string(data), nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: opening KMZ archive: %v", core.ErrMalformedDocument, err)
	}

	var (
		found      []member
		unreadable []error
	)
	for _, f := range zr.File {
		if !isCandidate(f) {
			continue
		}

		text, err := readMember(f)
		if err != nil {
			u.logger.Warn("skipping unreadable archive member", "member", f.Name, "error", err)
			unreadable = append(unreadable, err)
			continue
		}

		doc := etree.NewDocument()
		if err := doc.ReadFromString(text); err != nil {
			u.logger.Warn("skipping malformed KML member", "member", f.Name, "error", err)
			continue
		}
		if len(placemarks(doc.Root())) == 0 {
			u.logger.Debug("archive member has no placemarks", "member", f.Name)
			continue
		}
		found = append(found, member{name: f.Name, text: text, doc: doc})
	}

	switch len(found) {
	case 0:
		if len(unreadable) > 0 {
			return "", errors.Join(append([]error{core.ErrNoContentFound}, unreadable...)...)
		}
		return "", core.ErrNoContentFound
	case 1:
		return found[0].text, nil
	default:
		u.logger.Info("combining KML documents", "count", len(found))
		return combine(found)
	}
}

// Members lists the names of all files in a KMZ archive.
func Members(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening KMZ archive: %w", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names, nil
}

func isCandidate(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return false
	}
	return strings.HasSuffix(strings.ToLower(f.Name), ".kml")
}

func readMember(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", &MemberError{Name: f.Name, Err: err}
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return "", &MemberError{Name: f.Name, Err: err}
	}
	return string(body), nil
}

// combine builds one KML document holding every placemark of docs, in order.
func combine(docs []member) (string, error) {
	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := out.CreateElement("kml")
	root.CreateAttr("xmlns", kmlNamespace)
	container := root.CreateElement("Document")

	declared := map[string]bool{}
	for _, m := range docs {
		src := m.doc.Root()
		for _, attr := range src.Attr {
			if attr.Space != "xmlns" || declared[attr.Key] {
				continue
			}
			declared[attr.Key] = true
			root.CreateAttr("xmlns:"+attr.Key, attr.Value)
		}
		for _, p := range placemarks(src) {
			container.AddChild(p.Copy())
		}
	}

	out.Indent(2)
	text, err := out.WriteToString()
	if err != nil {
		return "", fmt.Errorf("writing combined KML: %w", err)
	}
	return text, nil
}

// placemarks collects Placemark elements below e by local name.
func placemarks(e *etree.Element) []*etree.Element {
	if e == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range e.ChildElements() {
		if c.Tag == "Placemark" {
			out = append(out, c)
			continue
		}
		out = append(out, placemarks(c)...)
	}
	return out
}
