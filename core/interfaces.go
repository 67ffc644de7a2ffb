// Package core defines the conversion pipeline types for convertero.
// Each stage of the pipeline is a clean, testable unit; this package holds
// the values that flow between them.
package core

import (
	"context"
	"path/filepath"
	"strings"
)

// Column names shared by several pipeline stages.
const (
	ColName      = "Name"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
	ColPoleFAT   = "POLE_FAT"
	ColHomeBiz   = "HOME/BIZ"

	ColFATCode     = "FAT_CODE"
	ColCategory    = "Category_BizPass"
	ColFATNetwork  = "FAT_ID_NETWORK_ID"
	ColPoleID      = "Pole_ID__New_"
	ColDescription = "Description"
)

// blocked lists attribute names that never become columns.
var blocked = map[string]bool{
	"HPTAR_ID":     true,
	"OBJECTID":     true,
	"Shape_Length": true,
	"Shape_Area":   true,
}

// IsBlocked reports whether an attribute name is excluded from the table.
func IsBlocked(name string) bool {
	return blocked[name]
}

// IsPositional reports whether a column is positional (never an attribute header).
func IsPositional(name string) bool {
	return name == ColName || name == ColLatitude || name == ColLongitude
}

// Kind is the file kind a conversion job was started for.
type Kind string

const (
	KindKML  Kind = "kml"
	KindKMZ  Kind = "kmz"
	KindAuto Kind = "auto"
)

// ParseKind maps a user supplied mode string to a Kind.
// An empty string selects KindAuto.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, true
	case "kml":
		return KindKML, true
	case "kmz":
		return KindKMZ, true
	default:
		return "", false
	}
}

// Accepts reports whether filename has an extension valid for the kind.
func (k Kind) Accepts(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch k {
	case KindKML:
		return ext == ".kml"
	case KindKMZ:
		return ext == ".kmz"
	case KindAuto:
		return ext == ".kml" || ext == ".kmz"
	default:
		return false
	}
}

// ParsedTable is the sole artifact a conversion returns.
// Callers own it and must not mutate it.
type ParsedTable struct {
	Headers []string
	Rows    []*Row
}

// Source holds the raw bytes of an input file and the name it was loaded under.
type Source struct {
	Name string
	Data []byte
}

// Fetcher loads a source from a path or URL.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*Source, error)
}

// Converter turns raw file bytes into a ParsedTable.
type Converter interface {
	Convert(ctx context.Context, data []byte, filename string, kind Kind) (*ParsedTable, error)
}

// Renderer converts a ParsedTable into a final output format.
type Renderer interface {
	Render(table *ParsedTable) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".csv", ".pdf").
	Extension() string
	// ContentType returns the MIME type served by the HTTP service.
	ContentType() string
}
