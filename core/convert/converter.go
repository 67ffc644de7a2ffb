// Package convert runs a conversion job end to end:
// unwrap → parse → cross-reference → extract rows → order headers → assemble.
//
// A job is a pure function of its input bytes. It either returns a complete
// table or fails with one of the core sentinel errors; there is no partial
// result.
package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/archive"
	"github.com/fauzanfathoni/convertero2an/core/extract"
	"github.com/fauzanfathoni/convertero2an/core/headers"
	"github.com/fauzanfathoni/convertero2an/core/kml"
	"github.com/fauzanfathoni/convertero2an/core/xref"
)

// Config configures a Converter.
type Config struct {
	// IncludeDescription keeps plain descriptions as a Description column.
	IncludeDescription bool

	Logger *slog.Logger
}

// Stats summarises a finished job.
type Stats struct {
	Placemarks int
	Rows       int
	Columns    int
	References int
	Archive    bool
}

// Converter converts KML and KMZ bytes into a ParsedTable.
type Converter struct {
	logger    *slog.Logger
	unwrapper *archive.Unwrapper
	extractor *extract.RowExtractor
}

// New creates a Converter.
func New(cfg Config) *Converter {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Converter{
		logger:    cfg.Logger,
		unwrapper: archive.New(archive.Config{Logger: cfg.Logger}),
		extractor: extract.New(extract.Config{
			IncludeDescription: cfg.IncludeDescription,
			Logger:             cfg.Logger,
		}),
	}
}

// Convert implements core.Converter.
func (c *Converter) Convert(ctx context.Context, data []byte, filename string, kind core.Kind) (*core.ParsedTable, error) {
	table, _, err := c.ConvertWithStats(ctx, data, filename, kind)
	return table, err
}

// ConvertWithStats converts data and reports job statistics.
// filename is only used for the extension check against kind.
func (c *Converter) ConvertWithStats(ctx context.Context, data []byte, filename string, kind core.Kind) (*core.ParsedTable, Stats, error) {
	var stats Stats

	if !kind.Accepts(filename) {
		return nil, stats, fmt.Errorf("%w: %q is not a %s file", core.ErrUnsupportedFileType, filename, kind)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	// 1. Unwrap
	text := string(data)
	if archive.IsArchive(data) {
		stats.Archive = true
		unwrapped, err := c.unwrapper.Unwrap(data)
		if err != nil {
			return nil, stats, fmt.Errorf("unwrap: %w", err)
		}
		text = unwrapped
	}

	// 2. Parse
	doc, err := kml.Parse(text)
	if err != nil {
		return nil, stats, fmt.Errorf("parse: %w", err)
	}
	placemarks := doc.Placemarks()
	stats.Placemarks = len(placemarks)

	// 3. Cross-reference (must be complete before rows)
	refs := xref.Build(placemarks)
	stats.References = refs.Len()

	// 4. Rows
	rows := c.extractor.Rows(placemarks, refs)

	// 5. Headers and table
	table := Assemble(headers.Order(rows), rows)
	stats.Rows = len(table.Rows)
	stats.Columns = len(table.Headers)

	c.logger.Info("converted document",
		"file", filename,
		"kind", string(kind),
		"archive", stats.Archive,
		"placemarks", stats.Placemarks,
		"columns", stats.Columns,
		"references", stats.References,
	)
	return table, stats, nil
}

// Assemble combines headers and rows into the exported table.
func Assemble(columns []string, rows []*core.Row) *core.ParsedTable {
	return &core.ParsedTable{Headers: columns, Rows: rows}
}
