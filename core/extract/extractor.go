// Package extract turns placemarks into table rows.
// Each row is built from:
//  1. The coordinate pair (longitude first, as KML encodes it)
//  2. Structured SimpleData fields
//  3. Key/value cells of an HTML table embedded in the description,
//     which override structured fields of the same name
//  4. The derived POLE_FAT and HOME/BIZ columns
package extract

import (
	"html"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/fauzanfathoni/convertero2an/core"
	"github.com/fauzanfathoni/convertero2an/core/kml"
	"github.com/fauzanfathoni/convertero2an/core/xref"
)

// Categories of Category_BizPass classified as homes.
var homeCategories = map[string]bool{
	"RELIGION":  true,
	"RESIDENCE": true,
}

// coordSeparator splits a coordinate tuple on commas and/or whitespace.
var coordSeparator = regexp.MustCompile(`[\s,]+`)

// Placemark is the view of a placemark the extractor reads.
type Placemark interface {
	Name() string
	Coordinates() string
	SimpleData() []core.Field
	Description() string
}

// Config controls optional extraction behaviour.
type Config struct {
	// IncludeDescription keeps a description that carries no attribute
	// table as a plain-text Description column.
	IncludeDescription bool

	Logger *slog.Logger
}

// RowExtractor builds rows from placemarks.
type RowExtractor struct {
	cfg    Config
	logger *slog.Logger
	strip  *bluemonday.Policy
}

// New creates a RowExtractor.
func New(cfg Config) *RowExtractor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RowExtractor{
		cfg:    cfg,
		logger: cfg.Logger,
		strip:  bluemonday.StrictPolicy(),
	}
}

// Rows builds one row per placemark in document order, then assigns
// HOME/BIZ once every row exists. table must already be complete.
func (e *RowExtractor) Rows(placemarks []*kml.Placemark, table *xref.Table) []*core.Row {
	rows := make([]*core.Row, 0, len(placemarks))
	for _, p := range placemarks {
		rows = append(rows, e.Row(p, table))
	}
	AssignHomeBiz(rows)
	return rows
}

// Row builds the row for a single placemark, including POLE_FAT.
// HOME/BIZ is left to AssignHomeBiz.
func (e *RowExtractor) Row(p Placemark, table *xref.Table) *core.Row {
	row := core.NewRow()

	if name := p.Name(); name != "" {
		row.Set(core.ColName, name)
	}

	lon, lat := ParseCoordinates(p.Coordinates())
	row.Set(core.ColLatitude, lat)
	row.Set(core.ColLongitude, lon)

	row.Merge(filterBlocked(p.SimpleData()))

	desc := p.Description()
	if overlay := DescriptionFields(desc); len(overlay) > 0 {
		row.Merge(filterBlocked(overlay))
	} else if e.cfg.IncludeDescription && desc != "" {
		row.Set(core.ColDescription, e.plainText(desc))
	}

	pole, _ := table.Lookup(row.Value(core.ColFATCode))
	row.Set(core.ColPoleFAT, pole)

	if lon == "" || lat == "" {
		e.logger.Debug("placemark without usable coordinates",
			"name", p.Name(), "coordinates", p.Coordinates())
	}
	return row
}

// AssignHomeBiz sets HOME/BIZ on every row from its Category_BizPass.
func AssignHomeBiz(rows []*core.Row) {
	for _, row := range rows {
		category, ok := row.Get(core.ColCategory)
		row.Set(core.ColHomeBiz, HomeBiz(category, ok))
	}
}

// HomeBiz classifies a category: "H" for homes, "U" for any other present
// category, "" when the category is absent.
func HomeBiz(category string, present bool) string {
	switch {
	case !present:
		return ""
	case homeCategories[category]:
		return "H"
	default:
		return "U"
	}
}

// ParseCoordinates reads the first two tokens of a coordinate string.
// The first token is longitude, the second latitude. Each is formatted
// with six fractional digits, or "" when it does not parse.
func ParseCoordinates(s string) (lon, lat string) {
	tokens := coordSeparator.Split(strings.TrimSpace(s), -1)
	if len(tokens) > 0 {
		lon = formatCoordinate(tokens[0])
	}
	if len(tokens) > 1 {
		lat = formatCoordinate(tokens[1])
	}
	return lon, lat
}

func formatCoordinate(token string) string {
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// DescriptionFields reads key/value pairs from an HTML table embedded in a
// description. Cells are taken pairwise in document order: cell 2i is the
// key, cell 2i+1 the value. A description without table cells yields nil.
func DescriptionFields(desc string) []core.Field {
	if !strings.Contains(strings.ToLower(desc), "<td") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(desc))
	if err != nil {
		return nil
	}

	cells := doc.Find("td")
	var fields []core.Field
	for i := 0; i+1 < cells.Length(); i += 2 {
		key := strings.TrimSpace(cells.Eq(i).Text())
		if key == "" {
			continue
		}
		fields = append(fields, core.Field{
			Key:   key,
			Value: strings.TrimSpace(cells.Eq(i + 1).Text()),
		})
	}
	return fields
}

// plainText strips markup from a description and collapses whitespace.
func (e *RowExtractor) plainText(desc string) string {
	text := html.UnescapeString(e.strip.Sanitize(desc))
	return strings.Join(strings.Fields(text), " ")
}

// filterBlocked drops blocked fields and attributes named like a positional
// column, so parsed coordinates are never replaced by source text.
func filterBlocked(fields []core.Field) []core.Field {
	out := fields[:0:0]
	for _, f := range fields {
		if core.IsBlocked(f.Key) || core.IsPositional(f.Key) {
			continue
		}
		out = append(out, f)
	}
	return out
}
