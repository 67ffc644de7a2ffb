// Package render provides output renderers for converted tables.
// This file implements the CSV renderer, the primary export format.
package render

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fauzanfathoni/convertero2an/core"
)

// decimalValue matches plain decimal numbers such as coordinates.
// Integers are left alone so codes like post codes keep their form.
var decimalValue = regexp.MustCompile(`^-?\d+\.\d+$`)

// CSVRenderer writes the table as CSV. The header line is the column names
// joined by commas; every value is double-quoted; decimal values are written
// with six fractional digits; lines are joined by "\n".
type CSVRenderer struct{}

// NewCSVRenderer creates a CSVRenderer.
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

// Render serializes the table.
func (r *CSVRenderer) Render(table *core.ParsedTable) ([]byte, error) {
	var b strings.Builder
	b.WriteString(strings.Join(table.Headers, ","))

	for _, row := range table.Rows {
		b.WriteByte('\n')
		for i, h := range table.Headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(FormatValue(row.Value(h))))
		}
	}
	return []byte(b.String()), nil
}

// Extension returns the file extension for CSV output.
func (r *CSVRenderer) Extension() string {
	return ".csv"
}

// ContentType returns the MIME type for CSV output.
func (r *CSVRenderer) ContentType() string {
	return "text/csv; charset=utf-8"
}

// FormatValue normalizes a cell for export: decimal numbers get exactly six
// fractional digits, anything else passes through.
func FormatValue(v string) string {
	if !decimalValue.MatchString(v) {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
