// Package render: JSON renderer.
// Builds {"headers": [...], "rows": [{...}]} where every row object lists
// its keys in header order, which encoding/json cannot do for maps.
package render

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/fauzanfathoni/convertero2an/core"
)

// JSONRenderer produces header-ordered JSON output.
type JSONRenderer struct {
	// Indent pretty-prints the output when set.
	Indent bool
}

// NewJSONRenderer creates a JSONRenderer with indented output.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{Indent: true}
}

// Render converts the table into JSON.
func (r *JSONRenderer) Render(table *core.ParsedTable) ([]byte, error) {
	headers := table.Headers
	if headers == nil {
		headers = []string{}
	}

	out, err := sjson.SetBytes([]byte(`{}`), "headers", headers)
	if err != nil {
		return nil, fmt.Errorf("setting headers: %w", err)
	}
	out, err = sjson.SetRawBytes(out, "rows", []byte(`[]`))
	if err != nil {
		return nil, fmt.Errorf("setting rows: %w", err)
	}

	for i, row := range table.Rows {
		obj := []byte(`{}`)
		for _, h := range headers {
			obj, err = sjson.SetBytes(obj, escapeKey(h), row.Value(h))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, h, err)
			}
		}
		out, err = sjson.SetRawBytes(out, "rows.-1", obj)
		if err != nil {
			return nil, fmt.Errorf("appending row %d: %w", i+1, err)
		}
	}

	if r.Indent {
		out = pretty.Pretty(out)
	}
	return out, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

// ContentType returns the MIME type for JSON output.
func (r *JSONRenderer) ContentType() string {
	return "application/json"
}

// escapeKey makes a column name safe to use as a single sjson path component.
func escapeKey(key string) string {
	var b strings.Builder
	for _, ch := range key {
		switch ch {
		case '\\', '.', '*', '?', '|', '#', '@', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(ch)
	}
	return b.String()
}
