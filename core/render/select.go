package render

import (
	"fmt"
	"strings"

	"github.com/fauzanfathoni/convertero2an/core"
)

// Formats lists the output format names accepted by ForFormat.
var Formats = []string{"csv", "json", "markdown", "pdf"}

// ForFormat returns the renderer for a format name. An empty name selects CSV.
func ForFormat(name string) (core.Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "csv":
		return NewCSVRenderer(), nil
	case "json":
		return NewJSONRenderer(), nil
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "pdf":
		return NewPDFRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s)", name, strings.Join(Formats, ", "))
	}
}
