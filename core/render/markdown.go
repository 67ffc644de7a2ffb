// Package render: Markdown renderer.
// The table is first written as HTML and then converted with
// html-to-markdown's table plugin into a GitHub-flavoured pipe table.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/fauzanfathoni/convertero2an/core"
)

// MarkdownRenderer writes the table as a Markdown pipe table.
type MarkdownRenderer struct {
	conv *converter.Converter
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Render converts the table into Markdown.
func (r *MarkdownRenderer) Render(t *core.ParsedTable) ([]byte, error) {
	md, err := r.conv.ConvertString(HTMLTable(t))
	if err != nil {
		return nil, fmt.Errorf("converting table to markdown: %w", err)
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// ContentType returns the MIME type for Markdown output.
func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

// HTMLTable writes the table as an HTML <table> with a header row.
// Values are formatted the same way as the CSV export.
func HTMLTable(t *core.ParsedTable) string {
	var b strings.Builder
	b.WriteString("<table>\n<thead><tr>")
	for _, h := range t.Headers {
		b.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, h := range t.Headers {
			b.WriteString("<td>" + html.EscapeString(FormatValue(row.Value(h))) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}
