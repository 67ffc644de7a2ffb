// Package render: PDF renderer.
// Prints the table on landscape A4 pages using gofpdf, repeating the header
// row on every page. Cells that do not fit their column are truncated.
package render

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"

	"github.com/fauzanfathoni/convertero2an/core"
)

const (
	pdfMargin    = 10.0
	pdfRowHeight = 5.0
	pdfFontSize  = 6.0
)

// PDFRenderer renders the table as a printable PDF document.
type PDFRenderer struct {
	// Title is printed above the table when set.
	Title string
}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the table into PDF bytes.
func (r *PDFRenderer) Render(table *core.ParsedTable) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)

	pageW, pageH := pdf.GetPageSize()
	cols := len(table.Headers)
	if cols == 0 {
		cols = 1
	}
	colW := (pageW - 2*pdfMargin) / float64(cols)

	header := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(224, 224, 224)
		for _, h := range table.Headers {
			pdf.CellFormat(colW, pdfRowHeight, fit(pdf, h, colW), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	pdf.AddPage()
	if r.Title != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, r.Title, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	header()

	for _, row := range table.Rows {
		if pdf.GetY()+pdfRowHeight > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}
		for _, h := range table.Headers {
			pdf.CellFormat(colW, pdfRowHeight, fit(pdf, FormatValue(row.Value(h)), colW), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// ContentType returns the MIME type for PDF output.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// fit truncates text so it fits in a cell of width w.
func fit(pdf *gofpdf.Fpdf, text string, w float64) string {
	limit := w - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"..") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ".."
}
