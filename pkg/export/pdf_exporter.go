package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/hub-grade-planner/pkg/textnorm"
)

const (
	pageWidth    = 190.0
	pageBreakY   = 270.0
	headerHeight = 8.0
	rowHeight    = 7.0
)

// Field is a labelled value printed in the document header box.
type Field struct {
	Label string
	Value string
}

// Section is one titled table, e.g. a semester.
type Section struct {
	Heading string
	Summary string
	Data    Dataset
	Widths  []float64
}

// Document is a multi-section report.
type Document struct {
	Title    string
	Subtitle string
	Fields   []Field
	Headline string
	Sections []Section
	Footer   string
}

// PDFExporter renders datasets and documents into PDF. Core fonts only cover Latin-1, so
// every string is folded to plain Latin before it is written.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	return e.RenderDocument(Document{Title: title, Sections: []Section{{Data: data}}})
}

// RenderDocument lays out the header box, a headline and every section table.
func (e *PDFExporter) RenderDocument(doc Document) ([]byte, error) {
	if len(doc.Sections) == 0 && len(doc.Fields) == 0 {
		return nil, fmt.Errorf("pdf document is empty")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(textnorm.StripDiacritics(s)) }

	pdf.SetMargins(10, 15, 10)
	if doc.Footer != "" {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			pdf.SetFont("Arial", "I", 8)
			pdf.SetTextColor(150, 150, 150)
			pdf.CellFormat(pageWidth/2, 6, text(doc.Footer), "", 0, "L", false, 0, "")
			pdf.CellFormat(pageWidth/2, 6, fmt.Sprintf("Trang %d", pdf.PageNo()), "", 0, "R", false, 0, "")
		})
	}
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.SetTextColor(0, 51, 117)
		pdf.CellFormat(0, 10, text(strings.ToUpper(doc.Title)), "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, text(doc.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	if len(doc.Fields) > 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFillColor(248, 249, 250)
		half := pageWidth / 2
		for i, f := range doc.Fields {
			ln := 0
			if i%2 == 1 || i == len(doc.Fields)-1 {
				ln = 1
			}
			w := half
			if i%2 == 0 && i == len(doc.Fields)-1 {
				w = pageWidth
			}
			pdf.CellFormat(w, 7, text(fmt.Sprintf("%s: %s", f.Label, f.Value)), "", ln, "L", true, 0, "")
		}
		pdf.Ln(3)
	}

	if doc.Headline != "" {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetTextColor(0, 51, 117)
		pdf.CellFormat(0, 7, text(doc.Headline), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	for _, section := range doc.Sections {
		if len(section.Data.Headers) == 0 {
			continue
		}
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
		}
		if section.Heading != "" || section.Summary != "" {
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(pageWidth/2, 8, text(section.Heading), "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(100, 100, 100)
			pdf.CellFormat(pageWidth/2, 8, text(section.Summary), "", 1, "R", false, 0, "")
		}
		widths := columnWidths(section)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(0, 51, 117)
		pdf.SetTextColor(255, 255, 255)
		for i, header := range section.Data.Headers {
			pdf.CellFormat(widths[i], headerHeight, text(header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(50, 50, 50)
		for _, row := range section.Data.Rows {
			if pdf.GetY() > pageBreakY {
				pdf.AddPage()
			}
			for i, header := range section.Data.Headers {
				align := "C"
				if i == 1 {
					align = "L"
				}
				pdf.CellFormat(widths[i], rowHeight, text(row[header]), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths uses the section widths when they match the headers and splits the page
// evenly otherwise.
func columnWidths(section Section) []float64 {
	n := len(section.Data.Headers)
	if len(section.Widths) == n {
		return section.Widths
	}
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = pageWidth / float64(n)
	}
	return widths
}
