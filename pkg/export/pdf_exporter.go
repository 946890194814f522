package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Field is a single label/value pair rendered in a summary block.
type Field struct {
	Label string
	Value string
}

// Section groups a heading with optional summary fields and an optional table.
type Section struct {
	Heading string
	Fields  []Field
	Table   *Table
}

// Document describes a structured report with a title and ordered sections.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
}

// PDFExporter renders documents into paginated PDF reports.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF from the document, one A4 portrait page flow.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if doc.Title == "" && len(doc.Sections) == 0 {
		return nil, fmt.Errorf("pdf requires a title or at least one section")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 15, 12)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
	}
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 6, doc.Subtitle, "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	for _, section := range doc.Sections {
		if section.Heading != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, section.Heading, "", 1, "L", false, 0, "")
			pdf.Ln(1)
		}
		if len(section.Fields) > 0 {
			e.renderFields(pdf, section.Fields)
			pdf.Ln(3)
		}
		if section.Table != nil {
			if err := e.renderTable(pdf, section.Table); err != nil {
				return nil, err
			}
			pdf.Ln(4)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderFields(pdf *gofpdf.Fpdf, fields []Field) {
	for _, field := range fields {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(70, 6, field.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, field.Value, "", 1, "L", false, 0, "")
	}
}

func (e *PDFExporter) renderTable(pdf *gofpdf.Fpdf, table *Table) error {
	if len(table.Columns) == 0 {
		return fmt.Errorf("pdf table requires at least one column")
	}
	colWidth := 186.0 / float64(len(table.Columns))

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, column := range table.Columns {
		pdf.CellFormat(colWidth, 7, column, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for i := range table.Columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(colWidth, 6, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return nil
}
