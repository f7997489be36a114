package export

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// pdfFontFamily is the family name a loaded UTF-8 font is registered under.
const pdfFontFamily = "seminar"

const (
	pdfLineHeight = 6.0
	pdfCellPad    = 1.5
)

var (
	scheduleWidths = []float64{25, 85, 35, 35}
	attendeeWidths = []float64{12, 35, 30, 45, 58}
)

// PDF renders A4 portrait documents with fpdf. Every document carries Hangul,
// so a PDF renderer always embeds a UTF-8 TrueType font.
type PDF struct {
	font        []byte
	compression bool
}

// PDFOption configures a PDF renderer.
type PDFOption func(*PDF)

// WithCompression toggles content stream compression (on by default).
func WithCompression(on bool) PDFOption {
	return func(p *PDF) { p.compression = on }
}

// NewPDF returns a renderer using the TrueType font at fontPath. An empty
// path reports domain.ErrUnsupportedFormat; an unreadable or invalid font is
// an error too, so the caller can leave the format unregistered.
func NewPDF(fontPath string, opts ...PDFOption) (*PDF, error) {
	if fontPath == "" {
		return nil, fmt.Errorf("export.NewPDF: %w: no UTF-8 font configured", domain.ErrUnsupportedFormat)
	}
	font, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("export.NewPDF: read font: %w", err)
	}
	return NewPDFWithFont(font, opts...)
}

// NewPDFWithFont returns a renderer embedding the given TrueType font data.
func NewPDFWithFont(font []byte, opts ...PDFOption) (*PDF, error) {
	if len(font) == 0 {
		return nil, fmt.Errorf("export.NewPDF: %w: empty font", domain.ErrUnsupportedFormat)
	}
	p := &PDF{font: font, compression: true}
	for _, o := range opts {
		o(p)
	}

	// Load the font once so a bad file fails at startup, not per request.
	if err := p.loadFont(); err != nil {
		return nil, fmt.Errorf("export.NewPDF: load font: %w", err)
	}
	return p, nil
}

// loadFont reports whether fpdf can use the font. fpdf only prints a parse
// failure and leaves the family undefined, so selecting the family is what
// surfaces it; truncated tables make the parser index out of range.
func (p *PDF) loadFont() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse font: %v", r)
		}
	}()
	pdf := p.newDocument()
	pdf.SetFont(pdfFontFamily, "", 10)
	pdf.SetFont(pdfFontFamily, "B", 10)
	return pdf.Error()
}

func (p *PDF) newDocument() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(p.compression)
	pdf.SetAutoPageBreak(false, 15)
	pdf.SetMargins(15, 15, 15)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", p.font)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", p.font)
	return pdf
}

// Render implements Renderer.
func (p *PDF) Render(w io.Writer, doc Document) error {
	if len(p.font) == 0 {
		return fmt.Errorf("export.PDF: %w: no UTF-8 font loaded", domain.ErrUnsupportedFormat)
	}
	pdf := p.newDocument()
	r := &pdfWriter{pdf: pdf, family: pdfFontFamily}
	pdf.SetTitle(doc.Title, true)

	pdf.AddPage()
	r.title(doc.Title)
	r.heading(SectionBasics)
	for _, f := range doc.Fields {
		r.field(f.Label, f.Value)
	}

	if len(doc.Schedule.Rows) > 0 {
		r.heading(doc.Schedule.Heading)
		r.table(doc.Schedule, scheduleWidths, doc.TypeSpans)
	}
	if len(doc.Attendees.Rows) > 0 {
		r.heading(doc.Attendees.Heading)
		r.table(doc.Attendees, attendeeWidths, nil)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export.PDF: %w", err)
	}
	return nil
}

// pdfWriter draws one document in the embedded font.
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
}

// split wraps s to width w.
func (r *pdfWriter) split(s string, w float64) []string {
	return r.pdf.SplitText(s, w)
}

func (r *pdfWriter) bottom() float64 {
	_, h := r.pdf.GetPageSize()
	_, _, _, b := r.pdf.GetMargins()
	return h - b
}

// ensure starts a new page when h more millimetres would cross the bottom margin.
func (r *pdfWriter) ensure(h float64) bool {
	if r.pdf.GetY()+h <= r.bottom() {
		return false
	}
	r.pdf.AddPage()
	return true
}

func (r *pdfWriter) title(s string) {
	r.pdf.SetFont(r.family, "B", 18)
	r.pdf.CellFormat(0, 12, s, "", 1, "C", false, 0, "")
	r.pdf.Ln(4)
}

func (r *pdfWriter) heading(s string) {
	r.ensure(14)
	r.pdf.SetFont(r.family, "B", 13)
	r.pdf.CellFormat(0, 9, s, "", 1, "L", false, 0, "")
}

// field writes "label: value" with the value wrapped to the page width.
func (r *pdfWriter) field(label, value string) {
	const labelWidth = 28.0
	left, _, right, _ := r.pdf.GetMargins()
	pw, _ := r.pdf.GetPageSize()
	valueWidth := pw - left - right - labelWidth

	r.pdf.SetFont(r.family, "", 10)
	lines := r.split(value, valueWidth)
	r.ensure(float64(len(lines)) * pdfLineHeight)

	r.pdf.SetFont(r.family, "B", 10)
	r.pdf.CellFormat(labelWidth, pdfLineHeight, label+":", "", 0, "L", false, 0, "")
	r.pdf.SetFont(r.family, "", 10)
	for i, line := range lines {
		if i > 0 {
			r.pdf.SetX(left + labelWidth)
		}
		r.pdf.CellFormat(valueWidth, pdfLineHeight, line, "", 1, "L", false, 0, "")
	}
	if len(lines) == 0 {
		r.pdf.Ln(pdfLineHeight)
	}
}

// table draws a bordered grid, repeating the header after each page break.
// For every span longer than one row the first column is drawn as a single
// cell covering the span (split at page breaks).
func (r *pdfWriter) table(tbl Table, widths []float64, spans []Span) {
	r.pdf.SetFont(r.family, "", 9)

	// Pre-wrap every cell so row heights are known before drawing.
	wrapped := make([][][]string, len(tbl.Rows))
	heights := make([]float64, len(tbl.Rows))
	for i, row := range tbl.Rows {
		wrapped[i] = make([][]string, len(row))
		lines := 1
		for j, cell := range row {
			wrapped[i][j] = r.split(cell, widths[j]-2*pdfCellPad)
			lines = max(lines, len(wrapped[i][j]))
		}
		heights[i] = float64(lines)*pdfLineHeight + pdfCellPad
	}

	spanEnd := make([]int, len(tbl.Rows))
	for i := range spanEnd {
		spanEnd[i] = i + 1
	}
	for _, s := range spans {
		for i := s.Start; i < s.Start+s.Len; i++ {
			spanEnd[i] = s.Start + s.Len
		}
	}

	r.ensure(pdfLineHeight*2 + heights[0])
	r.header(tbl.Header, widths)

	left, _, _, _ := r.pdf.GetMargins()
	mergedUntil := 0
	for i := range tbl.Rows {
		if r.ensure(heights[i]) {
			r.header(tbl.Header, widths)
			mergedUntil = i
		}
		y := r.pdf.GetY()

		firstCol := 0
		if spans != nil {
			firstCol = 1
			if i >= mergedUntil {
				// Cover as many rows of the span as fit on this page.
				h, j := 0.0, i
				for j < spanEnd[i] && (j == i || y+h+heights[j] <= r.bottom()) {
					h += heights[j]
					j++
				}
				r.cell(left, y, widths[0], h, wrapped[i][0])
				mergedUntil = j
			}
		}

		x := left
		for c := 0; c < firstCol; c++ {
			x += widths[c]
		}
		for c := firstCol; c < len(widths); c++ {
			r.cell(x, y, widths[c], heights[i], wrapped[i][c])
			x += widths[c]
		}
		r.pdf.SetXY(left, y+heights[i])
	}
	r.pdf.Ln(4)
}

func (r *pdfWriter) header(cells []string, widths []float64) {
	r.pdf.SetFont(r.family, "B", 9)
	r.pdf.SetFillColor(230, 236, 250)
	for i, c := range cells {
		r.pdf.CellFormat(widths[i], pdfLineHeight+pdfCellPad, c, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont(r.family, "", 9)
}

// cell draws a bordered box at (x, y) and writes lines inside it.
func (r *pdfWriter) cell(x, y, w, h float64, lines []string) {
	r.pdf.Rect(x, y, w, h, "D")
	for k, line := range lines {
		r.pdf.SetXY(x+pdfCellPad, y+pdfCellPad/2+float64(k)*pdfLineHeight)
		r.pdf.CellFormat(w-2*pdfCellPad, pdfLineHeight, line, "", 0, "L", false, 0, "")
	}
}
