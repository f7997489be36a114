package export

import (
	"fmt"
	"io"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

// docxTableStyle is a bordered grid style shipped in the godocx template.
const docxTableStyle = "TableGrid"

// DOCX renders Word documents with godocx, starting from its default
// template so the heading and table styles are available.
type DOCX struct{}

// Render implements Renderer.
func (DOCX) Render(w io.Writer, doc Document) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("export.DOCX: new document: %w", err)
	}

	if err := docxContent(d, doc); err != nil {
		return fmt.Errorf("export.DOCX: %w", err)
	}
	if err := d.Write(w); err != nil {
		return fmt.Errorf("export.DOCX: write: %w", err)
	}
	return nil
}

func docxContent(d *docx.RootDoc, doc Document) error {
	if _, err := d.AddHeading(doc.Title, 0); err != nil {
		return err
	}
	if _, err := d.AddHeading(SectionBasics, 1); err != nil {
		return err
	}
	for _, f := range doc.Fields {
		p := d.AddEmptyParagraph()
		p.AddText(f.Label + ": ").Bold(true)
		p.AddText(f.Value)
	}

	if len(doc.Schedule.Rows) > 0 {
		if _, err := d.AddHeading(doc.Schedule.Heading, 2); err != nil {
			return err
		}
		docxTable(d, doc.Schedule, doc.TypeSpans)
	}
	if len(doc.Attendees.Rows) > 0 {
		if _, err := d.AddHeading(doc.Attendees.Heading, 2); err != nil {
			return err
		}
		docxTable(d, doc.Attendees, nil)
	}
	return nil
}

// docxTable adds tbl to d. For each span the first column carries its text
// on the span's first row only; the rows below it are left empty.
func docxTable(d *docx.RootDoc, tbl Table, spans []Span) {
	t := d.AddTable()
	t.Style(docxTableStyle)

	header := t.AddRow()
	for _, c := range tbl.Header {
		header.AddCell().AddEmptyPara().AddText(c).Bold(true)
	}

	continued := make([]bool, len(tbl.Rows))
	for _, s := range spans {
		for i := s.Start + 1; i < s.Start+s.Len; i++ {
			continued[i] = true
		}
	}
	for i, cells := range tbl.Rows {
		row := t.AddRow()
		for j, c := range cells {
			if j == 0 && continued[i] {
				row.AddCell().AddEmptyPara()
				continue
			}
			row.AddCell().AddParagraph(c)
		}
	}
}
