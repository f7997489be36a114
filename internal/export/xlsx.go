package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// SheetName is the sheet used for a single-plan workbook.
const SheetName = "세미나 실행계획"

// maxSheetName is Excel's limit on sheet name length, in characters.
const maxSheetName = 31

// XLSX renders workbooks with excelize. A single plan gets one sheet; bulk
// export writes one sheet per plan in list order.
type XLSX struct{}

// Render implements Renderer.
func (XLSX) Render(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export.XLSX: %w", err)
	}
	if err := writeSheet(f, SheetName, doc); err != nil {
		return fmt.Errorf("export.XLSX: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.XLSX: write: %w", err)
	}
	return nil
}

// RenderAll implements BulkRenderer. An empty list yields a workbook with a
// single sheet holding only the title.
func (x XLSX) RenderAll(w io.Writer, plans []domain.Plan) error {
	if len(plans) == 0 {
		return x.Render(w, Document{Title: Title})
	}

	f := excelize.NewFile()
	defer f.Close()

	names := sheetNamer{}
	for i, p := range plans {
		name := names.next(p)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("export.XLSX: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("export.XLSX: sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, NewDocument(p)); err != nil {
			return fmt.Errorf("export.XLSX: sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.XLSX: write: %w", err)
	}
	return nil
}

// writeSheet lays the document out top to bottom: title, basics block,
// schedule table, attendee table, each separated by a blank row.
func writeSheet(f *excelize.File, sheet string, doc Document) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}

	row := 1
	put := func(style int, values ...string) error {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return err
		}
		if style != 0 && len(values) > 0 {
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(sheet, axis, end, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := put(titleStyle, doc.Title); err != nil {
		return err
	}
	if len(doc.Fields) == 0 {
		return nil
	}
	row++

	if err := put(bold, SectionBasics); err != nil {
		return err
	}
	for _, fld := range doc.Fields {
		if err := put(0, fld.Label, fld.Value); err != nil {
			return err
		}
	}

	for _, tbl := range []Table{doc.Schedule, doc.Attendees} {
		row++
		if err := put(bold, tbl.Heading); err != nil {
			return err
		}
		if err := put(bold, tbl.Header...); err != nil {
			return err
		}
		for _, r := range tbl.Rows {
			if err := put(0, r...); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "E", 28)
}

// sheetNamer produces unique, valid sheet names from plans.
type sheetNamer struct {
	seen map[string]bool
}

func (n *sheetNamer) next(p domain.Plan) string {
	if n.seen == nil {
		n.seen = map[string]bool{}
	}
	base := sanitizeSheetName(strings.TrimSpace(p.Session + " " + p.DateTime))
	if base == "" {
		base = "계획"
	}

	name := truncateRunes(base, maxSheetName)
	for i := 2; n.seen[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	n.seen[strings.ToLower(name)] = true
	return name
}

// sanitizeSheetName replaces characters Excel rejects in sheet names and
// strips leading and trailing apostrophes.
func sanitizeSheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, s)
	return strings.Trim(s, "' ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
