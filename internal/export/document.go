// Package export renders seminar plans as downloadable documents.
//
// Every format is built from the same Document model so that the PDF, XLSX
// and DOCX outputs show the same cells in the same order. Cell text is copied
// verbatim; only the labelled block substitutes Blank for empty values.
package export

import (
	"strconv"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// Fixed document text.
const (
	Title            = "전사 신기술 세미나 실행계획"
	SectionBasics    = "기본 정보"
	SectionSchedule  = "시간 계획"
	SectionAttendees = "세미나 참석 명단"

	// Blank stands in for an empty labelled value.
	Blank = "미입력"
)

var (
	scheduleHeader = []string{"구분", "주요 내용", "시간", "담당"}
	attendeeHeader = []string{"No", "성명", "직급", "소속", "업무"}
)

// Field is one labelled value in the basics block.
type Field struct {
	Label string
	Value string
}

// Table is a titled grid. Rows are in source order.
type Table struct {
	Heading string
	Header  []string
	Rows    [][]string
}

// Span is a run of Len adjacent schedule rows starting at Start that share
// one type cell.
type Span struct {
	Start int
	Len   int
}

// Document is the format-neutral view of a plan.
type Document struct {
	Title     string
	Session   string
	DateTime  string
	Fields    []Field
	Schedule  Table
	TypeSpans []Span
	Attendees Table
}

// NewDocument builds the export model for p.
func NewDocument(p domain.Plan) Document {
	doc := Document{
		Title:    Title,
		Session:  p.Session,
		DateTime: p.DateTime,
		Fields: []Field{
			{Label: "목표", Value: orBlank(p.Objective)},
			{Label: "일시", Value: orBlank(p.DateTime)},
			{Label: "장소", Value: orBlank(p.Location)},
			{Label: "참석 대상", Value: orBlank(p.Attendees)},
		},
		Schedule:  Table{Heading: SectionSchedule, Header: scheduleHeader},
		Attendees: Table{Heading: SectionAttendees, Header: attendeeHeader},
	}

	types := make([]string, 0, len(p.TimeSchedule))
	for _, s := range p.TimeSchedule {
		doc.Schedule.Rows = append(doc.Schedule.Rows, []string{s.Type, s.Content, s.Time, s.Responsible})
		types = append(types, s.Type)
	}
	doc.TypeSpans = typeSpans(types)

	for i, a := range p.AttendeeList {
		doc.Attendees.Rows = append(doc.Attendees.Rows,
			[]string{strconv.Itoa(i + 1), a.Name, a.Position, a.Department, a.Work})
	}
	return doc
}

// typeSpans partitions rows into runs of equal, non-empty adjacent types.
// Empty types never merge.
func typeSpans(types []string) []Span {
	var spans []Span
	for i := 0; i < len(types); {
		j := i + 1
		if types[i] != "" {
			for j < len(types) && types[j] == types[i] {
				j++
			}
		}
		spans = append(spans, Span{Start: i, Len: j - i})
		i = j
	}
	return spans
}

func orBlank(s string) string {
	if s == "" {
		return Blank
	}
	return s
}
