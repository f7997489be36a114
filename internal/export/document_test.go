package export_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/export"
)

// ---- fixtures --------------------------------------------------------------

func planFixture() domain.Plan {
	return domain.Plan{
		ID:        "p-1",
		Session:   "제1회",
		Objective: "분기 기술 공유",
		DateTime:  "2024-03-15T14:00",
		Location:  "본사 대회의실",
		TimeSchedule: []domain.TimeSlot{
			{Type: "발표", Content: "아키텍처 개요", Time: "14:00", Responsible: "김철수"},
			{Type: "발표", Content: "사례 공유", Time: "14:30", Responsible: "이영희"},
			{Type: "토의", Content: "Q&A", Time: "15:00", Responsible: "박민수"},
		},
		AttendeeList: []domain.Attendee{
			{Name: "김철수", Position: "과장", Department: "SI사업본부", Work: "발표"},
			{Name: "이영희", Position: "대리", Department: "기술연구소", Work: "발표"},
		},
	}
}

// asciiPlan uses Latin text only so PDF content streams can be searched.
func asciiPlan() domain.Plan {
	return domain.Plan{
		Session:   "Round 1",
		Objective: "Quarterly tech share",
		DateTime:  "2024-03-15T14:00",
		Location:  "HQ Room A",
		Attendees: "Engineering",
		TimeSchedule: []domain.TimeSlot{
			{Type: "Talk", Content: "ArchOverview", Time: "14:00", Responsible: "Kim"},
			{Type: "Talk", Content: "CaseStudy", Time: "14:30", Responsible: "Lee"},
			{Type: "Panel", Content: "OpenQuestions", Time: "15:00", Responsible: "Park"},
		},
		AttendeeList: []domain.Attendee{
			{Name: "Alice", Position: "Manager", Department: "Platform", Work: "Host"},
			{Name: "Bob", Position: "Engineer", Department: "Infra", Work: "Notes"},
		},
	}
}

// ---- NewDocument -----------------------------------------------------------

func TestNewDocument_Fields(t *testing.T) {
	doc := export.NewDocument(planFixture())

	assert.Equal(t, export.Title, doc.Title)
	require.Len(t, doc.Fields, 4)
	assert.Equal(t, export.Field{Label: "목표", Value: "분기 기술 공유"}, doc.Fields[0])
	assert.Equal(t, export.Field{Label: "일시", Value: "2024-03-15T14:00"}, doc.Fields[1])
	assert.Equal(t, export.Field{Label: "장소", Value: "본사 대회의실"}, doc.Fields[2])
	assert.Equal(t, export.Field{Label: "참석 대상", Value: export.Blank}, doc.Fields[3], "empty value renders as blank marker")
}

func TestNewDocument_RowsVerbatimInSourceOrder(t *testing.T) {
	p := planFixture()
	doc := export.NewDocument(p)

	require.Len(t, doc.Schedule.Rows, len(p.TimeSchedule))
	for i, s := range p.TimeSchedule {
		assert.Equal(t, []string{s.Type, s.Content, s.Time, s.Responsible}, doc.Schedule.Rows[i])
	}
	assert.Equal(t, []string{"구분", "주요 내용", "시간", "담당"}, doc.Schedule.Header)

	require.Len(t, doc.Attendees.Rows, 2)
	assert.Equal(t, []string{"1", "김철수", "과장", "SI사업본부", "발표"}, doc.Attendees.Rows[0])
	assert.Equal(t, []string{"2", "이영희", "대리", "기술연구소", "발표"}, doc.Attendees.Rows[1])
}

func TestNewDocument_EmptyTableCellsStayEmpty(t *testing.T) {
	p := planFixture()
	p.TimeSchedule = []domain.TimeSlot{{Content: "only content"}}

	doc := export.NewDocument(p)

	assert.Equal(t, []string{"", "only content", "", ""}, doc.Schedule.Rows[0])
}

func TestNewDocument_TypeSpans(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		want  []export.Span
	}{
		{"none", nil, nil},
		{"single", []string{"발표"}, []export.Span{{0, 1}}},
		{"run then single", []string{"발표", "발표", "토의"}, []export.Span{{0, 2}, {2, 1}}},
		{"split runs", []string{"발표", "토의", "발표"}, []export.Span{{0, 1}, {1, 1}, {2, 1}}},
		{"empties never merge", []string{"", "", "보고", "보고", "보고"}, []export.Span{{0, 1}, {1, 1}, {2, 3}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p domain.Plan
			for _, ty := range tc.types {
				p.TimeSchedule = append(p.TimeSchedule, domain.TimeSlot{Type: ty})
			}

			assert.Equal(t, tc.want, export.NewDocument(p).TypeSpans)
		})
	}
}
