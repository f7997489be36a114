package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/seminar-planner/internal/domain"
)

func TestPlan_Key(t *testing.T) {
	p := domain.Plan{Session: "제1회", DateTime: "2025-01-10T10:00"}
	assert.Equal(t, "제1회_2025-01-10T10:00", p.Key())
}

func TestPlan_Normalize_TrimsKeyFieldsOnly(t *testing.T) {
	p := domain.Plan{
		Session:   "  제2회 ",
		DateTime:  "\t2025-02-01T09:00\n",
		Objective: "  keep my spaces  ",
	}

	got := p.Normalize()

	assert.Equal(t, "제2회", got.Session)
	assert.Equal(t, "2025-02-01T09:00", got.DateTime)
	assert.Equal(t, "  keep my spaces  ", got.Objective)
	assert.NotNil(t, got.TimeSchedule)
	assert.NotNil(t, got.AttendeeList)
	assert.Empty(t, got.TimeSchedule)
}

func TestPlan_ValidateKey(t *testing.T) {
	tests := []struct {
		name     string
		session  string
		datetime string
		wantErr  bool
	}{
		{"both present", "제1회", "2025-01-10T10:00", false},
		{"session missing", "", "2025-01-10T10:00", true},
		{"datetime missing", "제1회", "", true},
		{"both missing", "", "", true},
		{"whitespace only", "   ", "2025-01-10T10:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.Plan{Session: tt.session, DateTime: tt.datetime}.ValidateKey()
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
				assert.ErrorContains(t, err, "missing required key fields")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPlan_Validate_RejectsUnknownSlotType(t *testing.T) {
	p := domain.Plan{
		Session:      "제1회",
		DateTime:     "2025-01-10T10:00",
		TimeSchedule: []domain.TimeSlot{{Type: "발표"}, {Type: ""}, {Type: "휴식"}},
	}

	err := p.Validate()

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "timeSchedule[2]")
}

func TestTimeSlot_SetField(t *testing.T) {
	var s domain.TimeSlot

	assert.True(t, s.SetField(domain.FieldType, "토의"))
	assert.True(t, s.SetField(domain.FieldContent, "질의응답"))
	assert.True(t, s.SetField(domain.FieldTime, "11:00"))
	assert.True(t, s.SetField(domain.FieldResponsible, "홍길동"))
	assert.False(t, s.SetField("name", "x"))

	assert.Equal(t, domain.TimeSlot{Type: "토의", Content: "질의응답", Time: "11:00", Responsible: "홍길동"}, s)
}

func TestAttendee_SetField(t *testing.T) {
	var a domain.Attendee

	assert.True(t, a.SetField(domain.FieldName, "김철수"))
	assert.True(t, a.SetField(domain.FieldPosition, "과장"))
	assert.True(t, a.SetField(domain.FieldDepartment, "SI사업본부"))
	assert.True(t, a.SetField(domain.FieldWork, "발표"))
	assert.False(t, a.SetField(domain.FieldType, "발표"))

	assert.Equal(t, domain.Attendee{Name: "김철수", Position: "과장", Department: "SI사업본부", Work: "발표"}, a)
}

func TestPlan_SetField_UnknownField(t *testing.T) {
	var p domain.Plan
	assert.False(t, p.SetField("timeSchedule", "x"))
	assert.True(t, p.SetField(domain.FieldLocation, "3층 회의실"))
	assert.Equal(t, "3층 회의실", p.Location)
}

// ---- ExportRow -------------------------------------------------------------

func TestNewExportRow(t *testing.T) {
	p := domain.Plan{
		ID:           "p-1",
		Session:      "제1회",
		DateTime:     "2024-03-15T14:00",
		TimeSchedule: []domain.TimeSlot{{Type: "발표"}, {Type: "토의"}},
		AttendeeList: []domain.Attendee{{Name: "김철수"}, {}, {Name: "이영희"}},
	}

	row := domain.NewExportRow(p)

	assert.Equal(t, "p-1", row.PlanID)
	assert.Equal(t, 2, row.SlotCount)
	assert.Equal(t, 3, row.AttendeeCount)
	assert.Equal(t, []string{"김철수", "이영희"}, row.AttendeeNames)
}
