// Package workspace holds working records ("drafts"): plans being edited
// before they are saved. A draft is an explicit state container; every change
// goes through one of its reducers, and stores apply reducers atomically.
package workspace

import (
	"fmt"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/tablesync"
)

// Table names accepted by the row reducers.
const (
	TableTimeSchedule = "time-schedule"
	TableAttendees    = "attendees"
)

// Draft is the working copy of one plan.
type Draft struct {
	ID string `json:"id"`
	// PlanID is the stored plan this draft was loaded from or last saved to.
	PlanID string `json:"planId,omitempty"`

	Session   string `json:"session"`
	Objective string `json:"objective"`
	DateTime  string `json:"datetime"`
	Location  string `json:"location"`
	Attendees string `json:"attendees"`

	TimeSchedule tablesync.Table[domain.TimeSlot] `json:"timeSchedule"`
	AttendeeList tablesync.Table[domain.Attendee] `json:"attendeeList"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// blankDraft returns an empty draft with one blank row in each table.
func blankDraft(id string) Draft {
	d := Draft{ID: id}
	d.TimeSchedule.EnsureRow()
	d.AttendeeList.EnsureRow()
	return d
}

// draftFromPlan copies p into a new draft linked to p.
func draftFromPlan(id string, p domain.Plan) Draft {
	d := Draft{
		ID:           id,
		PlanID:       p.ID,
		Session:      p.Session,
		Objective:    p.Objective,
		DateTime:     p.DateTime,
		Location:     p.Location,
		Attendees:    p.Attendees,
		TimeSchedule: tablesync.FromValues(p.TimeSchedule),
		AttendeeList: tablesync.FromValues(p.AttendeeList),
	}
	d.TimeSchedule.EnsureRow()
	d.AttendeeList.EnsureRow()
	return d
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	d.TimeSchedule = d.TimeSchedule.Clone()
	d.AttendeeList = d.AttendeeList.Clone()
	return d
}

// Plan returns the draft as a plan, rows in display order. The plan carries
// PlanID as its ID.
func (d Draft) Plan() domain.Plan {
	return domain.Plan{
		ID:           d.PlanID,
		Session:      d.Session,
		Objective:    d.Objective,
		DateTime:     d.DateTime,
		Location:     d.Location,
		Attendees:    d.Attendees,
		TimeSchedule: d.TimeSchedule.Values(),
		AttendeeList: d.AttendeeList.Values(),
	}
}

// ApplyFieldEdit sets one scalar field. For the session field, choosing
// domain.DirectInput stores custom instead.
func (d *Draft) ApplyFieldEdit(field, value, custom string) error {
	if field == domain.FieldSession {
		value = domain.ResolveChoice(value, custom)
	}
	switch field {
	case domain.FieldSession:
		d.Session = value
	case domain.FieldObjective:
		d.Objective = value
	case domain.FieldDateTime:
		d.DateTime = value
	case domain.FieldLocation:
		d.Location = value
	case domain.FieldAttendees:
		d.Attendees = value
	default:
		return fmt.Errorf("%w: unknown field %q", domain.ErrValidation, field)
	}
	return nil
}

// ApplyRowInsert appends a blank row to table and returns its id.
func (d *Draft) ApplyRowInsert(table string) (int64, error) {
	switch table {
	case TableTimeSchedule:
		return d.TimeSchedule.Append(), nil
	case TableAttendees:
		return d.AttendeeList.Append(), nil
	}
	return 0, unknownTable(table)
}

// ApplyRowEdit sets field on the row with rowID. The department column
// accepts domain.DirectInput with custom text; the type column only takes a
// value from domain.SlotTypes or an empty string. An unknown row is a silent
// no-op; an unknown table or field is a validation error.
func (d *Draft) ApplyRowEdit(table string, rowID int64, field, value, custom string) error {
	switch table {
	case TableTimeSchedule:
		var blank domain.TimeSlot
		if !blank.SetField(field, "") {
			return unknownColumn(table, field)
		}
		if field == domain.FieldType && value != "" && !domain.IsSlotType(value) {
			return fmt.Errorf("%w: unknown type %q", domain.ErrValidation, value)
		}
		d.TimeSchedule.EditByID(rowID, field, value)
	case TableAttendees:
		var blank domain.Attendee
		if !blank.SetField(field, "") {
			return unknownColumn(table, field)
		}
		if field == domain.FieldDepartment {
			value = domain.ResolveChoice(value, custom)
		}
		d.AttendeeList.EditByID(rowID, field, value)
	default:
		return unknownTable(table)
	}
	return nil
}

// ApplyRowDelete removes the row with rowID. Deleting the last row or an
// unknown row is a silent no-op.
func (d *Draft) ApplyRowDelete(table string, rowID int64) error {
	switch table {
	case TableTimeSchedule:
		d.TimeSchedule.RemoveByID(rowID)
	case TableAttendees:
		d.AttendeeList.RemoveByID(rowID)
	default:
		return unknownTable(table)
	}
	return nil
}

// Reset clears the draft to a blank one, unlinking it from any plan. Row ids
// keep counting from where they were, so ids handed out before the reset
// never address a row after it.
func (d *Draft) Reset() {
	schedule, attendees := d.TimeSchedule.LastID, d.AttendeeList.LastID
	*d = Draft{ID: d.ID}
	d.TimeSchedule.LastID = schedule
	d.AttendeeList.LastID = attendees
	d.TimeSchedule.EnsureRow()
	d.AttendeeList.EnsureRow()
}

func unknownTable(table string) error {
	return fmt.Errorf("%w: unknown table %q", domain.ErrValidation, table)
}

func unknownColumn(table, field string) error {
	return fmt.Errorf("%w: unknown %s field %q", domain.ErrValidation, table, field)
}
