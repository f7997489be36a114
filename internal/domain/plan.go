// Package domain contains the core data types for the seminar planner.
// This package has no external dependencies and is imported by every other
// internal package (repo, service, workspace, export, handler).
package domain

import (
	"fmt"
	"strings"
	"time"
)

// KeySeparator joins session and datetime into the composite key.
const KeySeparator = "_"

// Plan is one seminar plan, the top-level persisted entity.
// ID is assigned by the store on creation and is not part of the persisted
// document itself.
type Plan struct {
	ID           string     `json:"id,omitempty"`
	Session      string     `json:"session"`
	Objective    string     `json:"objective"`
	DateTime     string     `json:"datetime"` // opaque locale text, see ParseDateTime
	Location     string     `json:"location"`
	Attendees    string     `json:"attendees"` // free-text summary, distinct from AttendeeList
	TimeSchedule []TimeSlot `json:"timeSchedule"`
	AttendeeList []Attendee `json:"attendeeList"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// TimeSlot is one row of the time-schedule table.
type TimeSlot struct {
	Type        string `json:"type"`
	Content     string `json:"content"`
	Time        string `json:"time"`
	Responsible string `json:"responsible"`
}

// Attendee is one row of the attendee roster.
type Attendee struct {
	Name       string `json:"name"`
	Position   string `json:"position"`
	Department string `json:"department"`
	Work       string `json:"work"`
}

// Field names accepted by the field-level edit operations.
const (
	FieldSession   = "session"
	FieldObjective = "objective"
	FieldDateTime  = "datetime"
	FieldLocation  = "location"
	FieldAttendees = "attendees"

	FieldType        = "type"
	FieldContent     = "content"
	FieldTime        = "time"
	FieldResponsible = "responsible"

	FieldName       = "name"
	FieldPosition   = "position"
	FieldDepartment = "department"
	FieldWork       = "work"
)

// SetField assigns value to the named column. It reports false for an
// unknown field and leaves the slot unchanged.
func (s *TimeSlot) SetField(field, value string) bool {
	switch field {
	case FieldType:
		s.Type = value
	case FieldContent:
		s.Content = value
	case FieldTime:
		s.Time = value
	case FieldResponsible:
		s.Responsible = value
	default:
		return false
	}
	return true
}

// SetField assigns value to the named column. It reports false for an
// unknown field and leaves the attendee unchanged.
func (a *Attendee) SetField(field, value string) bool {
	switch field {
	case FieldName:
		a.Name = value
	case FieldPosition:
		a.Position = value
	case FieldDepartment:
		a.Department = value
	case FieldWork:
		a.Work = value
	default:
		return false
	}
	return true
}

// SetField assigns value to one of the plan's scalar fields. It reports false
// for an unknown field.
func (p *Plan) SetField(field, value string) bool {
	switch field {
	case FieldSession:
		p.Session = value
	case FieldObjective:
		p.Objective = value
	case FieldDateTime:
		p.DateTime = value
	case FieldLocation:
		p.Location = value
	case FieldAttendees:
		p.Attendees = value
	default:
		return false
	}
	return true
}

// Key returns the composite key that identifies a plan for upsert purposes.
// It is a plain concatenation, so the caller must have normalized the plan.
func (p Plan) Key() string {
	return CompositeKey(p.Session, p.DateTime)
}

// CompositeKey joins session and datetime with KeySeparator.
func CompositeKey(session, datetime string) string {
	return session + KeySeparator + datetime
}

// Normalize returns a copy of p with surrounding whitespace trimmed from the
// key fields and nil row slices replaced by empty ones. Other text is kept
// verbatim.
func (p Plan) Normalize() Plan {
	p.Session = strings.TrimSpace(p.Session)
	p.DateTime = strings.TrimSpace(p.DateTime)
	if p.TimeSchedule == nil {
		p.TimeSchedule = []TimeSlot{}
	}
	if p.AttendeeList == nil {
		p.AttendeeList = []Attendee{}
	}
	return p
}

// ValidateKey reports ErrValidation when either key field is empty.
func (p Plan) ValidateKey() error {
	var missing []string
	if strings.TrimSpace(p.Session) == "" {
		missing = append(missing, FieldSession)
	}
	if strings.TrimSpace(p.DateTime) == "" {
		missing = append(missing, FieldDateTime)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required key fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Validate enforces the rules applied on save:
//   - session and datetime must be non-empty.
//   - every non-empty time-slot type must come from SlotTypes.
func (p Plan) Validate() error {
	if err := p.ValidateKey(); err != nil {
		return err
	}
	for i, slot := range p.TimeSchedule {
		if slot.Type != "" && !IsSlotType(slot.Type) {
			return fmt.Errorf("%w: timeSchedule[%d]: unknown type %q", ErrValidation, i, slot.Type)
		}
	}
	return nil
}
