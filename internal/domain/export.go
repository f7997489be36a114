package domain

import "time"

// ExportRow is a single row in the bulk summary export.
// It is a flat view of one plan: scalar fields verbatim, row tables reduced
// to counts plus the attendee names in roster order.
//
// AttendeeNames skips blank names. Callers that need a joined string
// (e.g. CSV) should join with "|".
type ExportRow struct {
	PlanID    string
	Session   string
	DateTime  string
	Objective string
	Location  string
	Attendees string

	SlotCount     int
	AttendeeCount int
	AttendeeNames []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewExportRow flattens p into an ExportRow.
func NewExportRow(p Plan) ExportRow {
	names := make([]string, 0, len(p.AttendeeList))
	for _, a := range p.AttendeeList {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	return ExportRow{
		PlanID:        p.ID,
		Session:       p.Session,
		DateTime:      p.DateTime,
		Objective:     p.Objective,
		Location:      p.Location,
		Attendees:     p.Attendees,
		SlotCount:     len(p.TimeSchedule),
		AttendeeCount: len(p.AttendeeList),
		AttendeeNames: names,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
