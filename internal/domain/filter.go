package domain

import (
	"strings"
	"time"
)

// Sort orders accepted by PlanFilter.
const (
	SortCreated  = "created"
	SortDateTime = "datetime"
)

// PlanFilter narrows a plan listing. Zero values match everything.
type PlanFilter struct {
	// Session matches the session label exactly.
	Session string
	// Query is a case-insensitive substring matched against session,
	// objective, location and the attendee summary.
	Query string
	// From and To bound the parsed datetime (inclusive). Plans whose datetime
	// cannot be parsed are excluded when either bound is set.
	From *time.Time
	To   *time.Time
	// Sort is SortCreated (newest first, the default) or SortDateTime
	// (earliest first, unparseable datetimes last).
	Sort string
}

// Match reports whether p passes every set criterion.
func (f PlanFilter) Match(p Plan) bool {
	if f.Session != "" && p.Session != f.Session {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		hay := strings.ToLower(strings.Join([]string{p.Session, p.Objective, p.Location, p.Attendees}, "\n"))
		if !strings.Contains(hay, q) {
			return false
		}
	}
	if f.From != nil || f.To != nil {
		t, ok := ParseDateTime(p.DateTime)
		if !ok {
			return false
		}
		if f.From != nil && t.Before(*f.From) {
			return false
		}
		if f.To != nil && t.After(*f.To) {
			return false
		}
	}
	return true
}
