package domain

import (
	"strings"
	"time"
)

// dateTimeLayouts are tried in order by ParseDateTime. The first entry is what
// an HTML datetime-local input produces.
var dateTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"2006.01.02 15:04",
	"2006.01.02",
	"2006년 1월 2일 15:04",
	"2006년 1월 2일",
}

// ParseDateTime makes a best-effort attempt to read a plan's datetime text.
// The stored text is never rewritten; the parsed value is only used for
// sorting and date-range filtering. ok is false when no layout matches.
func ParseDateTime(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
