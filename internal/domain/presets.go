package domain

import (
	"slices"
	"strings"
)

// DirectInput is the sentinel choice that means "use the custom text instead
// of a preset".
const DirectInput = "직접입력"

// SlotTypes is the vocabulary of the time-schedule "type" column.
var SlotTypes = []string{"발표", "토의", "정리", "석식", "보고"}

// SessionRounds lists the preset session labels.
var SessionRounds = []string{
	"제1회", "제2회", "제3회", "제4회", "제5회", "제6회",
	"제7회", "제8회", "제9회", "제10회", "제11회", "제12회",
}

// Departments lists the preset organisational units for Attendee.Department.
var Departments = []string{
	"경영지원본부",
	"SI사업본부",
	"SM사업본부",
	"솔루션사업본부",
	"클라우드사업본부",
	"기술연구소",
	"영업본부",
	"품질관리팀",
}

// IsSlotType reports whether v is in SlotTypes.
func IsSlotType(v string) bool { return slices.Contains(SlotTypes, v) }

// IsSessionRound reports whether v is one of the preset session labels.
func IsSessionRound(v string) bool { return slices.Contains(SessionRounds, v) }

// IsDepartment reports whether v is one of the preset departments.
func IsDepartment(v string) bool { return slices.Contains(Departments, v) }

// ResolveChoice returns the value to store for a preset-or-override field.
// Choosing DirectInput selects the trimmed custom text; any other value is
// stored as-is, whether or not it matches a preset.
func ResolveChoice(value, custom string) string {
	if value == DirectInput {
		return strings.TrimSpace(custom)
	}
	return value
}
