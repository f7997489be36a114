package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/seminar-planner/internal/domain"
)

func TestResolveChoice(t *testing.T) {
	assert.Equal(t, "SI사업본부", domain.ResolveChoice("SI사업본부", "ignored"))
	assert.Equal(t, "외부 협력사", domain.ResolveChoice(domain.DirectInput, "  외부 협력사 "))
	assert.Equal(t, "", domain.ResolveChoice(domain.DirectInput, ""))
	// A non-preset value that is not the sentinel is kept verbatim.
	assert.Equal(t, "신규팀", domain.ResolveChoice("신규팀", ""))
}

func TestPresetMembership(t *testing.T) {
	assert.True(t, domain.IsSlotType("석식"))
	assert.False(t, domain.IsSlotType(""))
	assert.True(t, domain.IsSessionRound("제1회"))
	assert.False(t, domain.IsSessionRound("제1회 "))
	assert.True(t, domain.IsDepartment("SI사업본부"))
	assert.False(t, domain.IsDepartment(domain.DirectInput))
}
