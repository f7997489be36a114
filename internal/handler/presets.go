package handler

import (
	"net/http"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// PresetsResponse lists the choices offered by the form's select inputs.
type PresetsResponse struct {
	SessionRounds []string `json:"sessionRounds"`
	SlotTypes     []string `json:"slotTypes"`
	Departments   []string `json:"departments"`
	DirectInput   string   `json:"directInput"`
}

// GetPresets handles GET /presets.
func (s *Server) GetPresets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PresetsResponse{
		SessionRounds: domain.SessionRounds,
		SlotTypes:     domain.SlotTypes,
		Departments:   domain.Departments,
		DirectInput:   domain.DirectInput,
	})
}
