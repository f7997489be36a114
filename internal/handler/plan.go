package handler

import (
	"net/http"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/service"
)

// Messages returned to the form after a write.
const (
	msgCreated = "저장되었습니다."
	msgUpdated = "업데이트되었습니다."
	msgDeleted = "삭제되었습니다."
)

// SaveResponse is the body of a successful save.
type SaveResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Outcome string      `json:"outcome"`
	Plan    domain.Plan `json:"plan"`
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PlanListResponse is the body of GET /plans.
type PlanListResponse struct {
	Data       []domain.Plan `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// saveBody reports a save with 201 for a new plan and 200 for an update.
func saveBody(result service.SaveResult) (int, SaveResponse) {
	status, msg := http.StatusOK, msgUpdated
	if result.Created() {
		status, msg = http.StatusCreated, msgCreated
	}
	return status, SaveResponse{
		Success: true,
		Message: msg,
		Outcome: string(result.Outcome),
		Plan:    result.Plan,
	}
}

// SavePlan handles POST /plans: create or overwrite by (session, datetime).
func (s *Server) SavePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.Plan
	if !decodeJSON(w, r, &plan) {
		return
	}

	result, err := s.plans.Save(r.Context(), plan)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	status, body := saveBody(result)
	writeJSON(w, status, body)
}

// ListPlans handles GET /plans.
// Supports ?session=, ?q=, ?from=, ?to=, ?sort=created|datetime and
// ?page= / ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	params, err := parseListParams(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	page, err := s.plans.List(r.Context(), params.Filter, params.Page)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}

	writeJSON(w, http.StatusOK, PlanListResponse{
		Data: page.Items,
		Pagination: Pagination{
			Page:  params.Page.Page,
			Limit: params.Page.Limit,
			Total: page.Total,
		},
	})
}

// GetLatestPlan handles GET /plans/latest.
func (s *Server) GetLatestPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Latest(r.Context())
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetPlan handles GET /plans/{id}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	plan, err := s.plans.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// UpdatePlan handles PUT /plans/{id}: overwrite by store id.
func (s *Server) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}
	var plan domain.Plan
	if !decodeJSON(w, r, &plan) {
		return
	}

	updated, err := s.plans.Update(r.Context(), id, plan)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{
		Success: true,
		Message: msgUpdated,
		Outcome: string(service.OutcomeUpdated),
		Plan:    updated,
	})
}

// DeletePlan handles DELETE /plans/{id}.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	if err := s.plans.Delete(r.Context(), id); err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: msgDeleted})
}
