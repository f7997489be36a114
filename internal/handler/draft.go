package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/tablesync"
	"github.com/pkordes/seminar-planner/internal/workspace"
)

// DraftResponse is a draft as the form renders it: rows carry their display
// number and the stable id used to address them.
type DraftResponse struct {
	ID           string                                `json:"id"`
	PlanID       string                                `json:"planId,omitempty"`
	Session      string                                `json:"session"`
	Objective    string                                `json:"objective"`
	DateTime     string                                `json:"datetime"`
	Location     string                                `json:"location"`
	Attendees    string                                `json:"attendees"`
	TimeSchedule []tablesync.Numbered[domain.TimeSlot] `json:"timeSchedule"`
	AttendeeList []tablesync.Numbered[domain.Attendee] `json:"attendeeList"`
	UpdatedAt    time.Time                             `json:"updatedAt"`
}

// RowInsertResponse is the draft after a row insert plus the new row's id.
type RowInsertResponse struct {
	DraftResponse
	RowID int64 `json:"rowId"`
}

// DraftSaveResponse is a save result plus the draft now linked to the plan.
type DraftSaveResponse struct {
	SaveResponse
	Draft DraftResponse `json:"draft"`
}

// NewDraftRequest is the optional body of POST /drafts.
type NewDraftRequest struct {
	// PlanID loads a stored plan into the draft.
	PlanID string `json:"planId"`
	// Latest loads the newest stored plan.
	Latest bool `json:"latest"`
}

// EditRequest is the body of the field and cell edit endpoints. Custom is
// used when Value is the direct-input sentinel on a preset-backed field.
type EditRequest struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Custom string `json:"custom"`
}

func draftToResponse(d workspace.Draft) DraftResponse {
	return DraftResponse{
		ID:           d.ID,
		PlanID:       d.PlanID,
		Session:      d.Session,
		Objective:    d.Objective,
		DateTime:     d.DateTime,
		Location:     d.Location,
		Attendees:    d.Attendees,
		TimeSchedule: d.TimeSchedule.Numbered(),
		AttendeeList: d.AttendeeList.Numbered(),
		UpdatedAt:    d.UpdatedAt,
	}
}

// CreateDraft handles POST /drafts. With no body it starts a blank draft.
func (s *Server) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req NewDraftRequest
	if r.Body != nil {
		if err := decodeOptionalJSON(r, &req); err != nil {
			writeDecodeError(w, err)
			return
		}
	}

	var (
		d   workspace.Draft
		err error
	)
	switch {
	case req.PlanID != "":
		d, err = s.drafts.Load(r.Context(), req.PlanID)
	case req.Latest:
		d, err = s.drafts.Load(r.Context(), "")
	default:
		d, err = s.drafts.New(r.Context())
	}
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, draftToResponse(d))
}

// GetDraft handles GET /drafts/{id}.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	d, err := s.drafts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// EditDraftField handles PATCH /drafts/{id}/fields.
func (s *Server) EditDraftField(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}
	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := s.drafts.EditField(r.Context(), id, req.Field, req.Value, req.Custom)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// InsertDraftRow handles POST /drafts/{id}/{table}.
func (s *Server) InsertDraftRow(w http.ResponseWriter, r *http.Request) {
	var id, table string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}
	if err := pathParam(r, "table", &table); err != nil {
		writeRequestError(w, err)
		return
	}

	d, rowID, err := s.drafts.InsertRow(r.Context(), id, table)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusCreated, RowInsertResponse{DraftResponse: draftToResponse(d), RowID: rowID})
}

// EditDraftRow handles PATCH /drafts/{id}/{table}/{rowId}.
// Editing a row that does not exist leaves the draft unchanged.
func (s *Server) EditDraftRow(w http.ResponseWriter, r *http.Request) {
	id, table, rowID, ok := rowParams(w, r)
	if !ok {
		return
	}
	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := s.drafts.EditRow(r.Context(), id, table, rowID, req.Field, req.Value, req.Custom)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// DeleteDraftRow handles DELETE /drafts/{id}/{table}/{rowId}.
// The last row of a table is never removed; the draft is returned unchanged.
func (s *Server) DeleteDraftRow(w http.ResponseWriter, r *http.Request) {
	id, table, rowID, ok := rowParams(w, r)
	if !ok {
		return
	}

	d, err := s.drafts.DeleteRow(r.Context(), id, table, rowID)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// SaveDraft handles POST /drafts/{id}/save.
func (s *Server) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	d, result, err := s.drafts.Save(r.Context(), id)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}

	status, body := saveBody(result)
	writeJSON(w, status, DraftSaveResponse{SaveResponse: body, Draft: draftToResponse(d)})
}

// ResetDraft handles POST /drafts/{id}/reset ("new plan").
func (s *Server) ResetDraft(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	d, err := s.drafts.Reset(r.Context(), id)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeJSON(w, http.StatusOK, draftToResponse(d))
}

// DiscardDraft handles DELETE /drafts/{id}.
func (s *Server) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}

	if err := s.drafts.Discard(r.Context(), id); err != nil {
		writeError(w, r, "draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rowParams binds the id, table and rowId path parameters.
func rowParams(w http.ResponseWriter, r *http.Request) (id, table string, rowID int64, ok bool) {
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return "", "", 0, false
	}
	if err := pathParam(r, "table", &table); err != nil {
		writeRequestError(w, err)
		return "", "", 0, false
	}
	if err := pathParam(r, "rowId", &rowID); err != nil {
		writeRequestError(w, err)
		return "", "", 0, false
	}
	return id, table, rowID, true
}

// decodeOptionalJSON decodes the body into v, treating an empty body as {}.
func decodeOptionalJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
