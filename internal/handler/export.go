// Package handler: export.go implements the file download endpoints.
// A format is requested with ?format=; formats whose renderer is not
// available answer 415 with code unsupported_format.
package handler

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/pkordes/seminar-planner/internal/export"
	"github.com/pkordes/seminar-planner/internal/service"
)

// ExportPlan handles GET /plans/{id}/export?format=pdf|xlsx|docx.
func (s *Server) ExportPlan(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}
	format, err := formatParam(r, "")
	if err != nil {
		writeRequestError(w, err)
		return
	}

	a, err := s.exports.ExportPlan(r.Context(), id, format)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeArtifact(w, a)
}

// ExportAll handles GET /export?format=xlsx|json|csv. JSON is the default.
func (s *Server) ExportAll(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r, export.FormatJSON)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	a, err := s.exports.ExportAll(r.Context(), format)
	if err != nil {
		writeError(w, r, "plan", err)
		return
	}
	writeArtifact(w, a)
}

// ExportDraft handles GET /drafts/{id}/export?format=pdf|xlsx|docx.
// The draft is exported as it stands, without save-time validation.
func (s *Server) ExportDraft(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		writeRequestError(w, err)
		return
	}
	format, err := formatParam(r, "")
	if err != nil {
		writeRequestError(w, err)
		return
	}

	plan, err := s.drafts.Plan(r.Context(), id)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	a, err := s.exports.Render(r.Context(), plan, format)
	if err != nil {
		writeError(w, r, "draft", err)
		return
	}
	writeArtifact(w, a)
}

// writeArtifact sends a rendered file as an attachment. The file name is
// Korean, so Content-Disposition carries it RFC 2231 encoded.
func writeArtifact(w http.ResponseWriter, a service.Artifact) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Body)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(a.Body)
}
