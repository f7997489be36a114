package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with every API endpoint mounted. Cross-cutting
// middleware (request id, logging, CORS, body limits) is applied by the
// caller so tests can exercise the bare routes.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/presets", s.GetPresets)

	r.Route("/plans", func(r chi.Router) {
		r.Post("/", s.SavePlan)
		r.Get("/", s.ListPlans)
		r.Get("/latest", s.GetLatestPlan)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetPlan)
			r.Put("/", s.UpdatePlan)
			r.Delete("/", s.DeletePlan)
			r.Get("/export", s.ExportPlan)
		})
	})
	r.Get("/export", s.ExportAll)

	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", s.CreateDraft)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetDraft)
			r.Delete("/", s.DiscardDraft)
			r.Patch("/fields", s.EditDraftField)
			r.Post("/save", s.SaveDraft)
			r.Post("/reset", s.ResetDraft)
			r.Get("/export", s.ExportDraft)
			r.Post("/{table}", s.InsertDraftRow)
			r.Patch("/{table}/{rowId}", s.EditDraftRow)
			r.Delete("/{table}/{rowId}", s.DeleteDraftRow)
		})
	})

	return r
}
