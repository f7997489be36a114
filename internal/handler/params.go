package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/export"
)

// pathParam binds a required path parameter into dest, the same way the
// generated oapi-codegen wrappers do.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// queryParam binds an optional form-style query parameter into dest, leaving
// dest untouched when the parameter is absent.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

// listParams is the parsed query string of GET /plans.
type listParams struct {
	Filter domain.PlanFilter
	Page   domain.PaginationParams
}

// dateOnlyLen is the length of a YYYY-MM-DD bound.
const dateOnlyLen = len("2006-01-02")

func parseListParams(r *http.Request) (listParams, error) {
	var (
		session, q, sort *string
		from, to         *time.Time
		page, limit      *int
	)
	for name, dest := range map[string]any{
		"session": &session, "q": &q, "sort": &sort,
		"from": &from, "to": &to,
		"page": &page, "limit": &limit,
	} {
		if err := queryParam(r, name, dest); err != nil {
			return listParams{}, err
		}
	}

	// A date-only upper bound covers the whole day.
	if to != nil && len(r.URL.Query().Get("to")) == dateOnlyLen {
		end := to.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}

	return listParams{
		Filter: domain.PlanFilter{
			Session: deref(session),
			Query:   deref(q),
			From:    from,
			To:      to,
			Sort:    deref(sort),
		},
		Page: domain.NewPaginationParams(page, limit),
	}, nil
}

// formatParam reads ?format=. An absent value yields fallback; an empty
// fallback makes the parameter required.
func formatParam(r *http.Request, fallback export.Format) (export.Format, error) {
	var f *string
	if err := queryParam(r, "format", &f); err != nil {
		return "", err
	}
	if f == nil || *f == "" {
		if fallback == "" {
			return "", fmt.Errorf("query parameter format is required")
		}
		return fallback, nil
	}
	return export.Format(*f), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
