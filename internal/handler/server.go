// Package handler implements the HTTP handlers for the seminar planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, plan.go, draft.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/export"
	"github.com/pkordes/seminar-planner/internal/service"
	"github.com/pkordes/seminar-planner/internal/workspace"
)

// PlanServicer defines the business operations the plan handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PlanServicer interface {
	Save(ctx context.Context, plan domain.Plan) (service.SaveResult, error)
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	List(ctx context.Context, filter domain.PlanFilter, page domain.PaginationParams) (service.PlanPage, error)
	Latest(ctx context.Context) (domain.Plan, error)
	Update(ctx context.Context, id string, plan domain.Plan) (domain.Plan, error)
	Delete(ctx context.Context, id string) error
}

// ExportServicer renders plans to downloadable files.
type ExportServicer interface {
	ExportPlan(ctx context.Context, id string, format export.Format) (service.Artifact, error)
	Render(ctx context.Context, p domain.Plan, format export.Format) (service.Artifact, error)
	ExportAll(ctx context.Context, format export.Format) (service.Artifact, error)
}

// DraftServicer defines the working-record operations.
type DraftServicer interface {
	New(ctx context.Context) (workspace.Draft, error)
	Load(ctx context.Context, planID string) (workspace.Draft, error)
	Get(ctx context.Context, id string) (workspace.Draft, error)
	EditField(ctx context.Context, id, field, value, custom string) (workspace.Draft, error)
	InsertRow(ctx context.Context, id, table string) (workspace.Draft, int64, error)
	EditRow(ctx context.Context, id, table string, rowID int64, field, value, custom string) (workspace.Draft, error)
	DeleteRow(ctx context.Context, id, table string, rowID int64) (workspace.Draft, error)
	Reset(ctx context.Context, id string) (workspace.Draft, error)
	Save(ctx context.Context, id string) (workspace.Draft, service.SaveResult, error)
	Discard(ctx context.Context, id string) error
	Plan(ctx context.Context, id string) (domain.Plan, error)
}

// Server holds the dependencies shared by every handler.
// Wire it in main.go via Routes.
type Server struct {
	plans   PlanServicer
	exports ExportServicer
	drafts  DraftServicer
}

// NewServer constructs the Server with all its dependencies.
// Any dependency may be nil in tests that do not reach it.
func NewServer(plans PlanServicer, exports ExportServicer, drafts DraftServicer) *Server {
	return &Server{plans: plans, exports: exports, drafts: drafts}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil)
}
