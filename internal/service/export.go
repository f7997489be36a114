package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/export"
	"github.com/pkordes/seminar-planner/internal/repo"
)

// Artifact is a rendered export ready to be sent as a download.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportService renders plans through the export registry.
type ExportService struct {
	plans    repo.PlanRepo
	registry *export.Registry
	now      func() time.Time
}

// NewExportService constructs an ExportService backed by the plan repo and
// the set of renderers that initialised at startup.
func NewExportService(plans repo.PlanRepo, registry *export.Registry) *ExportService {
	return &ExportService{plans: plans, registry: registry, now: time.Now}
}

// ExportPlan renders the stored plan id in format.
// The format is checked first so an unsupported format never costs a lookup.
func (s *ExportService) ExportPlan(ctx context.Context, id string, format export.Format) (Artifact, error) {
	r, err := s.registry.Lookup(format)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportPlan: %w", err)
	}
	p, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportPlan: %w", err)
	}
	a, err := s.render(r, p, format)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportPlan: %w", err)
	}
	return a, nil
}

// Render renders an unsaved plan, such as a draft snapshot. No validation is
// applied: a half-filled plan exports with blanks.
func (s *ExportService) Render(_ context.Context, p domain.Plan, format export.Format) (Artifact, error) {
	r, err := s.registry.Lookup(format)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.Render: %w", err)
	}
	a, err := s.render(r, p, format)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.Render: %w", err)
	}
	return a, nil
}

// ExportAll renders every stored plan, newest first, in one file.
func (s *ExportService) ExportAll(ctx context.Context, format export.Format) (Artifact, error) {
	r, err := s.registry.LookupBulk(format)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportAll: %w", err)
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportAll: %w", err)
	}

	var buf bytes.Buffer
	if err := r.RenderAll(&buf, plans); err != nil {
		return Artifact{}, fmt.Errorf("service.ExportService.ExportAll: %w", err)
	}
	return s.artifact(format, buf.Bytes()), nil
}

func (s *ExportService) render(r export.Renderer, p domain.Plan, format export.Format) (Artifact, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, export.NewDocument(p.Normalize())); err != nil {
		return Artifact{}, err
	}
	return s.artifact(format, buf.Bytes()), nil
}

func (s *ExportService) artifact(format export.Format, body []byte) Artifact {
	return Artifact{
		FileName:    export.FileName(format, s.now()),
		ContentType: export.ContentType(format),
		Body:        body,
	}
}
