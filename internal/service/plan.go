// Package service contains the business logic for the seminar planner.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/events"
	"github.com/pkordes/seminar-planner/internal/logging"
	"github.com/pkordes/seminar-planner/internal/repo"
)

// Outcome reports which branch of the upsert a save took.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// SaveResult is the persisted plan and how it got there.
type SaveResult struct {
	Plan    domain.Plan
	Outcome Outcome
}

// Created reports whether the save inserted a new plan.
func (r SaveResult) Created() bool { return r.Outcome == OutcomeCreated }

// PlanPage is one page of a filtered listing plus the total match count.
type PlanPage struct {
	Items []domain.Plan
	Total int
}

// PlanService implements business logic for Plan operations.
type PlanService struct {
	repo      repo.PlanRepo
	publisher events.Publisher
	now       func() time.Time
}

// NewPlanService constructs a PlanService. A nil publisher disables events.
func NewPlanService(r repo.PlanRepo, pub events.Publisher) *PlanService {
	if pub == nil {
		pub = events.Noop{}
	}
	return &PlanService{repo: r, publisher: pub, now: time.Now}
}

// Save persists plan keyed by (session, datetime): the first persisted plan
// with the same composite key is overwritten, otherwise a new plan is
// created. Any ID on the input is ignored.
//
// A create that loses a race to a concurrent save of the same key fails with
// domain.ErrConflict from the store; Save then rescans once and updates the
// plan that won.
func (s *PlanService) Save(ctx context.Context, plan domain.Plan) (SaveResult, error) {
	plan = plan.Normalize()
	if err := plan.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("service.PlanService.Save: %w", err)
	}
	plan.ID = ""

	res, err := s.upsert(ctx, plan)
	if errors.Is(err, domain.ErrConflict) {
		logging.FromContext(ctx).InfoContext(ctx, "plan key taken concurrently, retrying as update", "key", plan.Key())
		res, err = s.upsert(ctx, plan)
	}
	if err != nil {
		return SaveResult{}, fmt.Errorf("service.PlanService.Save: %w", err)
	}

	evType := events.TypePlanUpdated
	if res.Created() {
		evType = events.TypePlanCreated
	}
	s.publish(ctx, evType, res.Plan)
	return res, nil
}

func (s *PlanService) upsert(ctx context.Context, plan domain.Plan) (SaveResult, error) {
	existing, found, err := s.findByKey(ctx, plan.Key())
	if err != nil {
		return SaveResult{}, err
	}
	if found {
		plan.ID = existing.ID
		updated, err := s.repo.Update(ctx, plan)
		if err != nil {
			return SaveResult{}, err
		}
		return SaveResult{Plan: updated, Outcome: OutcomeUpdated}, nil
	}

	created, err := s.repo.Create(ctx, plan)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Plan: created, Outcome: OutcomeCreated}, nil
}

// findByKey scans every persisted plan and returns the first whose composite
// key equals key, in store order.
func (s *PlanService) findByKey(ctx context.Context, key string) (domain.Plan, bool, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return domain.Plan{}, false, err
	}
	for _, p := range plans {
		if p.Key() == key {
			return p, true, nil
		}
	}
	return domain.Plan{}, false, nil
}

// GetByID returns a single plan by ID.
func (s *PlanService) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.GetByID: %w", err)
	}
	return p, nil
}

// List returns the page of plans matching filter, ordered per filter.Sort.
func (s *PlanService) List(ctx context.Context, filter domain.PlanFilter, page domain.PaginationParams) (PlanPage, error) {
	if filter.Sort != "" && filter.Sort != domain.SortCreated && filter.Sort != domain.SortDateTime {
		return PlanPage{}, fmt.Errorf("service.PlanService.List: %w: unknown sort %q", domain.ErrValidation, filter.Sort)
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return PlanPage{}, fmt.Errorf("service.PlanService.List: %w", err)
	}

	matched := make([]domain.Plan, 0, len(all))
	for _, p := range all {
		if filter.Match(p) {
			matched = append(matched, p)
		}
	}
	if filter.Sort == domain.SortDateTime {
		sortByDateTime(matched)
	}

	start, end := page.Window(len(matched))
	return PlanPage{Items: matched[start:end], Total: len(matched)}, nil
}

// sortByDateTime orders plans by parsed datetime ascending. Unparseable
// datetimes sort last, keeping their relative order.
func sortByDateTime(plans []domain.Plan) {
	slices.SortStableFunc(plans, func(a, b domain.Plan) int {
		ta, oka := domain.ParseDateTime(a.DateTime)
		tb, okb := domain.ParseDateTime(b.DateTime)
		switch {
		case oka && okb:
			return ta.Compare(tb)
		case oka:
			return -1
		case okb:
			return 1
		}
		return 0
	})
}

// All returns every plan, newest first.
func (s *PlanService) All(ctx context.Context) ([]domain.Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.All: %w", err)
	}
	return plans, nil
}

// Latest returns the most recently created plan, or domain.ErrNotFound when
// nothing has been saved yet.
func (s *PlanService) Latest(ctx context.Context) (domain.Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Latest: %w", err)
	}
	if len(plans) == 0 {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Latest: %w", domain.ErrNotFound)
	}
	return plans[0], nil
}

// Update validates plan and overwrites the plan stored under id.
// Changing the key to one held by another plan fails with domain.ErrConflict.
func (s *PlanService) Update(ctx context.Context, id string, plan domain.Plan) (domain.Plan, error) {
	plan = plan.Normalize()
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	plan.ID = id

	updated, err := s.repo.Update(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	s.publish(ctx, events.TypePlanUpdated, updated)
	return updated, nil
}

// Delete removes a plan by ID.
func (s *PlanService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	s.publish(ctx, events.TypePlanDeleted, domain.Plan{ID: id})
	return nil
}

// publish emits a lifecycle event. Failures are logged and never surface to
// the caller: the write has already succeeded.
func (s *PlanService) publish(ctx context.Context, evType string, p domain.Plan) {
	ev := events.PlanEvent{
		Type:       evType,
		PlanID:     p.ID,
		Session:    p.Session,
		DateTime:   p.DateTime,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "publish plan event failed",
			"type", evType, "plan_id", p.ID, "error", err)
	}
}
