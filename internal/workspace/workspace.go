package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/service"
)

// Planner is the subset of the plan service the workspace needs.
type Planner interface {
	Save(ctx context.Context, plan domain.Plan) (service.SaveResult, error)
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	Latest(ctx context.Context) (domain.Plan, error)
}

// Workspace manages drafts: it creates them, routes edits through the draft
// reducers inside an atomic store update, and saves them through the plan
// service.
type Workspace struct {
	store   Store
	planner Planner
	now     func() time.Time
}

// New constructs a Workspace.
func New(store Store, planner Planner) *Workspace {
	return &Workspace{store: store, planner: planner, now: time.Now}
}

// New creates a blank draft with one empty row in each table.
func (w *Workspace) New(ctx context.Context) (Draft, error) {
	d := blankDraft(uuid.NewString())
	d.UpdatedAt = w.now().UTC()
	if err := w.store.Create(ctx, d); err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.New: %w", err)
	}
	return d, nil
}

// Load creates a draft from a stored plan. An empty planID loads the newest
// plan.
func (w *Workspace) Load(ctx context.Context, planID string) (Draft, error) {
	var (
		p   domain.Plan
		err error
	)
	if planID == "" {
		p, err = w.planner.Latest(ctx)
	} else {
		p, err = w.planner.GetByID(ctx, planID)
	}
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.Load: %w", err)
	}

	d := draftFromPlan(uuid.NewString(), p)
	d.UpdatedAt = w.now().UTC()
	if err := w.store.Create(ctx, d); err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.Load: %w", err)
	}
	return d, nil
}

// Get returns the draft with the given id.
func (w *Workspace) Get(ctx context.Context, id string) (Draft, error) {
	d, err := w.store.Get(ctx, id)
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.Get: %w", err)
	}
	return d, nil
}

// EditField applies a scalar field edit.
func (w *Workspace) EditField(ctx context.Context, id, field, value, custom string) (Draft, error) {
	d, err := w.apply(ctx, id, func(d *Draft) error {
		return d.ApplyFieldEdit(field, value, custom)
	})
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.EditField: %w", err)
	}
	return d, nil
}

// InsertRow appends a blank row to table and returns the draft and the new
// row's id.
func (w *Workspace) InsertRow(ctx context.Context, id, table string) (Draft, int64, error) {
	var rowID int64
	d, err := w.apply(ctx, id, func(d *Draft) error {
		var err error
		rowID, err = d.ApplyRowInsert(table)
		return err
	})
	if err != nil {
		return Draft{}, 0, fmt.Errorf("workspace.Workspace.InsertRow: %w", err)
	}
	return d, rowID, nil
}

// EditRow applies a cell edit to one row.
func (w *Workspace) EditRow(ctx context.Context, id, table string, rowID int64, field, value, custom string) (Draft, error) {
	d, err := w.apply(ctx, id, func(d *Draft) error {
		return d.ApplyRowEdit(table, rowID, field, value, custom)
	})
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.EditRow: %w", err)
	}
	return d, nil
}

// DeleteRow removes one row. Removing the last row is a no-op.
func (w *Workspace) DeleteRow(ctx context.Context, id, table string, rowID int64) (Draft, error) {
	d, err := w.apply(ctx, id, func(d *Draft) error {
		return d.ApplyRowDelete(table, rowID)
	})
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.DeleteRow: %w", err)
	}
	return d, nil
}

// Reset clears the draft to a blank one under the same id.
func (w *Workspace) Reset(ctx context.Context, id string) (Draft, error) {
	d, err := w.apply(ctx, id, func(d *Draft) error {
		d.Reset()
		return nil
	})
	if err != nil {
		return Draft{}, fmt.Errorf("workspace.Workspace.Reset: %w", err)
	}
	return d, nil
}

// Save persists the draft through the plan service. On success the draft
// records the saved plan's id; on failure the draft is left as it was.
func (w *Workspace) Save(ctx context.Context, id string) (Draft, service.SaveResult, error) {
	d, err := w.store.Get(ctx, id)
	if err != nil {
		return Draft{}, service.SaveResult{}, fmt.Errorf("workspace.Workspace.Save: %w", err)
	}

	result, err := w.planner.Save(ctx, d.Plan())
	if err != nil {
		return Draft{}, service.SaveResult{}, fmt.Errorf("workspace.Workspace.Save: %w", err)
	}

	d, err = w.apply(ctx, id, func(d *Draft) error {
		d.PlanID = result.Plan.ID
		return nil
	})
	if err != nil {
		return Draft{}, service.SaveResult{}, fmt.Errorf("workspace.Workspace.Save: %w", err)
	}
	return d, result, nil
}

// Discard deletes the draft.
func (w *Workspace) Discard(ctx context.Context, id string) error {
	if err := w.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("workspace.Workspace.Discard: %w", err)
	}
	return nil
}

// Plan returns a snapshot of the draft as a plan, for export.
func (w *Workspace) Plan(ctx context.Context, id string) (domain.Plan, error) {
	d, err := w.store.Get(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("workspace.Workspace.Plan: %w", err)
	}
	return d.Plan(), nil
}

// apply runs fn inside an atomic store update and stamps UpdatedAt.
func (w *Workspace) apply(ctx context.Context, id string, fn func(*Draft) error) (Draft, error) {
	return w.store.Update(ctx, id, func(d *Draft) error {
		if err := fn(d); err != nil {
			return err
		}
		d.UpdatedAt = w.now().UTC()
		return nil
	})
}
