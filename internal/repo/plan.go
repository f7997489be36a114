// Package repo contains all persistence logic for the seminar planner.
// PlanRepo is the store abstraction the service layer depends on; this file
// holds the Postgres implementation, plan_sqlite.go the local-file fallback
// and plan_mongo.go the document-store implementation.
// No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for a unique index hit.
const pgUniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock's pool. Accepting it instead of *pgxpool.Pool lets integration
// tests pass a transaction that is rolled back after each test, and unit
// tests pass a mock.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlanRepo defines the persistence operations for seminar plans.
// The service layer depends on this interface, not on a concrete backend.
type PlanRepo interface {
	// Create inserts a new plan and returns the persisted record with the
	// store-generated id, created_at and updated_at populated.
	// Returns domain.ErrConflict if another plan already holds the same
	// non-empty (session, datetime) pair.
	Create(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// GetByID retrieves a single plan by its store id.
	// Returns domain.ErrNotFound if no plan with that id exists.
	GetByID(ctx context.Context, id string) (domain.Plan, error)

	// List returns every persisted plan ordered by created_at descending.
	List(ctx context.Context) ([]domain.Plan, error)

	// Update overwrites all document fields of an existing plan and returns
	// the updated record. Returns domain.ErrNotFound if the id does not exist
	// and domain.ErrConflict if the new key collides with another plan.
	Update(ctx context.Context, plan domain.Plan) (domain.Plan, error)

	// Delete removes a plan by id. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}

// pgPlanRepo is the Postgres implementation of PlanRepo.
// The two row tables are stored as JSONB documents on the plan row.
type pgPlanRepo struct {
	db db
}

// NewPlanRepo constructs a Postgres-backed PlanRepo.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewPlanRepo(db db) PlanRepo {
	return &pgPlanRepo{db: db}
}

const planColumns = `id::text, session, objective, datetime, location, attendees,
		       time_schedule, attendee_list, created_at, updated_at`

// Create inserts a new plan row and returns the full persisted record.
func (r *pgPlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	const q = `
		INSERT INTO seminar_plans (session, objective, datetime, location, attendees, time_schedule, attendee_list)
		VALUES (@session, @objective, @datetime, @location, @attendees, @time_schedule, @attendee_list)
		RETURNING ` + planColumns

	args, err := planArgs(plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Create: %w", err)
	}

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Create: %w", mapPgError(err))
	}
	return result, nil
}

// GetByID retrieves a plan by primary key. Ids that are not UUIDs cannot
// exist and are reported as not found without a round trip.
func (r *pgPlanRepo) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", domain.ErrNotFound)
	}

	const q = `SELECT ` + planColumns + ` FROM seminar_plans WHERE id = @id`

	result, err := scanPlan(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": uid}))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all plans, newest first.
func (r *pgPlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	const q = `SELECT ` + planColumns + ` FROM seminar_plans ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.List: %w", err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PlanRepo.List: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PlanRepo.List: rows: %w", err)
	}
	return plans, nil
}

// Update overwrites the document fields of a plan and bumps updated_at.
func (r *pgPlanRepo) Update(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	uid, err := uuid.Parse(plan.ID)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", domain.ErrNotFound)
	}

	const q = `
		UPDATE seminar_plans
		SET session       = @session,
		    objective     = @objective,
		    datetime      = @datetime,
		    location      = @location,
		    attendees     = @attendees,
		    time_schedule = @time_schedule,
		    attendee_list = @attendee_list,
		    updated_at    = clock_timestamp()
		WHERE id = @id
		RETURNING ` + planColumns

	args, err := planArgs(plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", err)
	}
	args["id"] = uid

	result, err := scanPlan(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.PlanRepo.Update: %w", mapPgError(err))
	}
	return result, nil
}

// Delete removes a plan by primary key.
func (r *pgPlanRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}

	const q = `DELETE FROM seminar_plans WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": uid})
	if err != nil {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// planArgs maps the document fields of a plan to named query arguments.
// The row slices are pre-encoded so the JSONB parameters never depend on
// driver-side type inference.
func planArgs(plan domain.Plan) (pgx.NamedArgs, error) {
	schedule, attendees, err := encodeRows(plan)
	if err != nil {
		return nil, err
	}
	return pgx.NamedArgs{
		"session":       plan.Session,
		"objective":     plan.Objective,
		"datetime":      plan.DateTime,
		"location":      plan.Location,
		"attendees":     plan.Attendees,
		"time_schedule": string(schedule),
		"attendee_list": string(attendees),
	}, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPlan to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlan maps a single database row into a domain.Plan.
func scanPlan(s scanner) (domain.Plan, error) {
	var (
		p                   domain.Plan
		schedule, attendees []byte
	)

	err := s.Scan(&p.ID, &p.Session, &p.Objective, &p.DateTime, &p.Location, &p.Attendees,
		&schedule, &attendees, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}

	if err := decodeRows(&p, schedule, attendees); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

// mapPgError translates a unique violation into domain.ErrConflict.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: session and datetime already used by another plan", domain.ErrConflict)
	}
	return err
}

// encodeRows serialises the two row tables as JSON arrays. Nil slices are
// written as [] so the stored document always has both arrays.
func encodeRows(plan domain.Plan) (schedule, attendees []byte, err error) {
	plan = plan.Normalize()
	if schedule, err = json.Marshal(plan.TimeSchedule); err != nil {
		return nil, nil, fmt.Errorf("encode time_schedule: %w", err)
	}
	if attendees, err = json.Marshal(plan.AttendeeList); err != nil {
		return nil, nil, fmt.Errorf("encode attendee_list: %w", err)
	}
	return schedule, attendees, nil
}

// decodeRows fills the row tables of p from their stored JSON.
func decodeRows(p *domain.Plan, schedule, attendees []byte) error {
	p.TimeSchedule = []domain.TimeSlot{}
	p.AttendeeList = []domain.Attendee{}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &p.TimeSchedule); err != nil {
			return fmt.Errorf("decode time_schedule: %w", err)
		}
	}
	if len(attendees) > 0 {
		if err := json.Unmarshal(attendees, &p.AttendeeList); err != nil {
			return fmt.Errorf("decode attendee_list: %w", err)
		}
	}
	return nil
}
