package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// sqliteTimeLayout is fixed-width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

var sqlitePlanColumns = []string{
	"id", "session", "objective", "datetime", "location", "attendees",
	"time_schedule", "attendee_list", "created_at", "updated_at",
}

// sqlitePlanRepo is the local-file implementation of PlanRepo. It stands in
// for browser local storage: one file on the host, no server required.
type sqlitePlanRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLitePlanRepo constructs a PlanRepo over an open SQLite database.
// The schema must already be migrated (see MigrateSQLite).
func NewSQLitePlanRepo(db *sql.DB) PlanRepo {
	return &sqlitePlanRepo{db: db, now: time.Now}
}

// OpenSQLite opens (creating if needed) the SQLite file at path with a busy
// timeout and a single connection, which keeps writers from tripping over
// SQLITE_BUSY.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("repo.OpenSQLite: ping: %w", err)
	}
	return db, nil
}

func (r *sqlitePlanRepo) Create(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	schedule, attendees, err := encodeRows(plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Create: %w", err)
	}

	now := r.now().UTC()
	id := uuid.NewString()
	q, args, err := sq.Insert("seminar_plans").
		Columns(sqlitePlanColumns...).
		Values(id, plan.Session, plan.Objective, plan.DateTime, plan.Location, plan.Attendees,
			string(schedule), string(attendees), now.Format(sqliteTimeLayout), now.Format(sqliteTimeLayout)).
		ToSql()
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Create: build: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Create: %w", mapSQLiteError(err))
	}
	return r.GetByID(ctx, id)
}

func (r *sqlitePlanRepo) GetByID(ctx context.Context, id string) (domain.Plan, error) {
	q, args, err := sq.Select(sqlitePlanColumns...).
		From("seminar_plans").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.GetByID: build: %w", err)
	}

	p, err := scanSQLitePlan(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.GetByID: %w", err)
	}
	return p, nil
}

func (r *sqlitePlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	q, args, err := sq.Select(sqlitePlanColumns...).
		From("seminar_plans").
		OrderBy("created_at DESC", "rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("repo.SQLitePlanRepo.List: build: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("repo.SQLitePlanRepo.List: %w", err)
	}
	defer rows.Close()

	plans := []domain.Plan{}
	for rows.Next() {
		p, err := scanSQLitePlan(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.SQLitePlanRepo.List: scan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.SQLitePlanRepo.List: rows: %w", err)
	}
	return plans, nil
}

func (r *sqlitePlanRepo) Update(ctx context.Context, plan domain.Plan) (domain.Plan, error) {
	schedule, attendees, err := encodeRows(plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Update: %w", err)
	}

	q, args, err := sq.Update("seminar_plans").
		SetMap(map[string]any{
			"session":       plan.Session,
			"objective":     plan.Objective,
			"datetime":      plan.DateTime,
			"location":      plan.Location,
			"attendees":     plan.Attendees,
			"time_schedule": string(schedule),
			"attendee_list": string(attendees),
			"updated_at":    r.now().UTC().Format(sqliteTimeLayout),
		}).
		Where(sq.Eq{"id": plan.ID}).
		ToSql()
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Update: build: %w", err)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Update: %w", mapSQLiteError(err))
	}
	if n, err := res.RowsAffected(); err != nil {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Update: %w", err)
	} else if n == 0 {
		return domain.Plan{}, fmt.Errorf("repo.SQLitePlanRepo.Update: %w", domain.ErrNotFound)
	}
	return r.GetByID(ctx, plan.ID)
}

func (r *sqlitePlanRepo) Delete(ctx context.Context, id string) error {
	q, args, err := sq.Delete("seminar_plans").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("repo.SQLitePlanRepo.Delete: build: %w", err)
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("repo.SQLitePlanRepo.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("repo.SQLitePlanRepo.Delete: %w", err)
	} else if n == 0 {
		return fmt.Errorf("repo.SQLitePlanRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanSQLitePlan maps one row into a domain.Plan, parsing the text timestamps.
func scanSQLitePlan(s scanner) (domain.Plan, error) {
	var (
		p                   domain.Plan
		schedule, attendees string
		created, updated    string
	)
	err := s.Scan(&p.ID, &p.Session, &p.Objective, &p.DateTime, &p.Location, &p.Attendees,
		&schedule, &attendees, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Plan{}, domain.ErrNotFound
		}
		return domain.Plan{}, err
	}

	if p.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
		return domain.Plan{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(sqliteTimeLayout, updated); err != nil {
		return domain.Plan{}, fmt.Errorf("parse updated_at: %w", err)
	}
	if err := decodeRows(&p, []byte(schedule), []byte(attendees)); err != nil {
		return domain.Plan{}, err
	}
	return p, nil
}

// mapSQLiteError translates a unique constraint failure into domain.ErrConflict.
func mapSQLiteError(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return fmt.Errorf("%w: session and datetime already used by another plan", domain.ErrConflict)
	}
	return err
}
