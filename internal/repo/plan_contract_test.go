package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/seminar-planner/internal/domain"
	"github.com/pkordes/seminar-planner/internal/repo"
)

// planFixture returns a fully populated plan. Callers override fields after.
func planFixture() domain.Plan {
	return domain.Plan{
		Session:   "제1회",
		Objective: "분기 기술 공유",
		DateTime:  "2024-03-15T14:00",
		Location:  "본사 대회의실",
		Attendees: "개발팀 전원",
		TimeSchedule: []domain.TimeSlot{
			{Type: "발표", Content: "아키텍처 개요", Time: "14:00-14:30", Responsible: "김철수"},
			{Type: "토의", Content: "Q&A", Time: "14:30-15:00", Responsible: "이영희"},
		},
		AttendeeList: []domain.Attendee{
			{Name: "김철수", Position: "과장", Department: "SI사업본부", Work: "발표"},
		},
	}
}

// runPlanRepoContract exercises the behaviour every PlanRepo backend must
// share. newRepo must return an empty, isolated store for each call.
func runPlanRepoContract(t *testing.T, newRepo func(t *testing.T) repo.PlanRepo) {
	t.Run("Create", func(t *testing.T) {
		r := newRepo(t)
		input := planFixture()

		got, err := r.Create(context.Background(), input)

		require.NoError(t, err)
		assert.NotEmpty(t, got.ID, "id should be store-generated")
		assert.Equal(t, input.Session, got.Session)
		assert.Equal(t, input.Objective, got.Objective)
		assert.Equal(t, input.DateTime, got.DateTime)
		assert.Equal(t, input.Location, got.Location)
		assert.Equal(t, input.Attendees, got.Attendees)
		assert.Equal(t, input.TimeSchedule, got.TimeSchedule)
		assert.Equal(t, input.AttendeeList, got.AttendeeList)
		assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set")
		assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set")
	})

	t.Run("Create_EmptyRowsRoundTripAsEmptySlices", func(t *testing.T) {
		r := newRepo(t)
		input := planFixture()
		input.TimeSchedule = nil
		input.AttendeeList = nil

		created, err := r.Create(context.Background(), input)
		require.NoError(t, err)

		got, err := r.GetByID(context.Background(), created.ID)
		require.NoError(t, err)
		assert.NotNil(t, got.TimeSchedule)
		assert.Empty(t, got.TimeSchedule)
		assert.NotNil(t, got.AttendeeList)
		assert.Empty(t, got.AttendeeList)
	})

	t.Run("GetByID", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		created, err := r.Create(ctx, planFixture())
		require.NoError(t, err)

		got, err := r.GetByID(ctx, created.ID)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.TimeSchedule, got.TimeSchedule)
		assert.Equal(t, created.AttendeeList, got.AttendeeList)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		r := newRepo(t)

		_, err := r.GetByID(context.Background(), "does-not-exist")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("List_NewestFirst", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()

		first := planFixture()
		second := planFixture()
		second.DateTime = "2024-04-15T14:00"
		a, err := r.Create(ctx, first)
		require.NoError(t, err)
		b, err := r.Create(ctx, second)
		require.NoError(t, err)

		got, err := r.List(ctx)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, b.ID, got[0].ID)
		assert.Equal(t, a.ID, got[1].ID)
	})

	t.Run("List_Empty", func(t *testing.T) {
		r := newRepo(t)

		got, err := r.List(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Update", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		created, err := r.Create(ctx, planFixture())
		require.NoError(t, err)

		created.Objective = "변경된 목적"
		created.AttendeeList = append(created.AttendeeList, domain.Attendee{Name: "박민수"})
		got, err := r.Update(ctx, created)

		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "변경된 목적", got.Objective)
		assert.Len(t, got.AttendeeList, 2)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})

	t.Run("Update_NotFound", func(t *testing.T) {
		r := newRepo(t)
		p := planFixture()
		p.ID = "does-not-exist"

		_, err := r.Update(context.Background(), p)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		created, err := r.Create(ctx, planFixture())
		require.NoError(t, err)

		require.NoError(t, r.Delete(ctx, created.ID))

		_, err = r.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete_NotFound", func(t *testing.T) {
		r := newRepo(t)

		err := r.Delete(context.Background(), "does-not-exist")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Create_AllowsManyKeylessPlans", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		keyless := planFixture()
		keyless.Session = ""
		keyless.DateTime = ""

		_, err := r.Create(ctx, keyless)
		require.NoError(t, err)
		_, err = r.Create(ctx, keyless)
		require.NoError(t, err)

		got, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	// Conflict checks run last in their own store: a failed statement aborts
	// the enclosing Postgres transaction.
	t.Run("Create_DuplicateKeyConflicts", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		_, err := r.Create(ctx, planFixture())
		require.NoError(t, err)

		_, err = r.Create(ctx, planFixture())

		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Update_KeyCollisionConflicts", func(t *testing.T) {
		r := newRepo(t)
		ctx := context.Background()
		_, err := r.Create(ctx, planFixture())
		require.NoError(t, err)
		other := planFixture()
		other.DateTime = "2024-05-01T10:00"
		created, err := r.Create(ctx, other)
		require.NoError(t, err)

		created.DateTime = planFixture().DateTime
		_, err = r.Update(ctx, created)

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
