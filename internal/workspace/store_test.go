package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// runStoreContract exercises the behaviour every Store must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		d := blankDraft("d1")
		d.Session = "제1회"
		require.NoError(t, s.Create(ctx, d))

		got, err := s.Get(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, "제1회", got.Session)
		assert.Equal(t, 1, got.AttendeeList.Len())
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update applies reducer", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, blankDraft("d1")))

		got, err := s.Update(ctx, "d1", func(d *Draft) error {
			_, err := d.ApplyRowInsert(TableAttendees)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got.AttendeeList.Len())

		stored, err := s.Get(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, got.AttendeeList, stored.AttendeeList)
	})

	t.Run("failed reducer writes nothing", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, blankDraft("d1")))

		boom := errors.New("boom")
		_, err := s.Update(ctx, "d1", func(d *Draft) error {
			d.Session = "changed"
			return boom
		})
		assert.ErrorIs(t, err, boom)

		stored, err := s.Get(ctx, "d1")
		require.NoError(t, err)
		assert.Empty(t, stored.Session)
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(ctx, "nope", func(*Draft) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("concurrent inserts are not lost", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, blankDraft("d1")))

		const n = 8
		var wg sync.WaitGroup
		for range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Update(ctx, "d1", func(d *Draft) error {
					_, err := d.ApplyRowInsert(TableTimeSchedule)
					return err
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		stored, err := s.Get(ctx, "d1")
		require.NoError(t, err)
		assert.Equal(t, n+1, stored.TimeSchedule.Len())
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, blankDraft("d1")))
		require.NoError(t, s.Delete(ctx, "d1"))

		_, err := s.Get(ctx, "d1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "d1"), domain.ErrNotFound)
	})
}

// ---- MemoryStore -----------------------------------------------------------

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, func(*testing.T) Store { return NewMemoryStore(time.Hour) })
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	require.NoError(t, s.Create(ctx, blankDraft("d1")))

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	got.AttendeeList.Rows[0].Value.Name = "mutated"

	again, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Empty(t, again.AttendeeList.Rows[0].Value.Name)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(20 * time.Millisecond)
	require.NoError(t, s.Create(ctx, blankDraft("d1")))

	time.Sleep(40 * time.Millisecond)
	_, err := s.Get(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- RedisStore ------------------------------------------------------------

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, ttl), mr
}

func TestRedisStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, _ := newRedisStore(t, time.Hour)
		return s
	})
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Hour)
	require.NoError(t, s.Create(ctx, blankDraft("d1")))

	assert.True(t, mr.Exists("seminar:draft:d1"))
	assert.Equal(t, time.Hour, mr.TTL("seminar:draft:d1"))
}

func TestRedisStore_UpdateSlidesTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Hour)
	require.NoError(t, s.Create(ctx, blankDraft("d1")))

	mr.FastForward(50 * time.Minute)
	_, err := s.Update(ctx, "d1", func(d *Draft) error { d.Location = "본사"; return nil })
	require.NoError(t, err)
	mr.FastForward(50 * time.Minute)

	got, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "본사", got.Location)
}

func TestRedisStore_Expires(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Minute)
	require.NoError(t, s.Create(ctx, blankDraft("d1")))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, time.Hour)
	require.NoError(t, mr.Set("seminar:draft:bad", "{not json"))

	_, err := s.Get(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}
