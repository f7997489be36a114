package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/pkordes/seminar-planner/internal/domain"
)

// Store persists drafts between requests. Drafts expire after a period of
// inactivity; an expired draft is reported as domain.ErrNotFound.
type Store interface {
	// Create stores a new draft under d.ID.
	Create(ctx context.Context, d Draft) error

	// Get returns a copy of the draft.
	Get(ctx context.Context, id string) (Draft, error)

	// Update applies fn to the draft atomically and returns the result.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(*Draft) error) (Draft, error)

	// Delete removes the draft.
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps drafts in process memory with go-cache. A single mutex
// serialises updates so each reducer sees the previous one's result.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemoryStore returns a store whose drafts expire after ttl without use.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	cleanup := ttl
	if cleanup <= 0 || cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	return &MemoryStore{cache: cache.New(ttl, cleanup)}
}

func (s *MemoryStore) Create(_ context.Context, d Draft) error {
	s.cache.SetDefault(d.ID, d.Clone())
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.get(id)
	if !ok {
		return Draft{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Draft) error) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.get(id)
	if !ok {
		return Draft{}, domain.ErrNotFound
	}
	if err := fn(&d); err != nil {
		return Draft{}, err
	}
	s.cache.SetDefault(id, d.Clone())
	return d, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache.Get(id); !ok {
		return domain.ErrNotFound
	}
	s.cache.Delete(id)
	return nil
}

// get returns a private copy so callers never alias cached rows.
func (s *MemoryStore) get(id string) (Draft, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Draft{}, false
	}
	return v.(Draft).Clone(), true
}
