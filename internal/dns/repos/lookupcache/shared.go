package lookupcache

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/nvale/rr-cache/internal/dns/domain"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

// Shared wraps the store behind a mutual-exclusion lock so one cache can be
// borrowed by every in-flight lookup. The lock is acquired non-blockingly:
// on contention the goroutine yields and retries rather than parking, and it
// re-checks its context between attempts so an abandoned lookup stops
// competing for the lock. The lock is held only for the duration of a single
// read-or-write operation and never across an upstream query.
//
// Each critical section performs exactly one LRU map operation, so an
// aborted lookup cannot leave the store half-mutated.
type Shared struct {
	mu    sync.Mutex
	store *store
}

// NewShared returns a Shared cache bounded to size entries.
func NewShared(size int) (*Shared, error) {
	s, err := newStore(size)
	if err != nil {
		return nil, err
	}
	return &Shared{store: s}, nil
}

// acquire takes the lock, yielding the processor between failed attempts.
// It returns the context's error if the lookup is cancelled while waiting.
// No fairness is guaranteed beyond the retry loop's cooperative yield.
func (s *Shared) acquire(ctx context.Context) error {
	for !s.mu.TryLock() {
		if err := ctx.Err(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	return nil
}

// Get returns the cached value for the question if present and current.
// found is false on absence or expiry; negative is true when the entry is a
// cached non-existence marker. The read touches the entry's LRU position.
func (s *Shared) Get(ctx context.Context, q domain.Question, now time.Time) (result domain.Lookup, negative bool, found bool, err error) {
	if err := s.acquire(ctx); err != nil {
		return domain.Lookup{}, false, false, err
	}
	defer s.mu.Unlock()

	value, found := s.store.get(q, now)
	if !found {
		return domain.Lookup{}, false, false, nil
	}
	if value == nil {
		return domain.Lookup{}, true, true, nil
	}
	return *value, false, true, nil
}

// Insert stores a positive answer set for the question, expiring after the
// smallest TTL among its records, and returns the stored result.
func (s *Shared) Insert(ctx context.Context, q domain.Question, answers []domain.ResourceRecord, now time.Time) (domain.Lookup, error) {
	if err := s.acquire(ctx); err != nil {
		return domain.Lookup{}, err
	}
	defer s.mu.Unlock()

	return s.store.insert(q, answers, now), nil
}

// InsertNegative stores a non-existence marker for the question and returns
// the name-does-not-exist error to propagate.
func (s *Shared) InsertNegative(ctx context.Context, q domain.Question, negativeTTL uint32, now time.Time) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.mu.Unlock()

	return s.store.insertNegative(q, negativeTTL, now)
}

// Len returns the number of entries currently cached.
func (s *Shared) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.len()
}

var _ lookup.Cache = (*Shared)(nil)
