// Package lookupcache provides the bounded, TTL-aware LRU store for lookup
// results and the mutex-guarded handle shared by every in-flight lookup.
package lookupcache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/nvale/rr-cache/internal/dns/domain"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

// MaxTTL is the largest TTL a record may carry, per RFC 2181 §8.
// The minimum-TTL fold over an answer set starts from this ceiling.
const MaxTTL uint32 = 2147483647

// lruValue is one cache entry: a positive lookup result or, when result is
// nil, a cached non-existence marker. The entry is valid while now <= ttlUntil.
type lruValue struct {
	result   *domain.Lookup // nil marks a negative (NXDOMAIN/NoData) entry
	ttlUntil time.Time
}

// isCurrent reports whether the entry is still valid at the given instant.
func (v lruValue) isCurrent(now time.Time) bool {
	return !now.After(v.ttlUntil)
}

// store is the capacity-bounded LRU map from cache key to entry. It is a
// pure data structure with no locking of its own; Shared serializes access.
type store struct {
	lru *lru.Cache[string, lruValue]
}

// newStore returns a store bounded to size entries.
func newStore(size int) (*store, error) {
	c, err := lru.New[string, lruValue](size)
	if err != nil {
		return nil, err
	}
	return &store{lru: c}, nil
}

// insert collapses the answers' individual TTLs to their minimum, stores a
// positive entry expiring at now + that minimum, and returns the built
// result. Inserting at capacity evicts the least-recently-used entry.
func (s *store) insert(q domain.Question, answers []domain.ResourceRecord, now time.Time) domain.Lookup {
	minTTL := MaxTTL
	for _, rr := range answers {
		if rr.TTL < minTTL {
			minTTL = rr.TTL
		}
	}

	result := domain.NewLookup(answers)
	s.lru.Add(q.CacheKey(), lruValue{
		result:   &result,
		ttlUntil: now.Add(time.Duration(minTTL) * time.Second),
	})
	return result
}

// insertNegative stores a non-existence marker expiring at now + negativeTTL
// seconds and returns the name-does-not-exist error for the caller to
// propagate.
func (s *store) insertNegative(q domain.Question, negativeTTL uint32, now time.Time) error {
	s.lru.Add(q.CacheKey(), lruValue{
		ttlUntil: now.Add(time.Duration(negativeTTL) * time.Second),
	})
	return lookup.NameError(q)
}

// get looks the question up, touching its LRU position. A present, current
// entry returns (value, true) where a nil value marks a cached negative.
// An expired entry is removed eagerly and reported as absent; expiry is only
// ever checked here, there is no background sweeper.
func (s *store) get(q domain.Question, now time.Time) (*domain.Lookup, bool) {
	key := q.CacheKey()
	value, found := s.lru.Get(key)
	if !found {
		return nil, false
	}
	if !value.isCurrent(now) {
		s.lru.Remove(key)
		return nil, false
	}
	return value.result, true
}

// len returns the number of entries currently stored.
func (s *store) len() int {
	return s.lru.Len()
}
