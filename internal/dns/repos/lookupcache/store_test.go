package lookupcache

import (
	"errors"
	"testing"
	"time"

	"github.com/nvale/rr-cache/internal/dns/domain"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

func testQuestion(t *testing.T, name string) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(1, name, domain.RRTypeA, domain.RRClassIN)
	if err != nil {
		t.Fatalf("failed to build question: %v", err)
	}
	return q
}

func testRecord(t *testing.T, name string, ttl uint32, last byte) domain.ResourceRecord {
	t.Helper()
	rr, err := domain.NewResourceRecord(name, domain.RRTypeA, domain.RRClassIN, ttl, []byte{127, 0, 0, last})
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	return rr
}

func TestLruValue_IsCurrent(t *testing.T) {
	now := time.Now()
	v := lruValue{ttlUntil: now.Add(5 * time.Second)}

	if !v.isCurrent(now) {
		t.Error("entry should be current at insertion time")
	}
	if !v.isCurrent(now.Add(5 * time.Second)) {
		t.Error("entry should be current exactly at ttl_until")
	}
	if v.isCurrent(now.Add(6 * time.Second)) {
		t.Error("entry should be stale past ttl_until")
	}
}

func TestStore_Insert_ReturnsLookup(t *testing.T) {
	s, err := newStore(1)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	now := time.Now()
	q := testQuestion(t, "www.example.com")

	result := s.insert(q, []domain.ResourceRecord{testRecord(t, "www.example.com", 60, 1)}, now)
	if result.Len() != 1 {
		t.Fatalf("expected 1 record in result, got %d", result.Len())
	}

	got, found := s.get(q, now)
	if !found || got == nil {
		t.Fatal("expected positive entry to be retrievable")
	}
	if got.Len() != 1 {
		t.Errorf("expected 1 cached record, got %d", got.Len())
	}
}

func TestStore_Insert_MinimumTTLWins(t *testing.T) {
	s, _ := newStore(1)
	now := time.Now()
	q := testQuestion(t, "www.example.com")

	s.insert(q, []domain.ResourceRecord{
		testRecord(t, "www.example.com", 1, 1),
		testRecord(t, "www.example.com", 2, 2),
	}, now)

	// still valid at the one second boundary
	if _, found := s.get(q, now.Add(1*time.Second)); !found {
		t.Error("entry should survive until the smallest TTL elapses")
	}
	// the two second record must not extend the entry
	if _, found := s.get(q, now.Add(2*time.Second)); found {
		t.Error("entry should expire with the smallest TTL")
	}
}

func TestStore_Get_ExpiredEntryEvicts(t *testing.T) {
	s, _ := newStore(2)
	now := time.Now()
	q := testQuestion(t, "www.example.com")

	s.insert(q, []domain.ResourceRecord{testRecord(t, "www.example.com", 1, 1)}, now)

	if _, found := s.get(q, now.Add(2*time.Second)); found {
		t.Fatal("expected expired entry to read as absent")
	}
	if s.len() != 0 {
		t.Errorf("expected eager eviction on stale read, size is %d", s.len())
	}
}

func TestStore_Get_Missing(t *testing.T) {
	s, _ := newStore(2)
	if _, found := s.get(testQuestion(t, "missing.example.com"), time.Now()); found {
		t.Error("expected miss for absent key")
	}
}

func TestStore_InsertNegative(t *testing.T) {
	s, _ := newStore(2)
	now := time.Now()
	q := testQuestion(t, "nope.example.com")

	err := s.insertNegative(q, 30, now)
	if !errors.Is(err, lookup.ErrNameNotExist) {
		t.Fatalf("expected ErrNameNotExist, got %v", err)
	}

	value, found := s.get(q, now)
	if !found {
		t.Fatal("expected negative entry to be present")
	}
	if value != nil {
		t.Error("negative entry should carry no lookup result")
	}

	// expires like any other entry
	if _, found := s.get(q, now.Add(31*time.Second)); found {
		t.Error("expected negative entry to expire")
	}
}

func TestStore_CapacityBound(t *testing.T) {
	s, _ := newStore(2)
	now := time.Now()

	names := []string{"a.example.com", "b.example.com", "c.example.com"}
	for i, name := range names {
		s.insert(testQuestion(t, name), []domain.ResourceRecord{testRecord(t, name, 300, byte(i))}, now)
	}

	if s.len() != 2 {
		t.Fatalf("expected capacity bound of 2, got %d entries", s.len())
	}
	// a.example.com was least recently used and must be gone
	if _, found := s.get(testQuestion(t, "a.example.com"), now); found {
		t.Error("expected least-recently-used entry to be evicted")
	}
	if _, found := s.get(testQuestion(t, "c.example.com"), now); !found {
		t.Error("expected most recent entry to survive")
	}
}

func TestStore_MaxTTLCeiling(t *testing.T) {
	s, _ := newStore(1)
	now := time.Now()
	q := testQuestion(t, "www.example.com")

	// a record carrying the protocol ceiling still produces a bounded expiry
	s.insert(q, []domain.ResourceRecord{testRecord(t, "www.example.com", MaxTTL, 1)}, now)
	if _, found := s.get(q, now.Add(1000*time.Hour)); !found {
		t.Error("expected max-TTL entry to be current far in the future")
	}
}
