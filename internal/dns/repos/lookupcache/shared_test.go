package lookupcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nvale/rr-cache/internal/dns/domain"
	"github.com/nvale/rr-cache/internal/dns/services/lookup"
)

func TestNewShared_InvalidSize(t *testing.T) {
	if _, err := NewShared(-1); err == nil {
		t.Error("expected error for negative capacity")
	}
}

func TestShared_InsertThenGet(t *testing.T) {
	s, err := NewShared(4)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	ctx := context.Background()
	now := time.Now()
	q := testQuestion(t, "www.example.com")

	inserted, err := s.Insert(ctx, q, []domain.ResourceRecord{testRecord(t, "www.example.com", 60, 1)}, now)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	result, negative, found, err := s.Get(ctx, q, now)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || negative {
		t.Fatalf("expected positive hit, got found=%v negative=%v", found, negative)
	}
	if result.Len() != inserted.Len() {
		t.Errorf("expected stored result to round-trip, got %d records", result.Len())
	}
}

func TestShared_NegativeHit(t *testing.T) {
	s, _ := NewShared(4)
	ctx := context.Background()
	now := time.Now()
	q := testQuestion(t, "nope.example.com")

	if err := s.InsertNegative(ctx, q, 60, now); !errors.Is(err, lookup.ErrNameNotExist) {
		t.Fatalf("expected ErrNameNotExist from InsertNegative, got %v", err)
	}

	_, negative, found, err := s.Get(ctx, q, now)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !found || !negative {
		t.Errorf("expected negative hit, got found=%v negative=%v", found, negative)
	}
}

func TestShared_CancelledContext(t *testing.T) {
	s, _ := NewShared(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// hold the lock so acquisition must spin into the cancellation check
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, _, err := s.Get(ctx, testQuestion(t, "www.example.com"), time.Now()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestShared_ConcurrentLookupsStayBounded(t *testing.T) {
	const capacity = 8
	s, _ := NewShared(capacity)
	ctx := context.Background()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("host%d.example.com", i)
			q := testQuestion(t, name)
			for j := 0; j < 50; j++ {
				if _, err := s.Insert(ctx, q, []domain.ResourceRecord{testRecord(t, name, 300, byte(i))}, now); err != nil {
					t.Errorf("insert failed: %v", err)
					return
				}
				if _, _, _, err := s.Get(ctx, q, now); err != nil {
					t.Errorf("get failed: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	if got := s.Len(); got > capacity {
		t.Errorf("cache exceeded its capacity: %d > %d", got, capacity)
	}
}
