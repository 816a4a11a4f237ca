package lookup

import (
	"context"
	"net"
	"time"

	"github.com/nvale/rr-cache/internal/dns/domain"
)

// UpstreamClient issues DNS queries against upstream resolvers and reports
// whether its responses are DNSSEC-validated before delivery.
type UpstreamClient interface {
	// Resolve sends the question upstream and returns the raw response
	// message, or a transport-level error.
	Resolve(ctx context.Context, q domain.Question) (domain.DNSResponse, error)

	// IsVerifyingDNSSEC reports whether this client validates responses.
	// Unverified negative answers from a validating client must not be cached.
	IsVerifyingDNSSEC() bool
}

// Cache is the shared, TTL-aware store consulted before and written after an
// upstream query. Implementations serialize access internally; every method
// holds the store's lock only for the duration of that single operation.
//
// Get returns (result, negative, found): found is false when the key is
// absent or its entry has expired; negative is true when the key holds a
// cached non-existence marker, in which case result is empty.
//
// InsertNegative stores a non-existence marker and returns the
// name-does-not-exist error the caller should propagate.
type Cache interface {
	Get(ctx context.Context, q domain.Question, now time.Time) (result domain.Lookup, negative bool, found bool, err error)
	Insert(ctx context.Context, q domain.Question, answers []domain.ResourceRecord, now time.Time) (domain.Lookup, error)
	InsertNegative(ctx context.Context, q domain.Question, negativeTTL uint32, now time.Time) error
}

// DNSResponder handles one decoded DNS question and produces a response.
// The transport handles all network protocol details - the handler only sees
// domain objects.
type DNSResponder interface {
	HandleQuery(ctx context.Context, q domain.Question, clientAddr net.Addr) (domain.DNSResponse, error)
}
