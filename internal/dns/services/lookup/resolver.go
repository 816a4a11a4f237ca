// Package lookup implements the cache-first resolution core: a bounded
// TTL-aware cache consulted before the upstream client, with upstream
// responses classified into positive record sets, negative (NXDOMAIN or
// NoData) results, or protocol errors and written back to the cache before
// being returned.
package lookup

import (
	"context"
	"errors"

	"github.com/nvale/rr-cache/internal/dns/common/clock"
	"github.com/nvale/rr-cache/internal/dns/common/log"
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// CachingResolver is the public entry point for cache-first lookups. It is
// safe for concurrent use; every Lookup call drives its own independent
// state machine against the shared cache.
type CachingResolver struct {
	cache  Cache
	client UpstreamClient
	clock  clock.Clock
	logger log.Logger
}

// Options configures a CachingResolver. Cache and Client are required;
// Clock and Logger default to the real clock and the global logger.
type Options struct {
	Cache  Cache
	Client UpstreamClient
	Clock  clock.Clock
	Logger log.Logger
}

// New constructs a CachingResolver from the given options.
func New(opts Options) (*CachingResolver, error) {
	if opts.Cache == nil {
		return nil, errors.New("lookup: cache is required")
	}
	if opts.Client == nil {
		return nil, errors.New("lookup: upstream client is required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	return &CachingResolver{
		cache:  opts.Cache,
		client: opts.Client,
		clock:  opts.Clock,
		logger: opts.Logger,
	}, nil
}

// Lookup resolves the question cache-first: a valid cached answer (positive
// or negative) is returned without touching the network; otherwise the
// upstream client is queried, the response classified, and the result cached
// before being returned.
//
// A definitive non-existence answer surfaces as an error wrapping
// ErrNameNotExist. Transport errors from the upstream client are returned
// unchanged.
func (r *CachingResolver) Lookup(ctx context.Context, q domain.Question) (domain.Lookup, error) {
	if err := q.Validate(); err != nil {
		return domain.Lookup{}, err
	}
	env := lookupEnv{
		cache:  r.cache,
		client: r.client,
		clock:  r.clock,
		logger: r.logger,
	}
	return runLookup(ctx, env, q)
}
