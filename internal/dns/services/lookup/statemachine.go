package lookup

import (
	"context"

	"github.com/nvale/rr-cache/internal/dns/common/clock"
	"github.com/nvale/rr-cache/internal/dns/common/log"
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// A single lookup walks a fixed sequence of states:
//
//	fromCache -> queryUpstream -> insertCache -> done | failed
//
// with two early exits from fromCache (positive hit -> done, negative hit ->
// failed). Each state owns its payload and advance consumes it to build the
// successor, so no two states' data ever coexist. Terminal states refuse to
// advance; reaching their advance method is a programming defect, not a
// user-facing error.

// lookupEnv carries the per-lookup collaborators: the shared cache handle,
// the upstream client, and ambient clock/logging. It is borrowed by every
// state but owned by none.
type lookupEnv struct {
	cache  Cache
	client UpstreamClient
	clock  clock.Clock
	logger log.Logger
}

// lookupState is one phase of a cache-first resolution.
type lookupState interface {
	// advance consumes the state and produces its successor.
	advance(ctx context.Context, env lookupEnv) lookupState
}

// fromCache is the initial state: consult the shared cache before anything
// touches the network.
type fromCache struct {
	query domain.Question
}

func (s fromCache) advance(ctx context.Context, env lookupEnv) lookupState {
	result, negative, found, err := env.cache.Get(ctx, s.query, env.clock.Now())
	if err != nil {
		return failed{err: err}
	}
	if found {
		if negative {
			// a cached non-existence marker answers the lookup without
			// ever issuing an upstream query
			env.logger.Debug(map[string]any{"question": s.query.String()}, "Negative cache hit")
			return failed{err: NameError(s.query)}
		}
		env.logger.Debug(map[string]any{
			"question": s.query.String(),
			"answers":  result.Len(),
		}, "Cache hit")
		return done{result: result}
	}
	// Miss: hand the question to the query state, recording up front whether
	// the client validates DNSSEC so classification doesn't depend on the
	// client after the response arrives.
	return queryUpstream{query: s.query, dnssec: env.client.IsVerifyingDNSSEC()}
}

// queryUpstream issues the upstream request and classifies its response.
type queryUpstream struct {
	query  domain.Question
	dnssec bool
}

func (s queryUpstream) advance(ctx context.Context, env lookupEnv) lookupState {
	resp, err := env.client.Resolve(ctx, s.query)
	if err != nil {
		// transport errors propagate verbatim
		return failed{err: err}
	}

	records, err := classify(s.query, resp, s.dnssec)
	if err != nil {
		return failed{err: err}
	}
	return insertCache{query: s.query, records: records}
}

// insertCache writes the classified result back to the shared cache and
// yields the terminal outcome.
type insertCache struct {
	query   domain.Question
	records classified
}

func (s insertCache) advance(ctx context.Context, env lookupEnv) lookupState {
	now := env.clock.Now()

	switch {
	case s.records.kind == classExists:
		result, err := env.cache.Insert(ctx, s.query, s.records.answers, now)
		if err != nil {
			return failed{err: err}
		}
		return done{result: result}

	case s.records.negativeTTL != nil:
		// InsertNegative stores the marker and hands back the
		// name-does-not-exist error to propagate.
		return failed{err: env.cache.InsertNegative(ctx, s.query, *s.records.negativeTTL, now)}

	default:
		// negative with no TTL: surfaced but never cached
		return failed{err: NameError(s.query)}
	}
}

// done is the terminal success state.
type done struct {
	result domain.Lookup
}

func (s done) advance(context.Context, lookupEnv) lookupState {
	panic("lookup state machine advanced past completion")
}

// failed is the terminal failure state.
type failed struct {
	err error
}

func (s failed) advance(context.Context, lookupEnv) lookupState {
	panic("lookup state machine advanced past failure")
}

// runLookup drives a fresh state machine for one question to a terminal
// state. Each call is independent; concurrent lookups for the same question
// each drive their own upstream request.
func runLookup(ctx context.Context, env lookupEnv, q domain.Question) (domain.Lookup, error) {
	var state lookupState = fromCache{query: q}
	for {
		switch s := state.(type) {
		case done:
			return s.result, nil
		case failed:
			return domain.Lookup{}, s.err
		}
		state = state.advance(ctx, env)
	}
}
