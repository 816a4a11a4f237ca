package lookup

import (
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// classKind tags a classification result.
type classKind int

const (
	// classExists marks a positive result with at least one matching record.
	classExists classKind = iota
	// classNoData marks a negative result (NXDOMAIN or RFC 2308 NoData).
	classNoData
)

// classified is the outcome of inspecting one upstream response: either a
// positive record set carrying per-record TTLs, or a negative result with an
// optional negative-caching TTL taken from the SOA minimum. It is produced
// once per response and consumed exactly once to populate a cache entry.
type classified struct {
	kind        classKind
	answers     []domain.ResourceRecord
	negativeTTL *uint32 // nil means the negative result is not cacheable
}

// classify inspects an upstream response against the original question.
// NOERROR responses are filtered to the requested type; NXDOMAIN and empty
// NOERROR responses both classify as negative through the SOA-minimum path.
// Any other status is a hard protocol error and is never cached.
func classify(q domain.Question, resp domain.DNSResponse, dnssec bool) (classified, error) {
	switch resp.RCode {
	case domain.NOERROR:
		return classifyNoError(q, resp, dnssec), nil
	case domain.NXDOMAIN:
		// DNSSEC clients must not cache an unverified NXDOMAIN.
		return classifyNegative(resp, dnssec, false), nil
	default:
		return classified{}, statusError(resp.RCode)
	}
}

// classifyNoError filters the answer section to records of the requested
// type. CNAME chains are not chased at this layer; a chain that never yields
// the requested type classifies as NoData. An empty filtered set falls
// through to negative classification per RFC 2308.
func classifyNoError(q domain.Question, resp domain.DNSResponse, dnssec bool) classified {
	var answers []domain.ResourceRecord
	for _, rr := range resp.Answers {
		if rr.Type == q.Type {
			answers = append(answers, rr)
		}
	}

	if len(answers) > 0 {
		return classified{kind: classExists, answers: answers}
	}
	// An upstream validating client fails the whole request when NSEC
	// verification fails, so a NoData that made it here is safe to cache.
	return classifyNegative(resp, dnssec, true)
}

// classifyNegative produces a NoData classification, deriving the
// negative-caching TTL from the authority section's SOA minimum field when
// the result is trustworthy. validNSEC marks a negative that survived DNSSEC
// validation; without it a validating client gets no negative TTL, which
// keeps unverified negatives out of the cache.
func classifyNegative(resp domain.DNSResponse, dnssec bool, validNSEC bool) classified {
	if !validNSEC && dnssec {
		return classified{kind: classNoData}
	}

	soa, ok := resp.SOA()
	if !ok {
		// No SOA means no negative TTL. The result is surfaced but not
		// cached; inventing a default minimum is deliberately avoided.
		return classified{kind: classNoData}
	}
	minimum, ok := soa.SOAMinimum()
	if !ok {
		return classified{kind: classNoData}
	}
	return classified{kind: classNoData, negativeTTL: &minimum}
}
