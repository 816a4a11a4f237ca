package lookup

import (
	"errors"
	"fmt"

	"github.com/nvale/rr-cache/internal/dns/domain"
)

var (
	// ErrNameNotExist is returned when a question resolves definitively to
	// non-existence, either from a cached negative entry or a freshly
	// classified negative response. It is an expected terminal outcome, not
	// a fault.
	ErrNameNotExist = errors.New("name does not exist")

	// ErrUpstreamStatus is returned when an upstream response carries a
	// status other than NOERROR or NXDOMAIN. The offending status is
	// included in the wrapped message.
	ErrUpstreamStatus = errors.New("upstream returned error status")
)

// NameError wraps ErrNameNotExist with the question that failed to resolve.
func NameError(q domain.Question) error {
	return fmt.Errorf("%w: %s", ErrNameNotExist, q)
}

// statusError wraps ErrUpstreamStatus with the unexpected response code.
func statusError(rcode domain.RCode) error {
	return fmt.Errorf("%w: %s", ErrUpstreamStatus, rcode)
}
