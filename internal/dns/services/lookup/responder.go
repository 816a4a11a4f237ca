package lookup

import (
	"context"
	"errors"
	"net"

	"github.com/nvale/rr-cache/internal/dns/common/log"
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// Responder adapts a CachingResolver to the DNSResponder contract used by
// server transports, mapping lookup outcomes onto DNS response codes:
// success -> NOERROR, name-not-exist -> NXDOMAIN, anything else -> SERVFAIL.
type Responder struct {
	resolver *CachingResolver
	logger   log.Logger
}

// NewResponder wraps the resolver for use behind a server transport.
func NewResponder(resolver *CachingResolver, logger log.Logger) *Responder {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Responder{resolver: resolver, logger: logger}
}

// HandleQuery resolves one client question and renders the outcome as a
// DNS response. Errors are folded into the response code; the returned
// error is always nil so the transport still answers the client.
func (h *Responder) HandleQuery(ctx context.Context, q domain.Question, clientAddr net.Addr) (domain.DNSResponse, error) {
	result, err := h.resolver.Lookup(ctx, q)
	if err != nil {
		if errors.Is(err, ErrNameNotExist) {
			return domain.NewDNSErrorResponse(q.ID, domain.NXDOMAIN), nil
		}
		h.logger.Warn(map[string]any{
			"question": q.String(),
			"client":   addrString(clientAddr),
			"error":    err.Error(),
		}, "Lookup failed")
		return domain.NewDNSErrorResponse(q.ID, domain.SERVFAIL), nil
	}

	return domain.DNSResponse{
		ID:      q.ID,
		RCode:   domain.NOERROR,
		Answers: result.Records(),
	}, nil
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

var _ DNSResponder = (*Responder)(nil)
