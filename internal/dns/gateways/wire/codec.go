package wire

import (
	"github.com/nvale/rr-cache/internal/dns/domain"
)

// DNSCodec translates between domain objects and the RFC 1035 wire format.
// Implementations are stateless and safe for concurrent use.
type DNSCodec interface {
	// EncodeQuery serializes a question into a query message.
	EncodeQuery(q domain.Question) ([]byte, error)

	// DecodeQuery parses a query message into a question.
	DecodeQuery(data []byte) (domain.Question, error)

	// EncodeResponse serializes a response to the given question.
	EncodeResponse(q domain.Question, resp domain.DNSResponse) ([]byte, error)

	// DecodeResponse parses a response message, validating its ID against
	// the originating query. Record TTLs are preserved as received.
	DecodeResponse(data []byte, expectedID uint16) (domain.DNSResponse, error)
}
