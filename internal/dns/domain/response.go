package domain

import "fmt"

// DNSResponse represents a complete DNS response with answers, authority, and
// additional sections, per RFC 1035 §4.1.1.
type DNSResponse struct {
	ID         uint16
	RCode      RCode
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// NewDNSResponse constructs a DNSResponse and validates its fields.
func NewDNSResponse(id uint16, rcode RCode, answers, authority, additional []ResourceRecord) (DNSResponse, error) {
	resp := DNSResponse{
		ID:         id,
		RCode:      rcode,
		Answers:    answers,
		Authority:  authority,
		Additional: additional,
	}
	if err := resp.Validate(); err != nil {
		return DNSResponse{}, err
	}
	return resp, nil
}

// NewDNSErrorResponse creates a DNSResponse carrying only a response code,
// with all record sections empty.
func NewDNSErrorResponse(id uint16, rcode RCode) DNSResponse {
	return DNSResponse{ID: id, RCode: rcode}
}

// Validate checks whether the DNSResponse fields are structurally valid.
func (resp DNSResponse) Validate() error {
	if !resp.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", resp.RCode)
	}
	for i, rr := range resp.Answers {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid answer record at index %d: %w", i, err)
		}
	}
	for i, rr := range resp.Authority {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid authority record at index %d: %w", i, err)
		}
	}
	for i, rr := range resp.Additional {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid additional record at index %d: %w", i, err)
		}
	}
	return nil
}

// HasAnswers returns true if the response contains answer records.
func (resp DNSResponse) HasAnswers() bool {
	return len(resp.Answers) > 0
}

// SOA returns the first SOA record from the authority section, if present.
// Negative caching (RFC 2308) derives its TTL from this record's minimum field.
func (resp DNSResponse) SOA() (ResourceRecord, bool) {
	for _, rr := range resp.Authority {
		if rr.Type == RRTypeSOA {
			return rr, true
		}
	}
	return ResourceRecord{}, false
}
