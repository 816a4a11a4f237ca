package lookup

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/nvale/rr-cache/internal/dns/domain"
)

func mustQuestion(t *testing.T, name string, rrtype domain.RRType) domain.Question {
	t.Helper()
	q, err := domain.NewQuestion(1, name, rrtype, domain.RRClassIN)
	if err != nil {
		t.Fatalf("failed to build question: %v", err)
	}
	return q
}

func aRecord(t *testing.T, name string, ttl uint32) domain.ResourceRecord {
	t.Helper()
	rr, err := domain.NewResourceRecord(name, domain.RRTypeA, domain.RRClassIN, ttl, []byte{127, 0, 0, 1})
	if err != nil {
		t.Fatalf("failed to build record: %v", err)
	}
	return rr
}

func soaRecord(t *testing.T, name string, minimum uint32) domain.ResourceRecord {
	t.Helper()
	data := []byte{0, 0}
	for _, v := range []uint32{1, 7200, 3600, 1209600, minimum} {
		data = binary.BigEndian.AppendUint32(data, v)
	}
	rr, err := domain.NewResourceRecord(name, domain.RRTypeSOA, domain.RRClassIN, 3600, data)
	if err != nil {
		t.Fatalf("failed to build SOA record: %v", err)
	}
	return rr
}

func TestClassify_PositiveKeepsPerRecordTTLs(t *testing.T) {
	q := mustQuestion(t, "www.example.com", domain.RRTypeA)
	resp := domain.DNSResponse{
		RCode:   domain.NOERROR,
		Answers: []domain.ResourceRecord{aRecord(t, "www.example.com", 60), aRecord(t, "www.example.com", 120)},
	}

	got, err := classify(q, resp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.kind != classExists {
		t.Fatalf("expected classExists, got %v", got.kind)
	}
	if len(got.answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(got.answers))
	}
	if got.answers[0].TTL != 60 || got.answers[1].TTL != 120 {
		t.Errorf("per-record TTLs not preserved: %d, %d", got.answers[0].TTL, got.answers[1].TTL)
	}
}

func TestClassify_FiltersMismatchedTypes(t *testing.T) {
	q := mustQuestion(t, "www.example.com", domain.RRTypeAAAA)
	// the answer section carries only A records, so AAAA gets NoData
	resp := domain.DNSResponse{
		RCode:     domain.NOERROR,
		Answers:   []domain.ResourceRecord{aRecord(t, "www.example.com", 60)},
		Authority: []domain.ResourceRecord{soaRecord(t, "example.com", 300)},
	}

	got, err := classify(q, resp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.kind != classNoData {
		t.Fatal("expected NoData when no record matches the requested type")
	}
	if got.negativeTTL == nil || *got.negativeTTL != 300 {
		t.Errorf("expected negative TTL 300 from SOA minimum, got %v", got.negativeTTL)
	}
}

func TestClassify_NoDataWithoutSOA(t *testing.T) {
	q := mustQuestion(t, "www.example.com", domain.RRTypeA)
	resp := domain.DNSResponse{RCode: domain.NOERROR}

	got, err := classify(q, resp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.kind != classNoData || got.negativeTTL != nil {
		t.Error("expected non-cacheable NoData when authority has no SOA")
	}
}

func TestClassify_NXDomainUsesSOAMinimum(t *testing.T) {
	q := mustQuestion(t, "gone.example.com", domain.RRTypeA)
	resp := domain.DNSResponse{
		RCode:     domain.NXDOMAIN,
		Authority: []domain.ResourceRecord{soaRecord(t, "example.com", 600)},
	}

	got, err := classify(q, resp, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.kind != classNoData {
		t.Fatal("expected NoData for NXDOMAIN")
	}
	if got.negativeTTL == nil || *got.negativeTTL != 600 {
		t.Errorf("expected negative TTL 600, got %v", got.negativeTTL)
	}
}

func TestClassify_DNSSECSuppressesNXDomainCaching(t *testing.T) {
	q := mustQuestion(t, "gone.example.com", domain.RRTypeA)
	resp := domain.DNSResponse{
		RCode:     domain.NXDOMAIN,
		Authority: []domain.ResourceRecord{soaRecord(t, "example.com", 600)},
	}

	got, err := classify(q, resp, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.negativeTTL != nil {
		t.Error("validating client must not receive a negative TTL for unverified NXDOMAIN")
	}
}

func TestClassify_DNSSECAllowsVerifiedNoData(t *testing.T) {
	q := mustQuestion(t, "www.example.com", domain.RRTypeAAAA)
	// NoData under a validating client passed verification upstream, so the
	// SOA minimum is honored
	resp := domain.DNSResponse{
		RCode:     domain.NOERROR,
		Authority: []domain.ResourceRecord{soaRecord(t, "example.com", 300)},
	}

	got, err := classify(q, resp, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.negativeTTL == nil || *got.negativeTTL != 300 {
		t.Errorf("expected negative TTL 300 for verified NoData, got %v", got.negativeTTL)
	}
}

func TestClassify_ErrorStatus(t *testing.T) {
	q := mustQuestion(t, "www.example.com", domain.RRTypeA)
	for _, rcode := range []domain.RCode{domain.SERVFAIL, domain.REFUSED, domain.FORMERR} {
		resp := domain.DNSResponse{RCode: rcode}
		_, err := classify(q, resp, false)
		if !errors.Is(err, ErrUpstreamStatus) {
			t.Errorf("rcode %s: expected ErrUpstreamStatus, got %v", rcode, err)
		}
	}
}
