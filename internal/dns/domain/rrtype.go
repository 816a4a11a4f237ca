package domain

import "fmt"

// RRType represents a DNS resource record type (e.g. A, AAAA, MX).
// See IANA DNS Parameters for assigned codes.
type RRType uint16

// DNS Resource Record Type constants
const (
	RRTypeA      RRType = 1   // A - IPv4 address
	RRTypeNS     RRType = 2   // NS - Name server
	RRTypeCNAME  RRType = 5   // CNAME - Canonical name
	RRTypeSOA    RRType = 6   // SOA - Start of authority
	RRTypePTR    RRType = 12  // PTR - Pointer
	RRTypeMX     RRType = 15  // MX - Mail exchange
	RRTypeTXT    RRType = 16  // TXT - Text
	RRTypeAAAA   RRType = 28  // AAAA - IPv6 address
	RRTypeSRV    RRType = 33  // SRV - Service
	RRTypeNAPTR  RRType = 35  // NAPTR - Naming authority pointer
	RRTypeOPT    RRType = 41  // OPT - EDNS option
	RRTypeDS     RRType = 43  // DS - Delegation signer
	RRTypeRRSIG  RRType = 46  // RRSIG - Resource record signature
	RRTypeNSEC   RRType = 47  // NSEC - Next secure
	RRTypeDNSKEY RRType = 48  // DNSKEY - DNS key
	RRTypeTLSA   RRType = 52  // TLSA - TLS association
	RRTypeSVCB   RRType = 64  // SVCB - Service binding
	RRTypeHTTPS  RRType = 65  // HTTPS - HTTPS binding
	RRTypeANY    RRType = 255 // ANY - Any type (query only)
	RRTypeCAA    RRType = 257 // CAA - Certificate authority authorization
)

// rrTypeNames maps each supported RRType to its textual mnemonic.
var rrTypeNames = map[RRType]string{
	RRTypeA:      "A",
	RRTypeNS:     "NS",
	RRTypeCNAME:  "CNAME",
	RRTypeSOA:    "SOA",
	RRTypePTR:    "PTR",
	RRTypeMX:     "MX",
	RRTypeTXT:    "TXT",
	RRTypeAAAA:   "AAAA",
	RRTypeSRV:    "SRV",
	RRTypeNAPTR:  "NAPTR",
	RRTypeOPT:    "OPT",
	RRTypeDS:     "DS",
	RRTypeRRSIG:  "RRSIG",
	RRTypeNSEC:   "NSEC",
	RRTypeDNSKEY: "DNSKEY",
	RRTypeTLSA:   "TLSA",
	RRTypeSVCB:   "SVCB",
	RRTypeHTTPS:  "HTTPS",
	RRTypeANY:    "ANY",
	RRTypeCAA:    "CAA",
}

// IsValid returns true if the RRType is one of the supported types.
func (t RRType) IsValid() bool {
	_, ok := rrTypeNames[t]
	return ok
}

// String returns the textual representation of the RRType.
// For unknown types, it returns "TYPE<value>" per RFC 3597.
func (t RRType) String() string {
	if s, ok := rrTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TYPE%d", uint16(t))
}

// RRTypeFromString converts a record type mnemonic to its RRType value.
// Unknown mnemonics return 0.
func RRTypeFromString(s string) RRType {
	for t, name := range rrTypeNames {
		if name == s {
			return t
		}
	}
	return 0
}
