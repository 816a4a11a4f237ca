package domain

import "encoding/binary"

// soaFixedFieldsLen is the length of the five 32-bit SOA integer fields
// (serial, refresh, retry, expire, minimum) that terminate SOA RDATA.
const soaFixedFieldsLen = 20

// SOAMinimum extracts the minimum field from an SOA record's RDATA.
// The minimum field is conventionally used as the negative-caching TTL
// (RFC 2308 §5).
//
// SOA RDATA is MNAME, RNAME, then five 32-bit integers ending with minimum.
// The leading names may be compressed in a captured response, so their length
// is not knowable from the RDATA alone; the integer block, however, always
// occupies the final 20 bytes, and minimum is the last 4 of those.
func (rr ResourceRecord) SOAMinimum() (uint32, bool) {
	if rr.Type != RRTypeSOA {
		return 0, false
	}
	// two names take at least one byte each, even as root or pointers
	if len(rr.Data) < soaFixedFieldsLen+2 {
		return 0, false
	}
	return binary.BigEndian.Uint32(rr.Data[len(rr.Data)-4:]), true
}
