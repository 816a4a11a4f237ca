package domain

// Lookup is the immutable result of a successful resolution: an ordered set
// of resource records shared by value between the cache and every caller.
// The backing slice is never mutated after construction, so copies of a
// Lookup may be handed out freely without cloning the records.
//
// A Lookup carries no TTL. How long the result stays valid is decided by the
// cache entry that stores it, not by the result itself.
type Lookup struct {
	records []ResourceRecord
}

// NewLookup builds a Lookup over the given records. The caller must not
// modify the slice after handing it over.
func NewLookup(records []ResourceRecord) Lookup {
	return Lookup{records: records}
}

// Records returns the shared record set in answer order. Callers must treat
// the returned slice as read-only.
func (l Lookup) Records() []ResourceRecord {
	return l.records
}

// Len returns the number of records in the result.
func (l Lookup) Len() int {
	return len(l.records)
}

// IsEmpty reports whether the result holds no records.
func (l Lookup) IsEmpty() bool {
	return len(l.records) == 0
}
