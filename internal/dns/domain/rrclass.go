package domain

import "fmt"

// RRClass represents a DNS class (usually IN for Internet).
type RRClass uint16

// DNS Resource Record Class constants
const (
	RRClassIN   RRClass = 1   // IN - Internet
	RRClassCH   RRClass = 3   // CH - Chaos
	RRClassHS   RRClass = 4   // HS - Hesiod
	RRClassNONE RRClass = 254 // NONE - No class
	RRClassANY  RRClass = 255 // ANY - Any class (query only)
)

// rrClassNames maps each supported RRClass to its textual mnemonic.
var rrClassNames = map[RRClass]string{
	RRClassIN:   "IN",
	RRClassCH:   "CH",
	RRClassHS:   "HS",
	RRClassNONE: "NONE",
	RRClassANY:  "ANY",
}

// IsValid returns true if the RRClass is one of the supported classes.
func (c RRClass) IsValid() bool {
	_, ok := rrClassNames[c]
	return ok
}

// String returns the textual representation of the RRClass.
// For unknown classes, it returns "CLASS<value>" per RFC 3597.
func (c RRClass) String() string {
	if s, ok := rrClassNames[c]; ok {
		return s
	}
	return fmt.Sprintf("CLASS%d", uint16(c))
}

// RRClassFromString converts a class mnemonic to its RRClass value.
// Unknown mnemonics return 0.
func RRClassFromString(s string) RRClass {
	for c, name := range rrClassNames {
		if name == s {
			return c
		}
	}
	return 0
}
