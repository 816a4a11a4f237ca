package utils

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// CanonicalDNSName returns a DNS name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dot, so the same name always produces the same cache key.
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	for strings.HasSuffix(name, ".") {
		name = strings.TrimSuffix(name, ".")
	}
	return name
}

// GetApexDomain returns the effective TLD plus one label for a DNS name
// (e.g. "www.example.co.uk" -> "example.co.uk"). Names that do not parse
// against the public suffix list fall back to the canonical name itself.
func GetApexDomain(name string) string {
	name = CanonicalDNSName(name)
	apex, err := publicsuffix.EffectiveTLDPlusOne(name)
	if err != nil {
		return name
	}
	return apex
}
