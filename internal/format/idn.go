package format

import (
	"strings"

	"golang.org/x/net/idna"
)

// TryASCII attempts to rewrite an internationalized domain in addr to its
// ASCII/Punycode form via IDNA2008, so that an address with a Unicode
// domain (e.g. "user@münchen.de") can still be screened by Accepts, which
// is deliberately ASCII-only. It reports ok=false when addr has no '@', or
// its domain is already pure ASCII (nothing to convert), or the domain
// fails IDNA validation.
func TryASCII(addr string) (ascii string, ok bool) {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return addr, false
	}
	local, domain := addr[:at], addr[at+1:]

	if isASCII(domain) {
		return addr, false
	}

	converted, err := idna.Lookup.ToASCII(strings.ToLower(domain))
	if err != nil {
		return addr, false
	}
	return local + "@" + converted, true
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
