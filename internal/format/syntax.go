// Package format implements the syntactic screen for candidate addresses
// (component C1). It is deliberately stricter than RFC 5321: the accepted
// pattern is the system's contract, not an approximation of the full
// standard, and must be preserved exactly by any reimplementation.
package format

import "regexp"

// rule is the accepted address pattern:
//
//	local part: starts with an alphanumeric, then up to 63 of
//	            A-Za-z0-9._%+-
//	domain:     starts with an alphanumeric, then up to 253 of
//	            A-Za-z0-9.-, followed by a dot and an alphabetic
//	            TLD of length >= 2
var rule = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._%+-]{0,63}@[A-Za-z0-9][A-Za-z0-9.-]{0,253}\.[A-Za-z]{2,}$`)

// Accepts reports whether addr matches the format contract.
func Accepts(addr string) bool {
	return rule.MatchString(addr)
}

// Split divides an accepted address into its local and domain parts on the
// final '@'. Callers must only call Split on an address that Accepts
// returned true for; acceptance guarantees exactly one '@'.
func Split(addr string) (local, domain string) {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == '@' {
			return addr[:i], addr[i+1:]
		}
	}
	return addr, ""
}
