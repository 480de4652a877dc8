package domaincheck

import (
	_ "embed"
	"strings"
)

//go:embed list.txt
var rawDisposableList string

var disposableSet = buildDisposableSet(rawDisposableList)

func buildDisposableSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			set[strings.ToLower(line)] = struct{}{}
		}
	}
	return set
}

// isDisposable reports whether domain is a known temporary-inbox provider.
func isDisposable(domain string) bool {
	_, ok := disposableSet[strings.ToLower(domain)]
	return ok
}
