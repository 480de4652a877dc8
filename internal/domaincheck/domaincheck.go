// Package domaincheck provides local, network-free signals about a
// candidate domain: whether it is a known disposable-inbox provider, and
// whether it looks like a typo of a major provider. Neither signal changes
// a verdict's category — they are advisory evidence attached to Details
// for callers who want to flag likely-junk submissions before spending an
// SMTP round trip on them.
package domaincheck

// DefaultTypoThreshold is the Levenshtein distance at or below which a
// domain is considered a likely typo of a known provider.
const DefaultTypoThreshold = 2

var knownProviders = []string{
	"gmail.com", "googlemail.com",
	"yahoo.com", "yahoo.co.uk", "yahoo.fr", "yahoo.de",
	"outlook.com", "hotmail.com", "hotmail.co.uk", "live.com",
	"icloud.com", "me.com", "mac.com",
	"protonmail.com", "proton.me",
	"aol.com",
	"zoho.com",
	"yandex.com", "yandex.ru",
	"mail.com",
	"gmx.com", "gmx.net", "gmx.de",
	"fastmail.com",
	"tutanota.com",
}

// Signals is the advisory domain evidence for one address.
type Signals struct {
	Disposable     bool
	TypoSuggestion string
}

// Inspect evaluates domain and returns its advisory signals. threshold is
// the maximum Levenshtein distance considered a typo; callers pass
// DefaultTypoThreshold when they have no opinion.
func Inspect(domain string, threshold int) Signals {
	return Signals{
		Disposable:     isDisposable(domain),
		TypoSuggestion: typoSuggestion(domain, threshold),
	}
}

// typoSuggestion returns the closest known provider within threshold edits,
// or "" if domain is an exact match or nothing is close enough.
func typoSuggestion(domain string, threshold int) string {
	bestDist := threshold + 1
	bestMatch := ""

	for _, provider := range knownProviders {
		if domain == provider {
			return ""
		}
		d := distance(domain, provider)
		if d <= threshold && d < bestDist {
			bestDist = d
			bestMatch = provider
		}
	}
	return bestMatch
}
