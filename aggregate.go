package verifymail

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mailforge/verifymail/internal/format"
	"github.com/mailforge/verifymail/types"
)

// aggregator folds verdicts into running statistics (component C6). It is
// safe for concurrent use by the batch scheduler's worker groups.
type aggregator struct {
	mu         sync.Mutex
	total      int
	valid      int
	invalid    int
	categories map[types.Category]int
	domains    map[string]types.DomainStat
	domainSeq  []string // first-seen order, for stable top-10 tie-breaking
}

func newAggregator() *aggregator {
	cats := make(map[types.Category]int, len(types.AllCategories))
	for _, c := range types.AllCategories {
		cats[c] = 0
	}
	return &aggregator{
		categories: cats,
		domains:    make(map[string]types.DomainStat),
	}
}

// add folds one verdict into the running totals.
func (a *aggregator) add(v types.Verdict) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if v.IsValid {
		a.valid++
	} else {
		a.invalid++
	}
	a.categories[v.Category]++

	_, domain := format.Split(v.Address)
	if domain == "" {
		return
	}
	stat, seen := a.domains[domain]
	if !seen {
		a.domainSeq = append(a.domainSeq, domain)
	}
	stat.Total++
	if v.IsValid {
		stat.Valid++
	} else {
		stat.Invalid++
	}
	a.domains[domain] = stat
}

// snapshot returns a self-contained copy of the current statistics,
// including the top-10 domains by volume.
func (a *aggregator) snapshot() types.Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()

	cats := make(map[types.Category]int, len(a.categories))
	for k, v := range a.categories {
		cats[k] = v
	}
	doms := make(map[string]types.DomainStat, len(a.domains))
	for k, v := range a.domains {
		doms[k] = v
	}

	return types.Aggregate{
		Total:      a.total,
		Valid:      a.valid,
		Invalid:    a.invalid,
		Categories: cats,
		Domains:    doms,
		TopDomains: a.topDomainsLocked(),
	}
}

// topDomainsLocked computes the top-10 domains by Total, ties broken by
// first-seen order. Callers must hold a.mu.
func (a *aggregator) topDomainsLocked() []types.TopDomain {
	order := make(map[string]int, len(a.domainSeq))
	for i, d := range a.domainSeq {
		order[d] = i
	}

	domains := make([]string, 0, len(a.domains))
	for d := range a.domains {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		si, sj := a.domains[domains[i]], a.domains[domains[j]]
		if si.Total != sj.Total {
			return si.Total > sj.Total
		}
		return order[domains[i]] < order[domains[j]]
	})

	n := len(domains)
	if n > 10 {
		n = 10
	}

	top := make([]types.TopDomain, 0, n)
	for _, d := range domains[:n] {
		stat := a.domains[d]
		top = append(top, types.TopDomain{
			Domain:       d,
			Total:        stat.Total,
			Valid:        stat.Valid,
			Invalid:      stat.Invalid,
			ValidityRate: validityRate(stat),
		})
	}
	return top
}

func validityRate(stat types.DomainStat) string {
	if stat.Total == 0 {
		return "0.0%"
	}
	rate := float64(stat.Valid) / float64(stat.Total) * 100
	return fmt.Sprintf("%.1f%%", rate)
}
