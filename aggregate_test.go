package verifymail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailforge/verifymail/types"
)

func verdict(address, category string, valid bool) types.Verdict {
	return types.Verdict{Address: address, Category: category, IsValid: valid}
}

func TestAggregator_SeedsAllCategoriesAtZero(t *testing.T) {
	a := newAggregator()
	snap := a.snapshot()
	assert.Len(t, snap.Categories, len(types.AllCategories))
	for _, c := range types.AllCategories {
		assert.Equal(t, 0, snap.Categories[c])
	}
}

func TestAggregator_TracksTotals(t *testing.T) {
	a := newAggregator()
	a.add(verdict("a@example.com", types.CategoryValid, true))
	a.add(verdict("b@example.com", types.CategoryNotExisting, false))
	a.add(verdict("c@other.com", types.CategoryValid, true))

	snap := a.snapshot()
	assert.Equal(t, 3, snap.Total)
	assert.Equal(t, 2, snap.Valid)
	assert.Equal(t, 1, snap.Invalid)
	assert.Equal(t, 2, snap.Categories[types.CategoryValid])
	assert.Equal(t, 1, snap.Categories[types.CategoryNotExisting])
}

func TestAggregator_PerDomainStats(t *testing.T) {
	a := newAggregator()
	a.add(verdict("a@example.com", types.CategoryValid, true))
	a.add(verdict("b@example.com", types.CategoryNotExisting, false))

	snap := a.snapshot()
	stat := snap.Domains["example.com"]
	assert.Equal(t, 2, stat.Total)
	assert.Equal(t, 1, stat.Valid)
	assert.Equal(t, 1, stat.Invalid)
}

func TestAggregator_TopDomainsOrderedByVolumeThenInsertion(t *testing.T) {
	a := newAggregator()
	a.add(verdict("a@small.com", types.CategoryValid, true))
	a.add(verdict("a@big.com", types.CategoryValid, true))
	a.add(verdict("b@big.com", types.CategoryValid, true))
	a.add(verdict("a@tied1.com", types.CategoryValid, true))
	a.add(verdict("a@tied2.com", types.CategoryValid, true))

	snap := a.snapshot()
	assert.Equal(t, "big.com", snap.TopDomains[0].Domain)
	assert.Equal(t, 2, snap.TopDomains[0].Total)
	assert.Equal(t, "100.0%", snap.TopDomains[0].ValidityRate)

	// small.com was seen before tied1.com/tied2.com and all three have
	// Total==1, so insertion order breaks the tie.
	assert.Equal(t, "small.com", snap.TopDomains[1].Domain)
	assert.Equal(t, "tied1.com", snap.TopDomains[2].Domain)
	assert.Equal(t, "tied2.com", snap.TopDomains[3].Domain)
}

func TestAggregator_CapsTopDomainsAtTen(t *testing.T) {
	a := newAggregator()
	for i := 0; i < 15; i++ {
		a.add(verdict("user@domain", types.CategoryValid, true))
		a.add(verdict(string(rune('a'+i))+"@d"+string(rune('a'+i))+".com", types.CategoryValid, true))
	}
	snap := a.snapshot()
	assert.Len(t, snap.TopDomains, 10)
}

func TestAggregator_IgnoresAddressesWithoutDomain(t *testing.T) {
	a := newAggregator()
	a.add(verdict("not-an-email", types.CategoryInvalidFormat, false))
	snap := a.snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Empty(t, snap.Domains)
}
