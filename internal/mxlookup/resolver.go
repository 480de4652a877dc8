// Package mxlookup implements MX resolution (component C2): a DNS MX query
// that returns exchanger hostnames sorted by priority ascending, with ties
// broken in resolver-return order.
package mxlookup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// ErrDNS signals a transport or other resolver failure distinct from a
// domain simply having no MX records. The caller maps this to the
// dns_error category; a nil, nil result (no records) maps to
// no_mx_records instead.
var ErrDNS = errors.New("mxlookup: dns lookup failed")

// Config configures the resolver.
type Config struct {
	Timeout time.Duration // default 5s
}

func defaultConfig() Config {
	return Config{Timeout: 5 * time.Second}
}

// lookupFunc is the injectable seam for testing.
type lookupFunc func(ctx context.Context, domain string) ([]*net.MX, error)

// Resolver performs MX lookups for the verifier (C4).
type Resolver struct {
	cfg    Config
	lookup lookupFunc
}

// New creates a Resolver using the system DNS resolver.
func New(cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg = defaultConfig()
	}
	r := &net.Resolver{}
	return &Resolver{cfg: cfg, lookup: r.LookupMX}
}

// NewWithLookup is a test-oriented constructor that overrides the MX
// lookup function entirely.
func NewWithLookup(cfg Config, fn func(ctx context.Context, domain string) ([]*net.MX, error)) *Resolver {
	if cfg.Timeout <= 0 {
		cfg = defaultConfig()
	}
	return &Resolver{cfg: cfg, lookup: fn}
}

// Lookup resolves domain's MX hosts, priority ascending. A domain with no
// records (including NXDOMAIN) returns (nil, nil) — the caller maps that to
// no_mx_records. Any other resolver failure returns (nil, ErrDNS-wrapped
// error) for the caller to map to dns_error.
func (r *Resolver) Lookup(ctx context.Context, domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	records, err := r.lookup(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrDNS, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Pref < records[j].Pref
	})

	hosts := make([]string, len(records))
	for i, rec := range records {
		hosts[i] = strings.TrimSuffix(rec.Host, ".")
	}
	return hosts, nil
}
