// Package verify composes the format, MX lookup and SMTP probe checkers
// into one address verdict (component C4).
package verify

import (
	"context"
	"time"

	"github.com/mailforge/verifymail/internal/domaincheck"
	"github.com/mailforge/verifymail/internal/format"
	"github.com/mailforge/verifymail/internal/mxlookup"
	"github.com/mailforge/verifymail/internal/smtpprobe"
	"github.com/mailforge/verifymail/types"
)

// Config configures a Verifier.
type Config struct {
	// HeloHost and MailFrom are forwarded to the SMTP prober.
	HeloHost string
	MailFrom string
	// DNSTimeout bounds the MX lookup. Default 5s.
	DNSTimeout time.Duration
	// SMTPTimeout bounds each SMTP probe's whole conversation. Default 15s.
	SMTPTimeout time.Duration
	// StopOnNotExisting, when true, short-circuits MX fallback the moment
	// one host answers not_existing instead of trying the next MX host.
	// Default false: a not_existing from one host does not preclude a
	// different host answering differently, so by default every
	// remaining host is still tried.
	StopOnNotExisting bool
	// Dial overrides the SMTP prober's connection seam; nil uses a real
	// net.Dialer.
	Dial smtpprobe.DialFunc
	// Resolve overrides the MX lookup function entirely; nil uses the
	// system DNS resolver.
	Resolve func(ctx context.Context, domain string) ([]string, error)
	// Logger receives the prober's Debug events (state-machine timeouts,
	// connection errors). Nil discards everything.
	Logger smtpprobe.Logger
}

// Verifier evaluates single addresses (C4), driven either directly or by
// the batch scheduler (C5).
type Verifier struct {
	cfg      Config
	resolver *mxlookup.Resolver
	prober   *smtpprobe.Prober
}

// New creates a Verifier.
func New(cfg Config) *Verifier {
	if cfg.DNSTimeout <= 0 {
		cfg.DNSTimeout = 5 * time.Second
	}
	if cfg.SMTPTimeout <= 0 {
		cfg.SMTPTimeout = 15 * time.Second
	}

	v := &Verifier{cfg: cfg}
	v.resolver = mxlookup.New(mxlookup.Config{Timeout: cfg.DNSTimeout})
	v.prober = smtpprobe.New(smtpprobe.Config{
		HeloHost: cfg.HeloHost,
		MailFrom: cfg.MailFrom,
		Timeout:  cfg.SMTPTimeout,
		Dial:     cfg.Dial,
		Logger:   cfg.Logger,
	})
	return v
}

// Verify classifies one address end to end.
func (v *Verifier) Verify(ctx context.Context, address string) types.Verdict {
	probeAddr := address
	if !format.Accepts(probeAddr) {
		// The format screen is deliberately ASCII-only; give an
		// internationalized domain one chance to become ASCII via IDNA
		// before rejecting it outright.
		if normalized, ok := format.TryASCII(address); ok && format.Accepts(normalized) {
			probeAddr = normalized
		}
	}
	if !format.Accepts(probeAddr) {
		return types.Verdict{
			Address:  address,
			IsValid:  false,
			Category: types.CategoryInvalidFormat,
			Message:  "address does not match the accepted format",
		}
	}

	_, domain := format.Split(probeAddr)
	signals := domaincheck.Inspect(domain, domaincheck.DefaultTypoThreshold)

	hosts, err := v.lookupMX(ctx, domain)
	if err != nil {
		return types.Verdict{
			Address:  address,
			IsValid:  false,
			Category: types.CategoryDNSError,
			Message:  err.Error(),
			Details:  detailsFromSignals(signals),
		}
	}
	if len(hosts) == 0 {
		return types.Verdict{
			Address:  address,
			IsValid:  false,
			Category: types.CategoryNoMXRecords,
			Message:  "domain has no MX records",
			Details:  detailsFromSignals(signals),
		}
	}

	details := detailsFromSignals(signals)
	details.MXRecords = hosts

	var last smtpprobe.Result
	var lastHost string
	attempted := false

	for _, host := range hosts {
		res := v.prober.Probe(ctx, host, probeAddr)
		attempted = true
		last, lastHost = res, host

		if res.Category == types.CategoryValid {
			break
		}
		if res.Category == types.CategoryNotExisting && v.cfg.StopOnNotExisting {
			break
		}
		// Otherwise keep trying the remaining MX hosts in priority order;
		// one host's failure does not speak for the others.
	}

	if !attempted {
		last = smtpprobe.Result{Category: types.CategorySMTPTimeout, Message: "all SMTP servers unreachable"}
	}

	details.SMTPServer = lastHost
	return types.Verdict{
		Address:  address,
		IsValid:  last.Category == types.CategoryValid,
		Category: last.Category,
		Message:  last.Message,
		Details:  details,
	}
}

func (v *Verifier) lookupMX(ctx context.Context, domain string) ([]string, error) {
	if v.cfg.Resolve != nil {
		return v.cfg.Resolve(ctx, domain)
	}
	return v.resolver.Lookup(ctx, domain)
}

// Resolve runs this Verifier's own configured MX lookup. It exists so a
// caller can wrap it in a lookup cache scoped to its own lifetime (for
// instance, one batch) without reaching past this package's boundary.
func (v *Verifier) Resolve(ctx context.Context, domain string) ([]string, error) {
	return v.lookupMX(ctx, domain)
}

// WithResolve returns a shallow copy of v that uses resolve in place of its
// configured MX lookup. The prober and base resolver are shared; only the
// lookup seam differs. Used to scope a caching resolver to a single batch
// (see Validator.VerifyBatch) rather than sharing it across calls.
func (v *Verifier) WithResolve(resolve func(ctx context.Context, domain string) ([]string, error)) *Verifier {
	clone := *v
	clone.cfg.Resolve = resolve
	return &clone
}

func detailsFromSignals(s domaincheck.Signals) types.Details {
	return types.Details{
		Disposable:     s.Disposable,
		TypoSuggestion: s.TypoSuggestion,
	}
}
