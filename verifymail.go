// Package verifymail validates email addresses against an SMTP server
// without sending mail: it screens the address format, resolves the
// domain's MX hosts, and carries out a RCPT TO probe against each host in
// priority order, classifying the result into a fixed set of categories.
//
// Single address:
//
//	v, err := verifymail.New(verifymail.ProbeOptions{
//	    HeloHost: "mail.myapp.com",
//	    MailFrom: "verify@myapp.com",
//	})
//	verdict, err := v.VerifyOne(ctx, "user@example.com")
//
// Batches:
//
//	results, stats, err := v.VerifyBatch(ctx, addresses, nil, nil)
package verifymail

import (
	"context"
	"time"

	"github.com/mailforge/verifymail/internal/verify"
	"github.com/mailforge/verifymail/types"
)

// Verdict, Category and Aggregate are re-exported from the types package so
// that consumers don't need to import it directly.
type (
	Verdict    = types.Verdict
	Category   = types.Category
	Details    = types.Details
	Aggregate  = types.Aggregate
	DomainStat = types.DomainStat
	TopDomain  = types.TopDomain
)

// Category constants re-exported.
const (
	CategoryValid          = types.CategoryValid
	CategoryInvalidFormat  = types.CategoryInvalidFormat
	CategoryNoMXRecords    = types.CategoryNoMXRecords
	CategoryDNSError       = types.CategoryDNSError
	CategoryNotExisting    = types.CategoryNotExisting
	CategoryMailboxError   = types.CategoryMailboxError
	CategoryTemporaryError = types.CategoryTemporaryError
	CategorySMTPError      = types.CategorySMTPError
	CategorySMTPTimeout    = types.CategorySMTPTimeout
	CategoryConnectionErr  = types.CategoryConnectionErr
	CategoryProcessingErr  = types.CategoryProcessingErr
)

// Validator runs the verification pipeline for single addresses and
// batches. Instantiate with New.
type Validator struct {
	opts     ProbeOptions
	batch    BatchOptions
	verifier *verify.Verifier
	log      logger
	metrics  *metricsCollector
}

// New creates a Validator. HeloHost and MailFrom are required: every SMTP
// probe identifies itself with them.
func New(opts ProbeOptions, batchOpts ...BatchOptions) (*Validator, error) {
	if opts.HeloHost == "" || opts.MailFrom == "" {
		return nil, ErrInvalidProbeOptions
	}
	opts = opts.withDefaults()

	bo := defaultBatchOptions()
	if len(batchOpts) > 0 {
		bo = batchOpts[0].withDefaults()
	}

	log := newLogger(opts.Logger)
	v := &Validator{
		opts:  opts,
		batch: bo,
		verifier: verify.New(verify.Config{
			HeloHost:          opts.HeloHost,
			MailFrom:          opts.MailFrom,
			DNSTimeout:        opts.DNSTimeout,
			SMTPTimeout:       opts.SMTPTimeout,
			StopOnNotExisting: bo.StopOnNotExisting,
			Logger:            log,
		}),
		log:     log,
		metrics: newMetricsCollector(),
	}
	return v, nil
}

// Collector exposes the Validator's Prometheus collector so callers can
// register it against their own registry.
func (v *Validator) Collector() *metricsCollector {
	return v.metrics
}

// VerifyOne classifies a single address. The returned error is non-nil
// only if ctx is already done; a verdict with a non-valid Category is not
// itself an error.
func (v *Validator) VerifyOne(ctx context.Context, address string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}
	v.metrics.probeStarted()
	defer v.metrics.probeDone()

	start := time.Now()
	verdict := v.verifier.Verify(ctx, address)
	v.metrics.observe(verdict, time.Since(start))
	v.log.debug("verified address", "address", address, "category", verdict.Category)
	return verdict, nil
}
