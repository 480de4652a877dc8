package verifymail

import "time"

// ProbeOptions configures how this Validator identifies itself to remote
// SMTP servers and how long it is willing to wait.
type ProbeOptions struct {
	// HeloHost is sent in the HELO command. Required, e.g. "mail.myapp.com".
	HeloHost string
	// MailFrom is the envelope sender address sent in MAIL FROM. Required,
	// e.g. "verify@myapp.com".
	MailFrom string
	// DNSTimeout bounds the MX lookup. Default: 5s.
	DNSTimeout time.Duration
	// SMTPTimeout bounds the whole SMTP conversation for one probe,
	// CONNECT through DONE. Default: 15s.
	SMTPTimeout time.Duration
	// Logger receives structured diagnostic events. Default: discards
	// everything, matching this package's library-not-service posture.
	Logger Logger
}

func (o ProbeOptions) withDefaults() ProbeOptions {
	if o.DNSTimeout <= 0 {
		o.DNSTimeout = 5 * time.Second
	}
	if o.SMTPTimeout <= 0 {
		o.SMTPTimeout = 15 * time.Second
	}
	return o
}

// BatchOptions configures VerifyBatch's concurrency and pacing.
type BatchOptions struct {
	// ConcurrentLimit is the size of each concurrent group. Default: 5.
	ConcurrentLimit int
	// RateLimitDelay paces the gap between one group finishing and the
	// next group starting. Default: 200ms.
	RateLimitDelay time.Duration
	// StopOnNotExisting, when true, stops trying further MX hosts for an
	// address as soon as one answers not_existing. Default: false —
	// every remaining MX host is still tried.
	StopOnNotExisting bool
	// StatsInterval is how many verdicts accumulate between onStatsUpdate
	// callbacks. Default: 100.
	StatsInterval int
}

func defaultBatchOptions() BatchOptions {
	return BatchOptions{
		ConcurrentLimit:   5,
		RateLimitDelay:    200 * time.Millisecond,
		StopOnNotExisting: false,
		StatsInterval:     100,
	}
}

func (o BatchOptions) withDefaults() BatchOptions {
	d := defaultBatchOptions()
	if o.ConcurrentLimit <= 0 {
		o.ConcurrentLimit = d.ConcurrentLimit
	}
	if o.RateLimitDelay <= 0 {
		o.RateLimitDelay = d.RateLimitDelay
	}
	if o.StatsInterval <= 0 {
		o.StatsInterval = d.StatsInterval
	}
	return o
}
