package verifymail

import "errors"

var (
	// ErrInvalidProbeOptions is returned by New when HeloHost or MailFrom
	// is missing.
	ErrInvalidProbeOptions = errors.New("verifymail: ProbeOptions requires HeloHost and MailFrom")

	// ErrEmptyBatch is returned by VerifyBatch when given no addresses.
	ErrEmptyBatch = errors.New("verifymail: batch contains no addresses")

	// ErrBatchTooLarge is returned by VerifyBatch when given more than
	// MaxBatchSize addresses.
	ErrBatchTooLarge = errors.New("verifymail: batch exceeds the maximum size")
)

// MaxBatchSize is the largest batch VerifyBatch accepts in one call.
const MaxBatchSize = 50_000
