package verifymail

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mailforge/verifymail/internal/mxlookup"
	"github.com/mailforge/verifymail/internal/verify"
	"github.com/mailforge/verifymail/types"
)

// OnProgress is called once per completed address, with the number of
// addresses completed so far (monotonically increasing) and its verdict.
type OnProgress func(completed, total int, verdict types.Verdict)

// OnStatsUpdate is called with a rolling statistics snapshot every
// BatchOptions.StatsInterval verdicts, plus once more after the final
// verdict.
type OnStatsUpdate func(types.Aggregate)

// VerifyBatch verifies addresses in fixed-size concurrent groups
// (component C5): each group of BatchOptions.ConcurrentLimit addresses
// runs to completion before the next group starts, with a
// BatchOptions.RateLimitDelay pause between groups. This is a deliberate
// barrier, not a continuously-refilled worker pool: a slow address in one
// group cannot let a later group start early, which keeps the SMTP
// concurrency against any single remote host bounded and predictable.
//
// Results preserve input order. onProgress and onStatsUpdate may be nil.
func (v *Validator) VerifyBatch(ctx context.Context, addresses []string, onProgress OnProgress, onStatsUpdate OnStatsUpdate) ([]Verdict, Aggregate, error) {
	if len(addresses) == 0 {
		return nil, Aggregate{}, ErrEmptyBatch
	}
	if len(addresses) > MaxBatchSize {
		return nil, Aggregate{}, ErrBatchTooLarge
	}

	batchID := uuid.NewString()
	v.log.debug("starting batch", "batchId", batchID, "addresses", len(addresses))

	// A single batch commonly repeats domains (a mailing list skewed toward
	// a handful of large providers), so MX lookups are cached for the
	// lifetime of this call only: the cache is built fresh per batch and
	// discarded when VerifyBatch returns, so nothing is ever reused across
	// batches or shared by VerifyOne.
	cache := mxlookup.NewCaching(5*time.Minute, v.verifier.Resolve)
	batchVerifier := v.verifier.WithResolve(cache.Lookup)

	results := make([]types.Verdict, len(addresses))
	agg := newAggregator()

	var completed int
	var mu sync.Mutex

	groupSize := v.batch.ConcurrentLimit
	groupNum := 0
	for start := 0; start < len(addresses); start += groupSize {
		if start > 0 {
			// The pause is measured from the moment the previous group's
			// barrier released. rate.NewLimiter starts with a full bucket, so
			// a fresh limiter has its initial token drained here; Wait then
			// blocks for one full RateLimitDelay.
			limiter := rate.NewLimiter(rate.Every(v.batch.RateLimitDelay), 1)
			limiter.Allow()
			if err := limiter.Wait(ctx); err != nil {
				return results, agg.snapshot(), fmt.Errorf("verifymail: batch %s cancelled: %w", batchID, err)
			}
		}

		end := start + groupSize
		if end > len(addresses) {
			end = len(addresses)
		}
		groupNum++
		v.log.debug("starting group", "batchId", batchID, "group", groupNum, "size", end-start)

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int, address string) {
				defer wg.Done()
				verdict := v.verifyForBatch(ctx, batchVerifier, address)
				if verdict.Category != types.CategoryValid {
					v.log.debug("probe failed", "batchId", batchID, "category", verdict.Category, "address", verdict.Address)
				}

				results[idx] = verdict
				agg.add(verdict)

				// onProgress runs under mu so successive calls observe the
				// completed count in increasing order.
				mu.Lock()
				completed++
				n := completed
				if onProgress != nil {
					onProgress(n, len(addresses), verdict)
				}
				mu.Unlock()

				if onStatsUpdate != nil && n%v.batch.StatsInterval == 0 {
					onStatsUpdate(agg.snapshot())
				}
			}(i, addresses[i])
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return results, agg.snapshot(), fmt.Errorf("verifymail: batch %s cancelled: %w", batchID, err)
		}
	}

	final := agg.snapshot()
	if onStatsUpdate != nil {
		onStatsUpdate(final)
	}
	v.log.debug("batch complete", "batchId", batchID, "total", final.Total, "valid", final.Valid)
	return results, final, nil
}

// verifyForBatch runs one address's verification, converting an unexpected
// panic into a processing_error verdict rather than losing the whole
// batch. Per-address panics are not expected in normal operation, but a
// batch of tens of thousands of addresses is exactly the place a rare
// edge case will surface.
func (v *Validator) verifyForBatch(ctx context.Context, verifier *verify.Verifier, address string) (verdict types.Verdict) {
	v.metrics.probeStarted()
	defer v.metrics.probeDone()
	defer func() {
		if r := recover(); r != nil {
			verdict = types.Verdict{
				Address:  address,
				IsValid:  false,
				Category: types.CategoryProcessingErr,
				Message:  fmt.Sprintf("panic during verification: %v", r),
			}
		}
	}()

	start := time.Now()
	verdict = verifier.Verify(ctx, address)
	v.metrics.observe(verdict, time.Since(start))
	return verdict
}
