// Command advanced verifies a batch of addresses read one per line from
// stdin, reporting progress and a final aggregate to stderr.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mailforge/verifymail"
)

func main() {
	addresses, err := readAddresses(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "no addresses given on stdin")
		os.Exit(2)
	}

	v, err := verifymail.New(
		verifymail.ProbeOptions{
			HeloHost:    "mail.myapp.com",
			MailFrom:    "verify@myapp.com",
			SMTPTimeout: 10 * time.Second,
		},
		verifymail.BatchOptions{
			ConcurrentLimit: 10,
			RateLimitDelay:  250 * time.Millisecond,
		},
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	onProgress := func(completed, total int, verdict verifymail.Verdict) {
		fmt.Fprintf(os.Stderr, "[%d/%d] %s -> %s\n", completed, total, verdict.Address, verdict.Category)
	}
	onStats := func(stats verifymail.Aggregate) {
		fmt.Fprintf(os.Stderr, "--- progress: %d total, %d valid, %d invalid ---\n", stats.Total, stats.Valid, stats.Invalid)
	}

	results, stats, err := v.VerifyBatch(ctx, addresses, onProgress, onStats)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("%s,%s,%t\n", r.Address, r.Category, r.IsValid)
	}

	fmt.Fprintf(os.Stderr, "\ndone: %d total, %d valid, %d invalid\n", stats.Total, stats.Valid, stats.Invalid)
	for _, top := range stats.TopDomains {
		fmt.Fprintf(os.Stderr, "  %s: %d total, %s valid\n", top.Domain, top.Total, top.ValidityRate)
	}
}

func readAddresses(f *os.File) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}
