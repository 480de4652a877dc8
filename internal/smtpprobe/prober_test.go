package smtpprobe_test

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mailforge/verifymail/internal/smtpprobe"
	"github.com/mailforge/verifymail/types"
)

// fakeServer drives the server side of a net.Pipe, replying to each command
// prefix with a canned line. The banner is sent unprompted on connect.
func fakeServer(server net.Conn, banner string, responses map[string]string) {
	defer func() { _ = server.Close() }()

	_, _ = fmt.Fprintf(server, "%s\r\n", banner)

	r := bufio.NewReader(server)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "QUIT") {
			_, _ = fmt.Fprintf(server, "221 Bye\r\n")
			return
		}

		for prefix, resp := range responses {
			if strings.HasPrefix(line, prefix) {
				_, _ = fmt.Fprintf(server, "%s\r\n", resp)
				break
			}
		}
	}
}

func dialTo(banner string, responses map[string]string) smtpprobe.DialFunc {
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		client, server := net.Pipe()
		go fakeServer(server, banner, responses)
		return client, nil
	}
}

func newProber(dial smtpprobe.DialFunc) *smtpprobe.Prober {
	return smtpprobe.New(smtpprobe.Config{
		HeloHost: "verify.example.com",
		MailFrom: "probe@verify.example.com",
		Timeout:  2 * time.Second,
		Dial:     dial,
	})
}

func TestProbe_Valid(t *testing.T) {
	p := newProber(dialTo("220 mx.example.com ESMTP", map[string]string{
		"HELO": "250 HELO mx.example.com",
		"MAIL": "250 MAIL ok",
		"RCPT": "250 RCPT ok",
	}))

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryValid, res.Category)
}

func TestProbe_NotExisting(t *testing.T) {
	p := newProber(dialTo("220 mx.example.com ESMTP", map[string]string{
		"HELO": "250 HELO mx.example.com",
		"MAIL": "250 MAIL ok",
		"RCPT": "550 No such user here",
	}))

	res := p.Probe(context.Background(), "mx.example.com", "nobody@example.com")
	assert.Equal(t, types.CategoryNotExisting, res.Category)
}

func TestProbe_MailboxFull(t *testing.T) {
	p := newProber(dialTo("220 mx.example.com ESMTP", map[string]string{
		"HELO": "250 HELO mx.example.com",
		"MAIL": "250 MAIL ok",
		"RCPT": "552 Mailbox full",
	}))

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryMailboxError, res.Category)
}

func TestProbe_TemporaryFailure(t *testing.T) {
	p := newProber(dialTo("220 mx.example.com ESMTP", map[string]string{
		"HELO": "250 HELO mx.example.com",
		"MAIL": "250 MAIL ok",
		"RCPT": "450 Try again later",
	}))

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryTemporaryError, res.Category)
}

func TestProbe_GreetingRefused(t *testing.T) {
	p := newProber(dialTo("421 Service not available", nil))

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryTemporaryError, res.Category)
}

func TestProbe_OtherSMTPError(t *testing.T) {
	p := newProber(dialTo("220 mx.example.com ESMTP", map[string]string{
		"HELO": "250 HELO mx.example.com",
		"MAIL": "503 Bad sequence of commands",
	}))

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategorySMTPError, res.Category)
}

func TestProbe_ConnectionRefused(t *testing.T) {
	p := newProber(func(ctx context.Context, network, address string) (net.Conn, error) {
		return nil, fmt.Errorf("connection refused")
	})

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryConnectionErr, res.Category)
}

func TestProbe_ClosesAfterGreeting(t *testing.T) {
	p := newProber(func(ctx context.Context, network, address string) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			_, _ = fmt.Fprintf(server, "220 mx.example.com ESMTP\r\n")
			_ = server.Close()
		}()
		return client, nil
	})

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryConnectionErr, res.Category)
}

func TestProbe_Timeout(t *testing.T) {
	p := smtpprobe.New(smtpprobe.Config{
		HeloHost: "verify.example.com",
		MailFrom: "probe@verify.example.com",
		Timeout:  50 * time.Millisecond,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			client, server := net.Pipe()
			// Server never sends a greeting; the probe must time out rather
			// than hang.
			go func() {
				<-time.After(time.Second)
				_ = server.Close()
			}()
			return client, nil
		},
	})

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategorySMTPTimeout, res.Category)
}

func TestProbe_DialRespectsTimeout(t *testing.T) {
	// The dial itself never returns (simulating a dropped SYN / silent
	// firewall); Probe must bound it with the configured Timeout rather
	// than hang on the caller's un-deadlined context.
	p := smtpprobe.New(smtpprobe.Config{
		HeloHost: "verify.example.com",
		MailFrom: "probe@verify.example.com",
		Timeout:  50 * time.Millisecond,
		Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	})

	start := time.Now()
	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategoryConnectionErr, res.Category)
	assert.Less(t, time.Since(start), time.Second)
}

func TestProbe_StallsOnMissingEchoToken(t *testing.T) {
	// The MAIL response never echoes "MAIL", so the machine must not
	// mistake it for progress; it stalls until the deadline.
	p := smtpprobe.New(smtpprobe.Config{
		HeloHost: "verify.example.com",
		MailFrom: "probe@verify.example.com",
		Timeout:  50 * time.Millisecond,
		Dial: dialTo("220 mx.example.com ESMTP", map[string]string{
			"HELO": "250 HELO mx.example.com",
			"MAIL": "250 2.1.0 Ok",
		}),
	})

	res := p.Probe(context.Background(), "mx.example.com", "user@example.com")
	assert.Equal(t, types.CategorySMTPTimeout, res.Category)
}
