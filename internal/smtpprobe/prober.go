// Package smtpprobe implements one SMTP probe against one MX host
// (component C3): a conversation state machine over a raw TCP socket,
// CONNECT -> AWAIT_220 -> AWAIT_250_HELO -> AWAIT_250_MAIL ->
// AWAIT_250_RCPT -> DONE, with a single wall-clock deadline covering the
// whole conversation and exactly one terminal resolution per probe.
package smtpprobe

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/mailforge/verifymail/types"
)

// state is the prober's position in the protocol state machine.
type state int

const (
	stateAwait220 state = iota
	stateAwait250Helo
	stateAwait250Mail
	stateAwait250Rcpt
)

// DialFunc is the injectable connection seam, matching net.Dialer's
// DialContext signature so tests can hand back a net.Pipe() end instead of
// a real socket.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Logger receives structured diagnostic events from a Prober. A nil Logger
// is valid and discards everything.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}

// Config configures a Prober.
type Config struct {
	// HeloHost is the literal sent in the HELO command: the caller's own
	// mail-sending host, not a stand-in value, since a receiving server may
	// do a reverse check against it.
	HeloHost string
	// MailFrom is the envelope sender's local@domain (no angle brackets).
	MailFrom string
	// Timeout is the single wall-clock deadline covering CONNECT..DONE.
	// Default 15s.
	Timeout time.Duration
	// Dial is injectable for testing. Defaults to a context-aware
	// net.Dialer against port 25.
	Dial DialFunc
	// Logger records state-machine timeouts and connection errors at
	// Debug. Defaults to discarding everything.
	Logger Logger
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.Dial == nil {
		c.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, address)
		}
	}
	if c.Logger == nil {
		c.Logger = noopLogger{}
	}
	return c
}

// Result is the terminal outcome of one probe.
type Result struct {
	Category types.Category
	Message  string
}

// Prober runs SMTP probes, one conversation per Probe call; it holds no
// per-conversation state between calls, so a single Prober is safe to
// reuse (and to share) across concurrent probes.
type Prober struct {
	cfg Config
}

// New creates a Prober.
func New(cfg Config) *Prober {
	return &Prober{cfg: cfg.withDefaults()}
}

// Probe opens a TCP connection to mxHost:25, carries out the handshake for
// rcptTo, and returns the single terminal classification. It never returns
// more than once and always closes the socket on every exit path.
func (p *Prober) Probe(ctx context.Context, mxHost, rcptTo string) Result {
	deadline := time.Now().Add(p.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	// The deadline covers CONNECT through DONE, so it has to bound the dial
	// itself too — otherwise a host that never completes its TCP handshake
	// (dropped SYN, silent firewall) hangs Dial for as long as the caller's
	// own context allows, which may be indefinitely.
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	conn, err := p.cfg.Dial(dialCtx, "tcp", net.JoinHostPort(mxHost, "25"))
	if err != nil {
		p.cfg.Logger.Debug("smtp connect failed", "host", mxHost, "error", err)
		return Result{Category: types.CategoryConnectionErr, Message: fmt.Sprintf("connect to %s: %v", mxHost, err)}
	}
	defer func() {
		_ = writeLine(conn, "QUIT")
		_ = conn.Close()
	}()

	if err := conn.SetDeadline(deadline); err != nil {
		return Result{Category: types.CategoryConnectionErr, Message: err.Error()}
	}

	reader := bufio.NewReader(conn)
	st := stateAwait220

	for {
		line, err := readLine(reader)
		if err != nil {
			if isTimeout(err) {
				p.cfg.Logger.Debug("smtp probe timed out", "host", mxHost, "state", st)
				return Result{Category: types.CategorySMTPTimeout, Message: "timed out waiting for server response"}
			}
			p.cfg.Logger.Debug("smtp connection closed", "host", mxHost, "state", st, "error", err)
			return Result{Category: types.CategoryConnectionErr, Message: fmt.Sprintf("connection closed: %v", err)}
		}

		code := statusCode(line)
		if term, res := terminalFor(code, line); term {
			return res
		}

		var cmd string
		switch st {
		case stateAwait220:
			if code != 220 {
				continue
			}
			cmd, st = "HELO "+p.cfg.HeloHost, stateAwait250Helo
		case stateAwait250Helo:
			if code != 250 || !echoesVerb(line, "HELO") {
				continue
			}
			cmd, st = "MAIL FROM:<"+p.cfg.MailFrom+">", stateAwait250Mail
		case stateAwait250Mail:
			if code != 250 || !echoesVerb(line, "MAIL") {
				continue
			}
			cmd, st = "RCPT TO:<"+rcptTo+">", stateAwait250Rcpt
		case stateAwait250Rcpt:
			if code != 250 || !echoesVerb(line, "RCPT") {
				continue
			}
			return Result{Category: types.CategoryValid, Message: "RCPT TO accepted"}
		}

		if err := writeLine(conn, cmd); err != nil {
			return Result{Category: types.CategoryConnectionErr, Message: fmt.Sprintf("write failed: %v", err)}
		}
	}
}

// terminalFor evaluates the status-code transitions that resolve the
// conversation regardless of which AWAIT_* state the machine is in.
func terminalFor(code int, line string) (bool, Result) {
	switch {
	case code == 550 || code == 551:
		return true, Result{Category: types.CategoryNotExisting, Message: line}
	case code == 552 || code == 553:
		return true, Result{Category: types.CategoryMailboxError, Message: line}
	case code == 421 || code == 450:
		return true, Result{Category: types.CategoryTemporaryError, Message: line}
	case code >= 500 && code <= 599:
		return true, Result{Category: types.CategorySMTPError, Message: line}
	default:
		return false, Result{}
	}
}

// echoesVerb checks whether the server's reply echoes the command verb,
// which disambiguates otherwise identical "250 OK" lines at different
// stages of the conversation.
func echoesVerb(line, verb string) bool {
	return strings.Contains(strings.ToUpper(line), verb)
}

// statusCode extracts the 3-digit status code from the first three bytes
// of a line, returning 0 if the line is too short or non-numeric.
func statusCode(line string) int {
	if len(line) < 3 {
		return 0
	}
	code, err := strconv.Atoi(line[:3])
	if err != nil {
		return 0
	}
	return code
}

// readLine reads one CRLF-terminated line and strips the terminator.
// bufio.Reader retains any unterminated trailing fragment across calls, so
// a reply split across TCP segments still assembles correctly.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeLine(conn net.Conn, cmd string) error {
	_, err := conn.Write([]byte(cmd + "\r\n"))
	return err
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
