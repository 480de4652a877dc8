package verifymail

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLogger(zerolog.New(&buf))

	l.Debug("verified address", "address", "user@example.com", "category", "valid")

	out := buf.String()
	assert.Contains(t, out, "verified address")
	assert.Contains(t, out, "user@example.com")
	assert.Contains(t, out, "valid")
}

func TestNewLogger_DefaultsToDiscard(t *testing.T) {
	l := newLogger(nil)
	assert.NotPanics(t, func() {
		l.debug("noop")
		l.warn("noop")
		l.error("noop")
	})
}
