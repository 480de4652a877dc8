package format_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mailforge/verifymail/internal/format"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		name   string
		addr   string
		wantOK bool
	}{
		{"valid simple", "user@example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.com", true},
		{"valid subdomain", "user@mail.example.co.uk", true},
		{"empty", "", false},
		{"no at sign", "userexample.com", false},
		{"no domain", "user@", false},
		{"no local", "@example.com", false},
		{"double at", "bad@@example.com", false},
		{"leading dot local", ".user@example.com", false},
		{"leading dash domain", "user@-example.com", false},
		{"numeric tld", "user@example.123", false},
		{"single char tld", "user@example.c", false},
		{"two char tld", "user@example.co", true},
		{"local exactly 64 chars", strings.Repeat("a", 64) + "@example.com", true},
		{"local 65 chars", strings.Repeat("a", 65) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, format.Accepts(tt.addr))
		})
	}
}

func TestSplit(t *testing.T) {
	local, domain := format.Split("user@example.com")
	assert.Equal(t, "user", local)
	assert.Equal(t, "example.com", domain)
}
