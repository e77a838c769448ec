package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"minimum length", "abcde", true},
		{"maximum length", strings.Repeat("a", 20), true},
		{"mixed alphanumeric", "alice01", true},
		{"upper and lower", "AliceBob99", true},
		{"one below minimum", "abcd", false},
		{"one above maximum", strings.Repeat("a", 21), false},
		{"empty", "", false},
		{"embedded space", "alice 01", false},
		{"leading space", " alice01", false},
		{"tab", "alice\t01", false},
		{"underscore", "alice_01", false},
		{"dash", "alice-01", false},
		{"unicode", "алиса01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUsername(tt.username))
		})
	}
}

func TestUsernamePredicatesAreIndependent(t *testing.T) {
	// "ab cd" fails the charset and whitespace checks but has valid length
	assert.True(t, ValidLength("ab cd"))
	assert.False(t, ValidCharacters("ab cd"))
	assert.False(t, NoWhitespace("ab cd"))

	// "abc" passes charset and whitespace but fails length
	assert.True(t, ValidCharacters("abc"))
	assert.True(t, NoWhitespace("abc"))
	assert.False(t, ValidLength("abc"))
}

func TestValidPasswordLength(t *testing.T) {
	assert.False(t, ValidPasswordLength("1234567"))
	assert.True(t, ValidPasswordLength("12345678"))
	assert.True(t, ValidPasswordLength(strings.Repeat("x", 200)))
	assert.False(t, ValidPasswordLength(""))
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.co", true},
		{"alice@localhost", false}, // no dot in domain
		{"not-an-email", false},
		{"@example.com", false},
		{"alice@", false},
		{"", false},
		{"alice@example.com ", false}, // trailing space
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}
