package utils

import (
	"net/mail"
	"regexp"
	"strings"
)

var (
	usernameChars = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	whitespace    = regexp.MustCompile(`\s`)
)

// The three username predicates are deliberately independent; a valid
// username must satisfy all of them.

func ValidCharacters(username string) bool {
	return usernameChars.MatchString(username)
}

func ValidLength(username string) bool {
	return len(username) >= 5 && len(username) <= 20
}

func NoWhitespace(username string) bool {
	return !whitespace.MatchString(username)
}

func ValidUsername(username string) bool {
	return ValidCharacters(username) && ValidLength(username) && NoWhitespace(username)
}

// ValidEmail checks address syntax and requires a dot in the domain.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(addr.Address, "@")
	if at < 0 {
		return false
	}
	domain := addr.Address[at+1:]
	return strings.Contains(domain, ".")
}

// ValidPasswordLength is the only enforced password rule: 8 characters
// minimum, no upper bound.
func ValidPasswordLength(password string) bool {
	return len(password) >= 8
}
