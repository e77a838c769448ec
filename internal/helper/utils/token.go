package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
)

// Verification codes are short and human-enterable; ambiguity doesn't
// matter since they are pasted, not read aloud.
const verificationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const verificationCodeLength = 6

// GenerateVerificationCode returns a 6-character upper-alphanumeric
// code from crypto/rand.
func GenerateVerificationCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(verificationCodeAlphabet)))
	code := make([]byte, verificationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", errors.New("failed to generate verification code")
		}
		code[i] = verificationCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// RandomToken returns n random bytes hex-encoded. Used for reset
// tokens: 32 bytes gives 256 bits of entropy in a URL-safe string.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New("failed to generate random token")
	}
	return hex.EncodeToString(buf), nil
}
