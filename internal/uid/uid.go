// Package uid generates opaque random identifiers for stored files.
package uid

import (
	"crypto/rand"
	"fmt"
)

// alphabet is URL and filesystem safe. 64 symbols, so each random byte
// maps uniformly onto one symbol.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// RandomString returns a cryptographically random string of exactly length
// characters drawn from a URL-safe alphabet.
func RandomString(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("uid: length must be positive, got %d", length)
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
