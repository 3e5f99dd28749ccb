// Package emailhash derives privacy-preserving lookup keys from email addresses.
//
// The digest is the stored email_hash column format: SHA-256 over the
// lowercased, whitespace-trimmed address, hex encoded. It is one-way and
// used only as a lookup key.
package emailhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize lowercases and trims an email address.
// Lookups and subscriptions both key on the normalized form.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Hash returns the hex-encoded SHA-256 digest of the normalized email.
func Hash(email string) string {
	sum := sha256.Sum256([]byte(Normalize(email)))
	return hex.EncodeToString(sum[:])
}

// IsValid reports whether the raw input looks like an email address.
// Matches the upstream contract: anything containing "@" is accepted.
func IsValid(email string) bool {
	return strings.Contains(email, "@")
}
