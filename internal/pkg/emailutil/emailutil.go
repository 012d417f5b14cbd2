// Package emailutil provides email address normalization and validation
// shared by every workflow. Normalization is the canonical form used for
// all database lookups, so it must stay deterministic and idempotent.
package emailutil

import (
	"regexp"
	"strings"
)

// validEmail is intentionally loose: one @, no whitespace, and a dot in
// the domain. Real validation happens when the confirmation email lands.
var validEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Normalize returns the canonical form of an email address: lowercased
// and trimmed. Normalize(Normalize(x)) == Normalize(x).
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid reports whether the string looks like an email address.
// Case-insensitive; leading/trailing whitespace is not tolerated.
func IsValid(email string) bool {
	return validEmail.MatchString(strings.ToLower(email))
}
