// Package idgen generates short operation ids, backed by nanoid, that
// correlate the log lines of one tenant lifecycle call.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for the two lifecycle operations.
const (
	PrefixProvision   = "prov-"
	PrefixDeprovision = "deprov-"
)

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Length is the number of random characters generated (excluding the prefix).
var Length = 12

// New returns a new operation id with the given prefix.
func New(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// ForRequest returns requestID when the caller supplied one, and otherwise a
// freshly generated id. It never fails; if generation fails the bare prefix
// plus "unknown" is returned.
func ForRequest(requestID, prefix string) string {
	if requestID != "" {
		return requestID
	}
	id, err := New(prefix)
	if err != nil {
		return prefix + "unknown"
	}
	return id
}
