// Package idgen produces client-assigned record identifiers. The same value
// is stored locally as the record id and remotely as its client id, so it
// must be unique across devices of the same user.
package idgen

import (
	"strconv"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier. Stores accept one so tests can
// substitute a deterministic sequence.
type Generator func() string

// New returns a random (version 4) UUID string.
func New() string {
	return uuid.NewString()
}

// Sequence returns a Generator that yields prefix-1, prefix-2, ... It is meant
// for tests and fixtures.
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
