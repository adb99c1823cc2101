package urn

import (
	"strings"

	"github.com/google/uuid"
)

// Prefix marks the contact URN as belonging to the external channel.
const Prefix = "ext:"

// New generates a fresh contact URN of the form "ext:<uuid4>". One URN is
// minted per adapter instance and doubles as the session correlation key for
// inbound replies.
func New() string {
	return Prefix + uuid.NewString()
}

// Valid reports whether s is a well-formed external contact URN backed by a
// version-4 UUID.
func Valid(s string) bool {
	if !strings.HasPrefix(s, Prefix) {
		return false
	}
	id, err := uuid.Parse(strings.TrimPrefix(s, Prefix))
	if err != nil {
		return false
	}
	return id.Version() == 4
}
