// Package ident defines the 128-bit opaque identifiers used for
// sessions, operations, resources, and schedulers throughout the
// system.
package ident

import (
	"github.com/google/uuid"
)

// ID is a 128-bit opaque identifier, serialized in its canonical
// 8-4-4-4-12 hyphenated textual form.
type ID uuid.UUID

// Zero is the all-zero identifier, used as the "no operation"
// sentinel.
var Zero ID

// New generates a fresh, globally-unique ID.
func New() ID {
	return ID(uuid.New())
}

// Parse decodes the canonical textual form of an ID.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Zero, err
	}
	return ID(u), nil
}

// String returns the canonical textual form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the all-zero sentinel.
func (id ID) IsZero() bool {
	return id == Zero
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
