package domain

import (
	"encoding/binary"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ID is the opaque identity of a stack item.
// It is minted once, when the item is created, and never reused.
type ID struct {
	uuid uuid.UUID
}

// Minter mints fresh identities. It is only called at item creation sites
// (the initial root and pushes synthesized from navigation intents).
type Minter func() ID

// NewMinter returns a Minter backed by random (v4) UUIDs.
func NewMinter() Minter {
	return func() ID {
		return ID{uuid: uuid.New()}
	}
}

// SequenceMinter returns a Minter producing deterministic, ordered identities.
// Useful in tests where the identity provenance must be predictable.
func SequenceMinter() Minter {
	var n atomic.Uint64
	return func() ID {
		var u uuid.UUID
		binary.BigEndian.PutUint64(u[8:], n.Inc())
		return ID{uuid: u}
	}
}

// ParseID parses the canonical textual form of an ID.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, err
	}
	return ID{uuid: u}, nil
}

// IsZero reports whether the ID was never minted.
func (id ID) IsZero() bool {
	return id.uuid == uuid.Nil
}

func (id ID) String() string {
	return id.uuid.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return id.uuid.MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	return id.uuid.UnmarshalText(b)
}

// EqualIDs compares two identity sequences element by element.
func EqualIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
