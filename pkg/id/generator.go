package id

import "github.com/google/uuid"

// Generator creates unique IDs.
type Generator interface {
	New() string
}

// UUIDv4 generates random RFC 4122 version 4 identifiers.
type UUIDv4 struct{}

func (UUIDv4) New() string { return uuid.NewString() }
