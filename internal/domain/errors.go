package domain

import "errors"

var (
	ErrNotFound         = errors.New("device not found")
	ErrAlreadyExists    = errors.New("device already exists")
	ErrInvalidAlgorithm = errors.New("invalid algorithm")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSigningFailure   = errors.New("signing failure")
	ErrKeyGeneration    = errors.New("key generation failure")
)

// Stable machine-readable error codes returned to clients.
const (
	CodeNotFound         = "not_found"
	CodeAlreadyExists    = "already_exists"
	CodeInvalidInput     = "invalid_input"
	CodeInvalidAlgorithm = "invalid_algorithm"
	CodeSigningFailure   = "signing_failure"
	CodeKeyGeneration    = "key_generation_failure"
	CodeInternal         = "internal"
)

// Code maps err onto its stable code. Unknown errors are "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrInvalidAlgorithm):
		return CodeInvalidAlgorithm
	case errors.Is(err, ErrSigningFailure):
		return CodeSigningFailure
	case errors.Is(err, ErrKeyGeneration):
		return CodeKeyGeneration
	default:
		return CodeInternal
	}
}
