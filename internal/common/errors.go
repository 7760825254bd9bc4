// Package common defines shared constants and sentinel errors used across
// client and remote layers of fitkeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Session gate.
	ErrNotAuthenticated = errors.New("not authenticated")
	// The device holds data of a different user.
	ErrOtherAccount = errors.New("device holds another account's data")

	// Validation errors raised before a value reaches a store.
	ErrValidation = errors.New("validation error")
)
