// Package common defines shared constants and sentinel errors used across
// the agent and server layers of SoftGate. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors: rejected before any network or storage call.
	ErrorValidation = errors.New("validation error")

	// Credential errors.
	ErrKeyExpired   = errors.New("api key expired")
	ErrInvalidToken = errors.New("invalid token")

	// Transport errors.
	ErrNoReachableEndpoint = errors.New("no reachable endpoint")

	// Lifecycle errors.
	ErrAlreadySent   = errors.New("request already sent")
	ErrTerminalState = errors.New("request already resolved")
)
