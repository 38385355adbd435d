// Package common contains shared constants and sentinel errors used across
// SoftGate components.
package common

// APIKeyHeaderName is the HTTP header used to carry the team API key on
// outbound requests.
const APIKeyHeaderName = "X-API-Key"
