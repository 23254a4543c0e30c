// Package common defines shared constants and sentinel errors used across
// the SkyTrack client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session / gateway errors.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrLoginFailed      = errors.New("login failed")
	ErrMutationInFlight = errors.New("another login/logout is in progress")

	// Token errors (malformed or undecodable token payload).
	ErrInvalidToken = errors.New("invalid token")
)
