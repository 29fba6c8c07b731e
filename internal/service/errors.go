// Package service orchestrates authentication for the two principal kinds
// and the consultant assignment registry. Expected failures are sentinel
// errors; only storage failures pass through wrapped.
package service

import "errors"

var (
	// ErrInvalidCredentials covers every login failure: unknown email,
	// wrong password, inactive account. Deliberately one error so callers
	// cannot tell which half of the check failed.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrInvalidToken covers every refresh failure: token unknown, revoked,
	// expired, or owned by an inactive principal.
	ErrInvalidToken = errors.New("service: invalid token")

	// ErrAccessDenied is returned when a consultant has no usable
	// assignment, or lacks the required capability, for the target tenant.
	ErrAccessDenied = errors.New("service: access denied")
)
