// Package identity supplies the caller-identity verification collaborator.
// Engines never trust an unverified caller argument: every operation that
// represents spending authority calls RequireAuthorization before any state
// mutation.
package identity

import "errors"

// ErrUnauthorized is returned when the invoking identity does not match the
// principal whose authority the operation requires.
var ErrUnauthorized = errors.New("identity: unauthorized")

// Verifier checks that the invoking identity holds the authority of the given
// principal.
type Verifier interface {
	RequireAuthorization(caller, principal [20]byte) error
}

// StrictVerifier authorizes a caller only when it is exactly the principal.
// Transport-level authentication (who the caller actually is) happens before
// the engines run; this verifier enforces that the authenticated caller and
// the spending principal agree.
type StrictVerifier struct{}

// RequireAuthorization implements the Verifier interface.
func (StrictVerifier) RequireAuthorization(caller, principal [20]byte) error {
	if caller != principal {
		return ErrUnauthorized
	}
	return nil
}
