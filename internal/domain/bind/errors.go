package bind

import "errors"

// Guard failures are detected synchronously before any write and are never
// retried. Callers match with errors.Is; the handler maps each kind to an
// HTTP status.
var (
	// ErrNotFound: the referenced Bind or target user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: an active-or-pending Bind already exists for the pair.
	ErrConflict = errors.New("bind request already active or pending")

	// ErrForbidden: the actor is not a party to the Bind, or is the
	// initiator attempting to approve or reject their own request.
	ErrForbidden = errors.New("action not permitted")

	// ErrValidation: initiator and target share a role, or the initiator
	// targeted themselves.
	ErrValidation = errors.New("invalid bind request")

	// ErrInvalidState: the transition is not permitted from the current
	// status.
	ErrInvalidState = errors.New("transition not allowed in current status")
)
