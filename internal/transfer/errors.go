package transfer

import "errors"

var (
	// ErrAlreadyStarted is returned when Get or Put is called on a
	// transfer that already has an exchange in flight.
	ErrAlreadyStarted = errors.New("transfer already started")

	// ErrNoConnection is returned when the session refuses to open an
	// exchange with the remote peer.
	ErrNoConnection = errors.New("no connection to remote peer")

	// ErrCanceled is delivered through the progress callback when a
	// transfer is aborted.
	ErrCanceled = errors.New("transfer canceled")

	// ErrNotAuthorized rejects a cancellation request from anyone other
	// than the party that created the transfer.
	ErrNotAuthorized = errors.New("not authorized")
)
