// Package obex abstracts the already-connected object-exchange primitive
// the transfer engine drives. Implementations own the wire framing and the
// transport; the engine only ever sees chunked, non-blocking reads and
// writes plus a continuation callback.
package obex

import "errors"

// ErrNotConnected is returned when an exchange cannot be opened because the
// session has no connectivity to the remote peer.
var ErrNotConnected = errors.New("not connected to remote peer")

// Session is an established object-exchange connection to a peer.
type Session interface {
	// Get opens an inbound exchange for the named remote object. The
	// optional application parameters are passed through opaquely.
	Get(name, mimeType string, appParams []byte) (Exchange, error)

	// Put opens an outbound exchange announcing the object's name and
	// total size.
	Put(name, mimeType string, size int64) (Exchange, error)
}

// Exchange is one in-flight object exchange with the peer.
//
// The transport invokes the registered handler each time a chunk is ready
// to read or the sink can accept more data, with at most one invocation in
// flight per exchange. All methods are non-blocking: they complete against
// in-memory state and rely on the handler for further progress.
type Exchange interface {
	// SetHandler registers the continuation callback, replacing any
	// previous one.
	SetHandler(fn func())

	// Read copies currently available inbound bytes into p.
	Read(p []byte) (int, error)

	// Write offers p to the transport, which may accept a prefix.
	Write(p []byte) (int, error)

	// Flush asks the transport to move buffered data and schedule the
	// next continuation.
	Flush() error

	// ObjectSize reports the total object length, or 0 while unknown.
	ObjectSize() int64

	// ObjectDone reports whether the inbound object has been fully
	// delivered.
	ObjectDone() bool

	// Abort tears down the exchange without completing the object.
	Abort()

	// Close releases the exchange. Idempotent.
	Close() error
}
