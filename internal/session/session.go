// Package session tracks the transfers pending on one connected
// object-exchange session and fronts the connection primitive for them.
package session

import (
	"github.com/obexkit/obexkit/internal/obex"
	"github.com/obexkit/obexkit/internal/transfer"
	"github.com/obexkit/obexkit/pkg/logging"
)

// Session owns the pending-transfer set for one connection. A transfer
// belongs to exactly one session for its whole life and is detached as the
// first step of its teardown.
type Session struct {
	conn    obex.Session
	agent   string
	pub     transfer.Publisher
	pending []*transfer.Transfer
}

// New wraps an established connection. agent identifies the requesting
// party, the only one allowed to cancel the session's transfers. pub may be
// nil when transfers are not exposed externally.
func New(conn obex.Session, agent string, pub transfer.Publisher) *Session {
	return &Session{
		conn:  conn,
		agent: agent,
		pub:   pub,
	}
}

// Register creates a file-backed transfer on this session.
func (s *Session) Register(remoteName, localName, mimeType string, appParams []byte) (*transfer.Transfer, error) {
	return transfer.Register(s, s.pub, remoteName, localName, mimeType, appParams)
}

// RegisterData creates a transfer whose PUT source is an in-memory payload.
func (s *Session) RegisterData(data []byte, remoteName, mimeType string, appParams []byte) (*transfer.Transfer, error) {
	return transfer.RegisterData(s, s.pub, data, remoteName, mimeType, appParams)
}

// GetObject opens an inbound exchange on the connection.
func (s *Session) GetObject(name, mimeType string, appParams []byte) (obex.Exchange, error) {
	return s.conn.Get(name, mimeType, appParams)
}

// PutObject opens an outbound exchange on the connection.
func (s *Session) PutObject(name, mimeType string, size int64) (obex.Exchange, error) {
	return s.conn.Put(name, mimeType, size)
}

// Attach adds a transfer to the pending set.
func (s *Session) Attach(t *transfer.Transfer) {
	s.pending = append(s.pending, t)
}

// Detach removes a transfer from the pending set.
func (s *Session) Detach(t *transfer.Transfer) {
	for i, pending := range s.pending {
		if pending == t {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Agent identifies the party that requested this session's transfers.
func (s *Session) Agent() string {
	return s.agent
}

// Pending returns the transfers currently tracked by the session.
func (s *Session) Pending() []*transfer.Transfer {
	return s.pending
}

// Shutdown unregisters every pending transfer, aborting any still in
// flight.
func (s *Session) Shutdown() {
	logging.Log.Debugf("session shutdown with %d pending transfers", len(s.pending))

	remaining := make([]*transfer.Transfer, len(s.pending))
	copy(remaining, s.pending)

	for _, t := range remaining {
		t.Abort()
		t.Unregister()
	}
}
