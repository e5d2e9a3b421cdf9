package transfer

import (
	"github.com/obexkit/obexkit/internal/buffer"
	"github.com/obexkit/obexkit/internal/localio"
	"github.com/obexkit/obexkit/internal/obex"
	"github.com/obexkit/obexkit/pkg/logging"
)

// Direction of a transfer, fixed when Get or Put starts it.
type Direction string

const (
	DirectionGet Direction = "get"
	DirectionPut Direction = "put"
)

// Status represents the current lifecycle state of a transfer
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Callback receives progress and terminal notifications for a transfer.
// Any context the caller needs travels in the closure. Progress steps
// deliver a nil error; a terminal failure or cancellation delivers its
// error exactly once.
type Callback func(t *Transfer, transferred int64, err error)

// Owner is the session-side view a transfer needs: opening exchanges on the
// connected primitive and membership in the pending set. Transfers hold an
// Owner instead of a concrete session to keep the relation non-owning.
type Owner interface {
	// GetObject opens an inbound exchange for the named remote object.
	GetObject(name, mimeType string, appParams []byte) (obex.Exchange, error)

	// PutObject opens an outbound exchange for an object of known size.
	PutObject(name, mimeType string, size int64) (obex.Exchange, error)

	// Attach adds the transfer to the owner's pending set.
	Attach(t *Transfer)

	// Detach removes the transfer from the owner's pending set.
	Detach(t *Transfer)

	// Agent identifies the party that requested the session's transfers
	// and is allowed to cancel them.
	Agent() string
}

// Publisher exposes a transfer as an externally addressable object for
// property queries and cancellation.
type Publisher interface {
	// Publish registers the transfer and returns its identity.
	Publish(t *Transfer) (string, error)

	// Unpublish removes a previously published identity.
	Unpublish(identity string)
}

// Properties is the externally visible description of a transfer.
type Properties struct {
	Name     string
	Size     uint64
	Filename string
}

// Transfer is a single GET or PUT operation against the remote peer. It is
// driven by transport continuations on a single goroutine, so no internal
// locking is needed; transferred never decreases and at most one terminal
// notification is delivered.
type Transfer struct {
	owner Owner
	pub   Publisher

	direction  Direction
	remoteName string
	localName  string
	mimeType   string
	kind       Kind
	params     []byte
	identity   string

	// In-memory PUT source. hasData distinguishes an empty payload from
	// no payload.
	data    []byte
	hasData bool

	buf    buffer.Buffer
	file   *localio.File
	srcEOF bool

	xfer        obex.Exchange
	size        int64
	transferred int64
	lastErr     error
	callback    Callback
	status      Status
}

// Register creates a transfer bound to the owning session. remoteName is
// the object on the peer, localName the local file acting as source or
// sink. Publishable kinds are exposed through pub; the protocol-internal
// MIME families are tracked but never published.
func Register(owner Owner, pub Publisher, remoteName, localName, mimeType string, appParams []byte) (*Transfer, error) {
	t := &Transfer{
		owner:      owner,
		pub:        pub,
		remoteName: remoteName,
		localName:  localName,
		mimeType:   mimeType,
		kind:       Classify(mimeType),
		params:     appParams,
		status:     StatusQueued,
	}
	return t.register()
}

// RegisterData creates a transfer whose PUT source is the given in-memory
// payload instead of a local file.
func RegisterData(owner Owner, pub Publisher, data []byte, remoteName, mimeType string, appParams []byte) (*Transfer, error) {
	t := &Transfer{
		owner:      owner,
		pub:        pub,
		remoteName: remoteName,
		mimeType:   mimeType,
		kind:       Classify(mimeType),
		params:     appParams,
		data:       data,
		hasData:    true,
		status:     StatusQueued,
	}
	return t.register()
}

func (t *Transfer) register() (*Transfer, error) {
	if t.pub != nil && t.kind.Publishable() {
		identity, err := t.pub.Publish(t)
		if err != nil {
			return nil, err
		}
		t.identity = identity
		logging.Log.Debugf("transfer registered %s", t.identity)
	}

	t.owner.Attach(t)
	return t, nil
}

// Unregister is the single teardown path: it removes the published
// identity, releases the exchange and the local descriptor, and detaches
// the transfer from its session. Safe to call at any point after Register;
// must be called exactly once.
func (t *Transfer) Unregister() {
	if t.identity != "" && t.pub != nil {
		t.pub.Unpublish(t.identity)
		logging.Log.Debugf("transfer unregistered %s", t.identity)
		t.identity = ""
	}

	t.closeExchange()

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	t.owner.Detach(t)
}

// Abort cancels an in-flight transfer. The exchange is torn down
// immediately and the callback is invoked once with ErrCanceled and the
// bytes moved so far. Without an exchange in flight (not started, or
// already terminal) it is a no-op, which also makes a second Abort
// harmless.
func (t *Transfer) Abort() {
	if t.xfer == nil {
		return
	}

	t.xfer.Abort()
	t.closeExchange()

	t.status = StatusCancelled
	t.lastErr = ErrCanceled
	t.notify(ErrCanceled)
}

// SetCallback registers the progress callback, replacing any previous one.
func (t *Transfer) SetCallback(cb Callback) {
	t.callback = cb
}

// Properties returns the externally visible description of the transfer.
func (t *Transfer) Properties() Properties {
	return Properties{
		Name:     t.remoteName,
		Size:     uint64(t.size),
		Filename: t.localName,
	}
}

func (t *Transfer) Name() string         { return t.remoteName }
func (t *Transfer) Filename() string     { return t.localName }
func (t *Transfer) MimeType() string     { return t.mimeType }
func (t *Transfer) Kind() Kind           { return t.kind }
func (t *Transfer) Direction() Direction { return t.direction }
func (t *Transfer) Identity() string     { return t.identity }
func (t *Transfer) Size() int64          { return t.size }
func (t *Transfer) Transferred() int64   { return t.transferred }
func (t *Transfer) Status() Status       { return t.status }
func (t *Transfer) LastError() error     { return t.lastErr }

// Agent identifies the party allowed to cancel this transfer.
func (t *Transfer) Agent() string { return t.owner.Agent() }

func (t *Transfer) notify(err error) {
	if t.callback != nil {
		t.callback(t, t.transferred, err)
	}
}

// complete closes the exchange and the local descriptor and delivers the
// terminal progress notification.
func (t *Transfer) complete() {
	t.closeExchange()

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	t.status = StatusCompleted
	t.notify(nil)
}

// fail records err and delivers it through the callback. Continuation
// errors never surface as return values; the callback is the only channel.
func (t *Transfer) fail(err error) {
	t.lastErr = err
	t.closeExchange()

	t.status = StatusFailed
	t.notify(err)
}

func (t *Transfer) closeExchange() {
	if t.xfer == nil {
		return
	}
	t.xfer.Close()
	t.xfer = nil
}
