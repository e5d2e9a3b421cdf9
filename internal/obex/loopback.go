package obex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/obexkit/obexkit/pkg/logging"
)

// Loopback is a directory-backed Session used by the CLI and integration
// tests. Downloads are served from files under the root, uploads land as
// files under the root. It mimics a real transport's chunked delivery and
// flow control but does no wire framing.
//
// Continuations are queued and run synchronously by Pump, preserving the
// one-invocation-in-flight rule.
type Loopback struct {
	root       string
	chunkSize  int
	writeLimit int
	connected  bool
	runq       []func()
}

// NewLoopback serves objects from root. chunkSize caps bytes delivered per
// inbound read, writeLimit caps bytes accepted per outbound write (0 means
// unlimited).
func NewLoopback(root string, chunkSize, writeLimit int) *Loopback {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	return &Loopback{
		root:       root,
		chunkSize:  chunkSize,
		writeLimit: writeLimit,
		connected:  true,
	}
}

// Disconnect makes subsequent Get/Put calls fail with ErrNotConnected.
func (s *Loopback) Disconnect() {
	s.connected = false
}

// Pump runs queued continuations until the queue drains.
func (s *Loopback) Pump() {
	for len(s.runq) > 0 {
		fn := s.runq[0]
		s.runq = s.runq[1:]
		fn()
	}
}

func (s *Loopback) schedule(fn func()) {
	s.runq = append(s.runq, fn)
}

func (s *Loopback) Get(name, mimeType string, appParams []byte) (Exchange, error) {
	if !s.connected {
		return nil, ErrNotConnected
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.Clean(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open remote object %q: %w", name, err)
	}

	logging.Log.Debugf("loopback: get %q type %q (%d bytes)", name, mimeType, len(data))

	return &loopbackExchange{session: s, data: data, size: int64(len(data))}, nil
}

func (s *Loopback) Put(name, mimeType string, size int64) (Exchange, error) {
	if !s.connected {
		return nil, ErrNotConnected
	}

	logging.Log.Debugf("loopback: put %q type %q (%d bytes)", name, mimeType, size)

	return &loopbackExchange{
		session:  s,
		outbound: true,
		sinkPath: filepath.Join(s.root, filepath.Clean(name)),
		size:     size,
	}, nil
}

type loopbackExchange struct {
	session  *Loopback
	outbound bool

	// inbound state
	data []byte
	pos  int

	// outbound state
	sinkPath string
	sink     []byte

	size    int64
	handler func()
	closed  bool
}

func (x *loopbackExchange) SetHandler(fn func()) {
	x.handler = fn
	// First chunk (or sink readiness) is announced as soon as a handler
	// is in place.
	x.scheduleHandler()
}

func (x *loopbackExchange) scheduleHandler() {
	x.session.schedule(func() {
		if x.closed || x.handler == nil {
			return
		}
		x.handler()
	})
}

func (x *loopbackExchange) Read(p []byte) (int, error) {
	n := len(x.data) - x.pos
	if n > len(p) {
		n = len(p)
	}
	if n > x.session.chunkSize {
		n = x.session.chunkSize
	}
	copy(p, x.data[x.pos:x.pos+n])
	x.pos += n

	// More inbound data pending: the transport announces it on its own.
	if x.pos < len(x.data) {
		x.scheduleHandler()
	}
	return n, nil
}

func (x *loopbackExchange) Write(p []byte) (int, error) {
	n := len(p)
	if x.session.writeLimit > 0 && n > x.session.writeLimit {
		n = x.session.writeLimit
	}
	x.sink = append(x.sink, p[:n]...)
	return n, nil
}

func (x *loopbackExchange) Flush() error {
	if x.outbound {
		x.scheduleHandler()
	}
	return nil
}

func (x *loopbackExchange) ObjectSize() int64 {
	return x.size
}

func (x *loopbackExchange) ObjectDone() bool {
	return !x.outbound && x.pos >= len(x.data)
}

func (x *loopbackExchange) Abort() {
	x.closed = true
	x.sink = nil
}

func (x *loopbackExchange) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true

	if x.outbound && x.sinkPath != "" {
		if err := os.WriteFile(x.sinkPath, x.sink, 0600); err != nil {
			return fmt.Errorf("failed to store uploaded object: %w", err)
		}
	}
	return nil
}
