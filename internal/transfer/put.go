package transfer

import (
	"fmt"
	"io"

	"github.com/obexkit/obexkit/internal/buffer"
	"github.com/obexkit/obexkit/internal/localio"
)

// Put starts an outbound transfer, sourced from the in-memory payload when
// one was registered, otherwise from the local file. Open and stat failures
// on the file source are returned synchronously, as is a connectivity
// refusal. A zero-length object completes immediately without ever opening
// an exchange.
func (t *Transfer) Put(cb Callback) error {
	if t.xfer != nil {
		return ErrAlreadyStarted
	}

	t.direction = DirectionPut

	var step func()
	if t.hasData {
		t.size = int64(len(t.data))
		step = t.putBufferStep
	} else {
		src, size, err := localio.OpenSource(t.localName)
		if err != nil {
			return err
		}
		t.file = src
		t.size = size
		step = t.putFileStep
	}

	if t.size == 0 {
		if cb != nil {
			t.SetCallback(cb)
		}
		if t.file != nil {
			t.file.Close()
			t.file = nil
		}
		t.status = StatusCompleted
		t.notify(nil)
		return nil
	}

	xfer, err := t.owner.PutObject(t.remoteName, t.mimeType, t.size)
	if err != nil {
		if t.file != nil {
			t.file.Close()
			t.file = nil
		}
		return fmt.Errorf("%w: %v", ErrNoConnection, err)
	}
	t.xfer = xfer

	if cb != nil {
		t.SetCallback(cb)
	}
	t.status = StatusInProgress

	xfer.SetHandler(step)
	return nil
}

// putBufferStep sends the unsent tail of the in-memory payload. The
// transport may accept fewer bytes than offered, so transferred advances by
// exactly the accepted count. Completion is checked before writing, so no
// write is ever issued past transferred == size.
func (t *Transfer) putBufferStep() {
	if t.transferred == t.size {
		t.complete()
		return
	}

	n, err := t.xfer.Write(t.data[t.transferred:])
	if err != nil {
		t.fail(fmt.Errorf("transport write failed: %w", err))
		return
	}
	if err := t.xfer.Flush(); err != nil {
		t.fail(fmt.Errorf("transport flush failed: %w", err))
		return
	}

	t.transferred += int64(n)

	if t.transferred == t.size {
		t.complete()
		return
	}
	t.notify(nil)
}

// putFileStep refills the buffer from the source file and drains it to the
// transport, looping while the transport keeps accepting everything
// offered. On a short write the unsent remainder is compacted to the front
// of the buffer and the step yields until the sink is ready again. The
// transfer completes once the file is exhausted and the buffer fully
// flushed.
func (t *Transfer) putFileStep() {
	if t.buf.Cap() == 0 {
		t.buf.EnsureFree(buffer.DefaultIncrement)
	}

	for {
		if !t.srcEOF && len(t.buf.FreeSpace()) > 0 {
			n, err := t.file.Read(t.buf.FreeSpace())
			if err != nil && err != io.EOF {
				t.fail(fmt.Errorf("failed to read source file: %w", err))
				return
			}
			t.buf.Advance(n)
			if n == 0 || err == io.EOF {
				t.srcEOF = true
			}
			// Everything up to the declared size is buffered; no
			// need to read again just to observe end of file.
			if t.transferred+int64(t.buf.Filled()) >= t.size {
				t.srcEOF = true
			}
		}

		if t.buf.Filled() == 0 {
			t.complete()
			return
		}

		offered := t.buf.Filled()
		n, err := t.xfer.Write(t.buf.Bytes())
		if err != nil {
			t.fail(fmt.Errorf("transport write failed: %w", err))
			return
		}
		t.transferred += int64(n)
		t.buf.Consume(n)

		if n < offered {
			// Flow controlled: push what was accepted and resume
			// on the next continuation.
			t.xfer.Flush()
			t.notify(nil)
			return
		}

		if t.srcEOF && t.buf.Filled() == 0 {
			t.complete()
			return
		}
	}
}
