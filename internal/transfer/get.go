package transfer

import (
	"bytes"
	"fmt"

	"github.com/obexkit/obexkit/internal/buffer"
	"github.com/obexkit/obexkit/internal/localio"
)

// Get starts an inbound transfer of the remote object. Listing kinds
// accumulate into memory, everything else streams to the local file. A
// connectivity refusal is returned synchronously and no continuation is
// ever scheduled; all later errors arrive through the callback.
func (t *Transfer) Get(cb Callback) error {
	if t.xfer != nil {
		return ErrAlreadyStarted
	}

	t.direction = DirectionGet

	var step func()
	if t.kind.Listing() {
		step = t.getListingStep
	} else {
		step = t.getFileStep
	}

	xfer, err := t.owner.GetObject(t.remoteName, t.mimeType, t.params)
	if err != nil {
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

// getListingStep accumulates listing chunks into the buffer, growing it by
// whole increments. Once the object is fully delivered the accumulated
// bytes are treated as a string: a terminator is appended only if the final
// delivered byte is not one, and the reported size is the string length up
// to the first terminator, which can be shorter than the raw byte count.
// The callback fires once, at this terminal point.
func (t *Transfer) getListingStep() {
	t.buf.EnsureFree(buffer.DefaultIncrement)

	n, err := t.xfer.Read(t.buf.FreeSpace())
	if err != nil {
		t.lastErr = fmt.Errorf("transport read failed: %w", err)
		t.finishListing()
		return
	}
	t.buf.Advance(n)

	if !t.xfer.ObjectDone() {
		return
	}

	b := t.buf.Bytes()
	if len(b) == 0 || b[len(b)-1] != 0x00 {
		t.buf.EnsureFree(1)
		t.buf.Append([]byte{0x00})
	}

	t.finishListing()
}

func (t *Transfer) finishListing() {
	b := t.buf.Bytes()
	if i := bytes.IndexByte(b, 0x00); i >= 0 {
		t.size = int64(i)
	} else {
		t.size = int64(len(b))
	}

	if t.lastErr != nil {
		t.fail(t.lastErr)
		return
	}

	t.transferred = t.size
	t.complete()
}

// getFileStep streams one inbound chunk through the buffer into the local
// file. The buffer is reused, not accumulated: the whole filled region is
// written out and the fill count reset after every chunk. The callback
// fires with cumulative progress on every step; once transferred reaches
// the object size no further chunk is requested.
func (t *Transfer) getFileStep() {
	if t.file == nil {
		name := t.localName
		if name == "" {
			name = t.remoteName
		}
		sink, err := localio.OpenSink(name)
		if err != nil {
			t.fail(err)
			return
		}
		t.file = sink
	}

	t.buf.EnsureFree(buffer.DefaultIncrement)

	n, err := t.xfer.Read(t.buf.FreeSpace())
	if err != nil {
		t.fail(fmt.Errorf("transport read failed: %w", err))
		return
	}
	t.buf.Advance(n)
	t.transferred += int64(n)

	if t.size == 0 {
		t.size = t.xfer.ObjectSize()
	}

	if err := t.file.Write(t.buf.Bytes()); err != nil {
		t.fail(err)
		return
	}
	t.buf.Reset()

	if t.size > 0 && t.transferred == t.size {
		t.complete()
		return
	}

	t.xfer.Flush()
	t.notify(nil)
}
