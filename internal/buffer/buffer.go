package buffer

// DefaultIncrement is the granularity the buffer grows by.
const DefaultIncrement = 4096

// Buffer is a growable byte accumulator with explicit fill-length tracking.
// Bytes in [0, Filled()) are valid; anything beyond is scratch space. The
// buffer never shrinks, so it can be reused across continuation steps
// without reallocating.
type Buffer struct {
	data   []byte
	filled int
}

// EnsureFree grows the storage, in whole increments, until at least n bytes
// of free space remain past the filled region. Existing filled bytes are
// preserved. It is a no-op when enough headroom already exists.
func (b *Buffer) EnsureFree(n int) {
	for len(b.data)-b.filled < n {
		grown := make([]byte, len(b.data)+DefaultIncrement)
		copy(grown, b.data[:b.filled])
		b.data = grown
	}
}

// Append copies p into the buffer at the fill offset and advances it.
// Capacity must have been ensured beforehand.
func (b *Buffer) Append(p []byte) {
	copy(b.data[b.filled:], p)
	b.filled += len(p)
}

// Consume drops the first n filled bytes, shifting the remainder down to
// offset zero. Used after a partial write accepted only a prefix.
func (b *Buffer) Consume(n int) {
	if n <= 0 {
		return
	}
	if n > b.filled {
		n = b.filled
	}
	copy(b.data, b.data[n:b.filled])
	b.filled -= n
}

// Advance marks n additional bytes as filled, after a read into FreeSpace.
func (b *Buffer) Advance(n int) {
	b.filled += n
}

// Reset discards the filled region without shrinking the storage.
func (b *Buffer) Reset() {
	b.filled = 0
}

// Bytes returns the valid region of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.filled]
}

// FreeSpace returns the writable region past the filled bytes.
func (b *Buffer) FreeSpace() []byte {
	return b.data[b.filled:]
}

// Filled returns the number of valid bytes in the buffer.
func (b *Buffer) Filled() int {
	return b.filled
}

// Cap returns the total allocated storage.
func (b *Buffer) Cap() int {
	return len(b.data)
}
