package localio

import (
	"fmt"
	"io"
	"os"
)

// File wraps the single local descriptor a transfer owns, either as the
// destination of a download or the source of an upload.
type File struct {
	f *os.File
}

// OpenSink creates (or truncates) the download destination with owner-only
// permissions.
func OpenSink(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination file: %w", err)
	}
	return &File{f: f}, nil
}

// OpenSource opens an upload source read-only and returns its size. A
// missing file is an error; nothing is created on this path.
func OpenSource(path string) (*File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open source file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to stat source file: %w", err)
	}

	return &File{f: f}, info.Size(), nil
}

// Read fills p with the next bytes of the source file. End of file is
// reported as (0, io.EOF).
func (l *File) Read(p []byte) (int, error) {
	return l.f.Read(p)
}

// Write writes all of p to the sink. Local writes are expected to be atomic
// for the full amount; a short write is a failure, not retried.
func (l *File) Write(p []byte) error {
	n, err := l.f.Write(p)
	if err != nil {
		return fmt.Errorf("failed to write to destination file: %w", err)
	}
	if n < len(p) {
		return fmt.Errorf("short write to destination file: %d of %d bytes: %w",
			n, len(p), io.ErrShortWrite)
	}
	return nil
}

// Close releases the descriptor. Safe to call once per File.
func (l *File) Close() error {
	return l.f.Close()
}

// Name returns the path the descriptor was opened with.
func (l *File) Name() string {
	return l.f.Name()
}
