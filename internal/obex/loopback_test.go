package obex

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoopbackGetDeliversInChunks(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "obj"), []byte("0123456789"), 0600); err != nil {
		t.Fatalf("failed to seed object: %v", err)
	}

	s := NewLoopback(root, 4, 0)
	x, err := s.Get("obj", "", nil)
	if err != nil {
		t.Fatalf("failed to open exchange: %v", err)
	}

	var reads []int
	var got []byte
	buf := make([]byte, 64)
	x.SetHandler(func() {
		n, err := x.Read(buf)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		reads = append(reads, n)
		got = append(got, buf[:n]...)
	})
	s.Pump()

	if len(reads) != 3 || reads[0] != 4 || reads[1] != 4 || reads[2] != 2 {
		t.Fatalf("unexpected chunking: %v", reads)
	}
	if !bytes.Equal(got, []byte("0123456789")) {
		t.Errorf("delivered content mismatch: %q", got)
	}
	if !x.ObjectDone() {
		t.Errorf("object not reported done")
	}
	if x.ObjectSize() != 10 {
		t.Errorf("object size %d", x.ObjectSize())
	}
}

func TestLoopbackWriteLimit(t *testing.T) {
	s := NewLoopback(t.TempDir(), 0, 4)
	x, err := s.Put("out", "", 10)
	if err != nil {
		t.Fatalf("failed to open exchange: %v", err)
	}

	n, err := x.Write([]byte("0123456789"))
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != 4 {
		t.Errorf("accepted %d bytes, want 4", n)
	}
}

func TestLoopbackPutStoresOnClose(t *testing.T) {
	root := t.TempDir()
	s := NewLoopback(root, 0, 0)

	x, err := s.Put("out.bin", "", 5)
	if err != nil {
		t.Fatalf("failed to open exchange: %v", err)
	}
	if _, err := x.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := x.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "out.bin"))
	if err != nil {
		t.Fatalf("failed to read stored object: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("stored content %q", got)
	}
}

func TestLoopbackAbortDropsUpload(t *testing.T) {
	root := t.TempDir()
	s := NewLoopback(root, 0, 0)

	x, err := s.Put("dropped.bin", "", 5)
	if err != nil {
		t.Fatalf("failed to open exchange: %v", err)
	}
	if _, err := x.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	x.Abort()
	x.Close()

	if _, err := os.Stat(filepath.Join(root, "dropped.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("aborted upload was stored anyway")
	}
}

func TestLoopbackDisconnected(t *testing.T) {
	s := NewLoopback(t.TempDir(), 0, 0)
	s.Disconnect()

	if _, err := s.Get("obj", "", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
	if _, err := s.Put("obj", "", 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestLoopbackGetMissingObject(t *testing.T) {
	s := NewLoopback(t.TempDir(), 0, 0)
	if _, err := s.Get("absent", "", nil); err == nil {
		t.Error("expected error for missing object")
	}
}
