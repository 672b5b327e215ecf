package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	payload := []byte("hello world")

	var buf bytes.Buffer
	if err := WriteFrame(&buf, payload); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: got %q, want %q", got, payload)
	}
	if buf.Len() != 0 {
		t.Errorf("frame left %d unread bytes behind", buf.Len())
	}
}

func TestEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty payload, got %d bytes", len(got))
	}
}

func TestReadFrameConnClosed(t *testing.T) {
	// An empty stream means the peer closed cleanly, not an empty frame
	// and not a transport error.
	var buf bytes.Buffer
	_, err := ReadFrame(&buf)
	if !errors.Is(err, ErrConnClosed) {
		t.Fatalf("expected ErrConnClosed, got %v", err)
	}
}

func TestReadFramePartialPrefix(t *testing.T) {
	// A stream that dies inside the length prefix is a transport error,
	// never a clean close.
	buf := bytes.NewBuffer([]byte{0x00, 0x00, 0x00})
	_, err := ReadFrame(buf)
	if err == nil {
		t.Fatal("expected error for truncated prefix, got nil")
	}
	if errors.Is(err, ErrConnClosed) {
		t.Fatalf("truncated prefix must not look like a clean close: %v", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], 10)
	buf.Write(prefix[:])
	buf.Write([]byte("four"))

	_, err := ReadFrame(&buf)
	if err == nil {
		t.Fatal("expected error for truncated payload, got nil")
	}
	if errors.Is(err, ErrConnClosed) {
		t.Fatalf("truncated payload must not look like a clean close: %v", err)
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], MaxFrameSize+1)
	buf.Write(prefix[:])

	_, err := ReadFrame(&buf)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 1024, -1024, 2147483647, -2147483648}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteInt32(&buf, v); err != nil {
			t.Fatalf("WriteInt32(%d) failed: %v", v, err)
		}
		got, err := ReadInt32(&buf)
		if err != nil {
			t.Fatalf("ReadInt32 failed: %v", err)
		}
		if got != v {
			t.Errorf("int32 mismatch: got %d, want %d", got, v)
		}
	}
}

func TestUint32RoundTrip(t *testing.T) {
	values := []uint32{0, 1, 0x40, 4294967295}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteUint32(&buf, v); err != nil {
			t.Fatalf("WriteUint32(%d) failed: %v", v, err)
		}
		got, err := ReadUint32(&buf)
		if err != nil {
			t.Fatalf("ReadUint32 failed: %v", err)
		}
		if got != v {
			t.Errorf("uint32 mismatch: got %d, want %d", got, v)
		}
	}
}

func TestInt16RoundTrip(t *testing.T) {
	values := []int16{0, 4, -1, 255, 32767, -32768}
	for _, v := range values {
		var buf bytes.Buffer
		if err := WriteInt16(&buf, v); err != nil {
			t.Fatalf("WriteInt16(%d) failed: %v", v, err)
		}
		got, err := ReadInt16(&buf)
		if err != nil {
			t.Fatalf("ReadInt16 failed: %v", err)
		}
		if got != v {
			t.Errorf("int16 mismatch: got %d, want %d", got, v)
		}
	}
}

func TestTypedWidthMismatch(t *testing.T) {
	// A 2-byte frame is not a valid uint32; undersized frames are a
	// protocol error, not silently zero-extended.
	var buf bytes.Buffer
	if err := WriteUint16(&buf, 7); err != nil {
		t.Fatal(err)
	}
	_, err := ReadUint32(&buf)
	if !errors.Is(err, ErrFrameSize) {
		t.Fatalf("expected ErrFrameSize, got %v", err)
	}
}
