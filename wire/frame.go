// Package wire implements the framing layer of the remote call protocol.
//
// Every unit on the wire is a frame: an 8-byte big-endian length prefix
// followed by exactly that many payload bytes. The receiver reads the prefix
// first to learn the payload length, then reads exactly that many bytes.
// Uses io.ReadFull throughout so a frame is either consumed whole or the
// read fails; partial frames never escape this package.
//
// Frame format:
//
//	0                 8
//	┌─────────────────┬────────────────┐
//	│ length (uint64) │  payload ...   │
//	│   big-endian    │  length bytes  │
//	└─────────────────┴────────────────┘
//
// A zero-byte read of the length prefix means the peer ended the stream;
// that is reported as ErrConnClosed, distinct from any transport error.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const prefixSize = 8

// MaxFrameSize caps how much a single frame may ask us to allocate.
// A corrupt or hostile length prefix is rejected before the allocation
// instead of taking the process down with it.
const MaxFrameSize = 64 << 20

var (
	// ErrConnClosed reports the clean end-of-stream condition: the peer
	// closed the connection before the length prefix of the next frame.
	ErrConnClosed = errors.New("wire: connection closed by peer")

	// ErrFrameTooLarge reports a length prefix exceeding MaxFrameSize.
	ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

	// ErrFrameSize reports a frame whose payload length does not match
	// the fixed-width integer a typed read expected.
	ErrFrameSize = errors.New("wire: unexpected frame size for fixed-width integer")
)

// WriteFrame writes the length prefix followed by the payload.
// A nil or empty payload produces a zero-length frame, which the peer
// decodes as an empty (not closed) frame.
func WriteFrame(w io.Writer, payload []byte) error {
	var prefix [prefixSize]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("wire: write length prefix: %w", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w", err)
	}
	return nil
}

// ReadFrame reads exactly one frame and returns its payload.
// Returns ErrConnClosed if the stream ended cleanly before the prefix;
// a stream that ends mid-frame is a transport error, not a clean close.
func ReadFrame(r io.Reader) ([]byte, error) {
	var prefix [prefixSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return nil, ErrConnClosed
		}
		return nil, fmt.Errorf("wire: read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint64(prefix[:])
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	if length == 0 {
		return []byte{}, nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("wire: read payload: %w", err)
	}
	return payload, nil
}
