package wire

import (
	"encoding/binary"
	"io"
)

// Typed helpers wrap the framing layer for fixed-width integers. Each value
// travels as its own frame, big-endian, so both ends agree on byte order
// regardless of host architecture. Signed values reuse the unsigned path;
// the bit pattern is what goes on the wire.

func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return WriteFrame(w, buf[:])
}

func ReadUint32(r io.Reader) (uint32, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return 0, err
	}
	if len(payload) != 4 {
		return 0, ErrFrameSize
	}
	return binary.BigEndian.Uint32(payload), nil
}

func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

func WriteUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	return WriteFrame(w, buf[:])
}

func ReadUint16(r io.Reader) (uint16, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return 0, err
	}
	if len(payload) != 2 {
		return 0, ErrFrameSize
	}
	return binary.BigEndian.Uint16(payload), nil
}

func WriteInt16(w io.Writer, v int16) error {
	return WriteUint16(w, uint16(v))
}

func ReadInt16(r io.Reader) (int16, error) {
	v, err := ReadUint16(r)
	return int16(v), err
}
