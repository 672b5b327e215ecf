package protocol

import (
	"io"

	"remotefs/wire"
)

// The request types pin down the argument order of every call. A client stub
// calls Encode, the paired server handler calls Decode; both walk the same
// field list so the number of frames consumed always matches the number sent.

// OpenRequest carries the arguments of an OPEN call.
// Mode is an optional field: it is on the wire if and only if Flags has
// FlagCreate set. Both Encode and Decode derive its presence from Flags,
// never from the struct value, so the two sides cannot disagree.
type OpenRequest struct {
	Path  string
	Flags uint32
	Mode  uint32 // permission bits for a created file; ignored without FlagCreate
}

func (q *OpenRequest) Encode(w io.Writer) error {
	if err := wire.WriteFrame(w, []byte(q.Path)); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, q.Flags); err != nil {
		return err
	}
	if q.Flags&FlagCreate != 0 {
		return wire.WriteUint32(w, q.Mode)
	}
	return nil
}

func (q *OpenRequest) Decode(r io.Reader) error {
	path, err := wire.ReadFrame(r)
	if err != nil {
		return err
	}
	q.Path = string(path)
	if q.Flags, err = wire.ReadUint32(r); err != nil {
		return err
	}
	q.Mode = 0
	if q.Flags&FlagCreate != 0 {
		if q.Mode, err = wire.ReadUint32(r); err != nil {
			return err
		}
	}
	return nil
}

// CloseRequest carries the arguments of a CLOSE call.
type CloseRequest struct {
	FD uint32
}

func (q *CloseRequest) Encode(w io.Writer) error {
	return wire.WriteUint32(w, q.FD)
}

func (q *CloseRequest) Decode(r io.Reader) error {
	fd, err := wire.ReadUint32(r)
	q.FD = fd
	return err
}

// ReadRequest carries the arguments of a READ call. The client sends its
// buffer's current contents before the count; the server consumes and
// discards that frame. The order is part of the protocol contract.
type ReadRequest struct {
	FD     uint32
	Buffer []byte
	Count  uint32
}

func (q *ReadRequest) Encode(w io.Writer) error {
	if err := wire.WriteUint32(w, q.FD); err != nil {
		return err
	}
	if err := wire.WriteFrame(w, q.Buffer); err != nil {
		return err
	}
	return wire.WriteUint32(w, q.Count)
}

func (q *ReadRequest) Decode(r io.Reader) error {
	var err error
	if q.FD, err = wire.ReadUint32(r); err != nil {
		return err
	}
	if q.Buffer, err = wire.ReadFrame(r); err != nil {
		return err
	}
	q.Count, err = wire.ReadUint32(r)
	return err
}

// WriteRequest carries the arguments of a WRITE call. Same layout as READ;
// here the buffer frame is the data to write and Count says how much of it.
type WriteRequest struct {
	FD     uint32
	Buffer []byte
	Count  uint32
}

func (q *WriteRequest) Encode(w io.Writer) error {
	if err := wire.WriteUint32(w, q.FD); err != nil {
		return err
	}
	if err := wire.WriteFrame(w, q.Buffer); err != nil {
		return err
	}
	return wire.WriteUint32(w, q.Count)
}

func (q *WriteRequest) Decode(r io.Reader) error {
	var err error
	if q.FD, err = wire.ReadUint32(r); err != nil {
		return err
	}
	if q.Buffer, err = wire.ReadFrame(r); err != nil {
		return err
	}
	q.Count, err = wire.ReadUint32(r)
	return err
}

// SeekRequest carries the arguments of a SEEK call. The offset travels as a
// signed 32-bit wire field even though local offsets may be wider; files
// beyond 2 GiB are outside the protocol's addressable range.
type SeekRequest struct {
	FD     uint32
	Offset int32
	Whence uint32
}

func (q *SeekRequest) Encode(w io.Writer) error {
	if err := wire.WriteUint32(w, q.FD); err != nil {
		return err
	}
	if err := wire.WriteInt32(w, q.Offset); err != nil {
		return err
	}
	return wire.WriteUint32(w, q.Whence)
}

func (q *SeekRequest) Decode(r io.Reader) error {
	var err error
	if q.FD, err = wire.ReadUint32(r); err != nil {
		return err
	}
	if q.Offset, err = wire.ReadInt32(r); err != nil {
		return err
	}
	q.Whence, err = wire.ReadUint32(r)
	return err
}

// ChecksumRequest carries the arguments of a CHECKSUM call.
type ChecksumRequest struct {
	FD        uint32
	BlockSize uint32
}

func (q *ChecksumRequest) Encode(w io.Writer) error {
	if err := wire.WriteUint32(w, q.FD); err != nil {
		return err
	}
	return wire.WriteUint32(w, q.BlockSize)
}

func (q *ChecksumRequest) Decode(r io.Reader) error {
	var err error
	if q.FD, err = wire.ReadUint32(r); err != nil {
		return err
	}
	q.BlockSize, err = wire.ReadUint32(r)
	return err
}
