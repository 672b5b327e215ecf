package protocol

import (
	"io"
	"syscall"

	"remotefs/wire"
)

// Result convention: the server sends the numeric outcome of the local
// operation as one frame. If and only if that value is -1, one more frame
// follows carrying the server's errno so the client can reconstruct the
// failure locally. The errno frame is always 32 bits, even for the 16-bit
// checksum result.

// WriteResult sends a 32-bit call result, plus the errno frame when the
// result signals failure.
func WriteResult(w io.Writer, result int32, errno syscall.Errno) error {
	if err := wire.WriteInt32(w, result); err != nil {
		return err
	}
	if result == -1 {
		return wire.WriteInt32(w, int32(errno))
	}
	return nil
}

// ReadResult receives a 32-bit call result and, on a -1 result, the errno
// frame that follows it. The returned error covers transport failures only;
// a remote syscall failure arrives as result == -1 with a nonzero errno.
func ReadResult(r io.Reader) (int32, syscall.Errno, error) {
	result, err := wire.ReadInt32(r)
	if err != nil {
		return 0, 0, err
	}
	if result == -1 {
		code, err := wire.ReadInt32(r)
		if err != nil {
			return 0, 0, err
		}
		return result, syscall.Errno(code), nil
	}
	return result, 0, nil
}

// WriteChecksumResult sends the 16-bit checksum result; the errno frame on
// failure stays 32 bits like every other call.
func WriteChecksumResult(w io.Writer, sum int16, errno syscall.Errno) error {
	if err := wire.WriteInt16(w, sum); err != nil {
		return err
	}
	if sum == -1 {
		return wire.WriteInt32(w, int32(errno))
	}
	return nil
}

// ReadChecksumResult receives the 16-bit checksum result and, on -1, the
// errno frame that follows.
func ReadChecksumResult(r io.Reader) (int16, syscall.Errno, error) {
	sum, err := wire.ReadInt16(r)
	if err != nil {
		return 0, 0, err
	}
	if sum == -1 {
		code, err := wire.ReadInt32(r)
		if err != nil {
			return 0, 0, err
		}
		return sum, syscall.Errno(code), nil
	}
	return sum, 0, nil
}
