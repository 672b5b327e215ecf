package server

import (
	"errors"
	"io"
	"os"
	"syscall"

	"go.uber.org/zap"

	"remotefs/checksum"
	"remotefs/protocol"
	"remotefs/wire"
)

// Each handler mirrors its client stub: it reads the argument frames in the
// exact order the stub wrote them, performs the equivalent local operation,
// and answers with the result frame (plus errno on -1, plus data for
// READ/WRITE). A handler returns an error only for transport or protocol
// failures; a failed file operation is a normal answer, not a fault.

// errnoOf extracts the errno from a local file operation's error.
// os-level errors wrap syscall.Errno; anything that doesn't reports EIO.
func errnoOf(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return syscall.EIO
}

func (sess *session) handleOpen() error {
	var req protocol.OpenRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}

	f, err := os.OpenFile(req.Path, protocol.OSFlags(req.Flags), os.FileMode(req.Mode&0o7777))
	if err != nil {
		return protocol.WriteResult(sess.conn, -1, errnoOf(err))
	}

	fd := sess.nextFD
	sess.nextFD++
	sess.files[fd] = f

	sess.logger.Debug("opened file",
		zap.String("path", req.Path), zap.Uint32("fd", fd))
	return protocol.WriteResult(sess.conn, int32(fd), 0)
}

func (sess *session) handleClose() error {
	var req protocol.CloseRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}

	f, ok := sess.files[req.FD]
	if !ok {
		return protocol.WriteResult(sess.conn, -1, syscall.EBADF)
	}
	delete(sess.files, req.FD)

	if err := f.Close(); err != nil {
		return protocol.WriteResult(sess.conn, -1, errnoOf(err))
	}
	return protocol.WriteResult(sess.conn, 0, 0)
}

func (sess *session) handleRead() error {
	var req protocol.ReadRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}
	// req.Buffer is the client buffer's prior contents; the protocol sends
	// it but only the count matters here.

	f, ok := sess.files[req.FD]
	if !ok {
		return protocol.WriteResult(sess.conn, -1, syscall.EBADF)
	}
	// The count is peer-controlled; cap it like any frame length so a
	// hostile value cannot force an unbounded allocation.
	if req.Count > wire.MaxFrameSize {
		return protocol.WriteResult(sess.conn, -1, syscall.EINVAL)
	}

	buf := make([]byte, req.Count)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return protocol.WriteResult(sess.conn, -1, errnoOf(err))
	}

	if err := protocol.WriteResult(sess.conn, int32(n), 0); err != nil {
		return err
	}
	if n > 0 {
		return wire.WriteFrame(sess.conn, buf[:n])
	}
	return nil
}

func (sess *session) handleWrite() error {
	var req protocol.WriteRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}

	f, ok := sess.files[req.FD]
	if !ok {
		return protocol.WriteResult(sess.conn, -1, syscall.EBADF)
	}
	if int(req.Count) > len(req.Buffer) {
		return protocol.WriteResult(sess.conn, -1, syscall.EINVAL)
	}

	n, err := f.Write(req.Buffer[:req.Count])
	if err != nil {
		return protocol.WriteResult(sess.conn, -1, errnoOf(err))
	}

	if err := protocol.WriteResult(sess.conn, int32(n), 0); err != nil {
		return err
	}
	if n > 0 {
		// Echo the written bytes; the stub consumes this frame to keep
		// the stream aligned.
		return wire.WriteFrame(sess.conn, req.Buffer[:n])
	}
	return nil
}

func (sess *session) handleSeek() error {
	var req protocol.SeekRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}

	f, ok := sess.files[req.FD]
	if !ok {
		return protocol.WriteResult(sess.conn, -1, syscall.EBADF)
	}

	var whence int
	switch req.Whence {
	case protocol.SeekSet:
		whence = io.SeekStart
	case protocol.SeekCur:
		whence = io.SeekCurrent
	case protocol.SeekEnd:
		whence = io.SeekEnd
	default:
		return protocol.WriteResult(sess.conn, -1, syscall.EINVAL)
	}

	off, err := f.Seek(int64(req.Offset), whence)
	if err != nil {
		return protocol.WriteResult(sess.conn, -1, errnoOf(err))
	}
	// The wire result is 32-bit; offsets past 2 GiB would truncate here.
	return protocol.WriteResult(sess.conn, int32(off), 0)
}

func (sess *session) handleChecksum() error {
	var req protocol.ChecksumRequest
	if err := req.Decode(sess.conn); err != nil {
		return err
	}

	f, ok := sess.files[req.FD]
	if !ok {
		return protocol.WriteChecksumResult(sess.conn, -1, syscall.EBADF)
	}
	if req.BlockSize == 0 {
		return protocol.WriteChecksumResult(sess.conn, -1, syscall.EINVAL)
	}

	sum, err := checksum.Sum(f, int(req.BlockSize))
	if err != nil {
		return protocol.WriteChecksumResult(sess.conn, -1, errnoOf(err))
	}
	return protocol.WriteChecksumResult(sess.conn, sum, 0)
}
