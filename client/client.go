// Package client provides the call stubs for the remote filesystem
// protocol: one method per remote operation, each returning the same
// numeric convention a local syscall would (count, descriptor, or -1) plus
// an error. When the server reports a failed operation, the error is the
// server's errno as a syscall.Errno, so errors.Is against os sentinels like
// os.ErrNotExist works the same as for a local call.
//
// A Client is one connection with strictly sequential request/response
// pairs; it is not safe for concurrent use.
package client

import (
	"fmt"
	"net"

	"go.uber.org/zap"

	"remotefs/protocol"
	"remotefs/wire"
)

// Client issues remote filesystem calls over a single connection.
type Client struct {
	conn   net.Conn
	logger *zap.Logger
}

// Dial connects to a remote filesystem server. A nil logger disables
// logging.
func Dial(addr string, logger *zap.Logger) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return NewClient(conn, logger), nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{conn: conn, logger: logger}
}

// Close ends the connection. Remote handles still open die with the
// server-side session; CloseFile them first if their fate matters.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendCall(op protocol.Op) error {
	if err := wire.WriteUint32(c.conn, uint32(op)); err != nil {
		return fmt.Errorf("send %s call code: %w", op, err)
	}
	return nil
}

// Open opens path on the server and returns a remote file handle. The
// handle is scoped to this connection. Mode takes effect only when flags
// includes protocol.FlagCreate; without it no mode travels on the wire.
func (c *Client) Open(path string, flags uint32, mode uint32) (int32, error) {
	if err := c.sendCall(protocol.OpOpen); err != nil {
		return -1, err
	}
	req := protocol.OpenRequest{Path: path, Flags: flags, Mode: mode}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send OPEN args: %w", err)
	}

	result, errno, err := protocol.ReadResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive OPEN result: %w", err)
	}
	if result == -1 {
		return -1, errno
	}
	c.logger.Debug("remote open", zap.String("path", path), zap.Int32("fd", result))
	return result, nil
}

// CloseFile closes a remote file handle.
func (c *Client) CloseFile(fd uint32) (int32, error) {
	if err := c.sendCall(protocol.OpClose); err != nil {
		return -1, err
	}
	req := protocol.CloseRequest{FD: fd}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send CLOSE args: %w", err)
	}

	result, errno, err := protocol.ReadResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive CLOSE result: %w", err)
	}
	if result == -1 {
		return -1, errno
	}
	return result, nil
}

// Read reads up to len(buf) bytes from the remote handle's current position
// into buf. Returns the byte count; 0 means end of file. The buffer's
// current contents travel with the request, an artifact of the marshalling
// order the server expects, not data it uses.
func (c *Client) Read(fd uint32, buf []byte) (int32, error) {
	if err := c.sendCall(protocol.OpRead); err != nil {
		return -1, err
	}
	req := protocol.ReadRequest{FD: fd, Buffer: buf, Count: uint32(len(buf))}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send READ args: %w", err)
	}

	result, errno, err := protocol.ReadResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive READ result: %w", err)
	}
	if result == -1 {
		return -1, errno
	}

	if result > 0 {
		data, err := wire.ReadFrame(c.conn)
		if err != nil {
			return -1, fmt.Errorf("receive READ data: %w", err)
		}
		copy(buf, data)
	}
	return result, nil
}

// Write writes buf to the remote handle's current position and returns the
// byte count written. The server echoes the written bytes back after the
// result; the stub consumes that frame to keep the stream aligned.
func (c *Client) Write(fd uint32, buf []byte) (int32, error) {
	if err := c.sendCall(protocol.OpWrite); err != nil {
		return -1, err
	}
	req := protocol.WriteRequest{FD: fd, Buffer: buf, Count: uint32(len(buf))}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send WRITE args: %w", err)
	}

	result, errno, err := protocol.ReadResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive WRITE result: %w", err)
	}
	if result == -1 {
		return -1, errno
	}

	if result > 0 {
		if _, err := wire.ReadFrame(c.conn); err != nil {
			return -1, fmt.Errorf("receive WRITE echo: %w", err)
		}
	}
	return result, nil
}

// Seek repositions the remote handle and returns the new offset from the
// start of the file. Whence takes the protocol.Seek* values.
func (c *Client) Seek(fd uint32, offset int32, whence uint32) (int32, error) {
	if err := c.sendCall(protocol.OpSeek); err != nil {
		return -1, err
	}
	req := protocol.SeekRequest{FD: fd, Offset: offset, Whence: whence}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send SEEK args: %w", err)
	}

	result, errno, err := protocol.ReadResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive SEEK result: %w", err)
	}
	if result == -1 {
		return -1, errno
	}
	return result, nil
}

// Checksum asks the server for the XOR-fold checksum of the whole file
// behind fd, read in blocks of blockSize bytes. The server leaves the file
// position at the start of the file.
func (c *Client) Checksum(fd uint32, blockSize uint32) (int16, error) {
	if err := c.sendCall(protocol.OpChecksum); err != nil {
		return -1, err
	}
	req := protocol.ChecksumRequest{FD: fd, BlockSize: blockSize}
	if err := req.Encode(c.conn); err != nil {
		return -1, fmt.Errorf("send CHECKSUM args: %w", err)
	}

	sum, errno, err := protocol.ReadChecksumResult(c.conn)
	if err != nil {
		return -1, fmt.Errorf("receive CHECKSUM result: %w", err)
	}
	if sum == -1 && errno != 0 {
		return -1, errno
	}
	return sum, nil
}
