// Package protocol defines the call codes, argument layouts, and result
// conventions of the remote filesystem protocol.
//
// A call is one frame carrying the 4-byte call code, followed by the
// operation's arguments, each in its own frame, in a fixed order that both
// ends must reproduce exactly (see the request types). The server answers
// with a numeric result frame; a result of -1 is followed by exactly one
// frame carrying the server's errno, otherwise no errno frame is sent.
package protocol

import "os"

// Op identifies which remote operation a call requests.
type Op uint32

const (
	OpOpen     Op = 1
	OpClose    Op = 2
	OpRead     Op = 3
	OpWrite    Op = 4
	OpSeek     Op = 5
	OpChecksum Op = 6
)

func (op Op) String() string {
	switch op {
	case OpOpen:
		return "OPEN"
	case OpClose:
		return "CLOSE"
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	case OpSeek:
		return "SEEK"
	case OpChecksum:
		return "CHECKSUM"
	default:
		return "INVALID"
	}
}

// Open flags as carried on the wire. The numbering is fixed by the protocol
// (it matches the common Linux values) so a client and server on different
// platforms still agree; OSFlags translates to the local os package values.
const (
	FlagReadOnly  uint32 = 0x000
	FlagWriteOnly uint32 = 0x001
	FlagReadWrite uint32 = 0x002
	FlagCreate    uint32 = 0x040
	FlagExcl      uint32 = 0x080
	FlagTrunc     uint32 = 0x200
	FlagAppend    uint32 = 0x400
)

// OSFlags translates wire-level open flags to the local platform's flags.
func OSFlags(flags uint32) int {
	var out int
	switch flags & 0x3 {
	case FlagWriteOnly:
		out = os.O_WRONLY
	case FlagReadWrite:
		out = os.O_RDWR
	default:
		out = os.O_RDONLY
	}
	if flags&FlagCreate != 0 {
		out |= os.O_CREATE
	}
	if flags&FlagExcl != 0 {
		out |= os.O_EXCL
	}
	if flags&FlagTrunc != 0 {
		out |= os.O_TRUNC
	}
	if flags&FlagAppend != 0 {
		out |= os.O_APPEND
	}
	return out
}

// Seek origins, numbered as in the protocol (POSIX whence values).
const (
	SeekSet uint32 = 0
	SeekCur uint32 = 1
	SeekEnd uint32 = 2
)
