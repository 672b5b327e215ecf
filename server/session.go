package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"

	"remotefs/middleware"
	"remotefs/protocol"
	"remotefs/wire"
)

// firstHandle is the first file-handle number a session hands out. The
// numbering is connection-local: handle 3 on one connection and handle 3 on
// another are unrelated files.
const firstHandle = 3

// session is the per-connection dispatch state. It cycles between awaiting
// a call code, dispatching the matching handler, and responding, until the
// peer ends the stream (clean termination) or a transport/protocol fault
// ends the session with an error.
type session struct {
	conn     net.Conn
	logger   *zap.Logger
	files    map[uint32]*os.File
	nextFD   uint32
	handlers map[protocol.Op]func() error
	invoke   middleware.HandlerFunc
}

func newSession(conn net.Conn, logger *zap.Logger, middlewares []middleware.Middleware) *session {
	sess := &session{
		conn:   conn,
		logger: logger,
		files:  make(map[uint32]*os.File),
		nextFD: firstHandle,
	}
	sess.handlers = map[protocol.Op]func() error{
		protocol.OpOpen:     sess.handleOpen,
		protocol.OpClose:    sess.handleClose,
		protocol.OpRead:     sess.handleRead,
		protocol.OpWrite:    sess.handleWrite,
		protocol.OpSeek:     sess.handleSeek,
		protocol.OpChecksum: sess.handleChecksum,
	}
	sess.invoke = middleware.Chain(middlewares...)(sess.dispatch)
	return sess
}

// run is the dispatch loop. A nil return means the peer closed the stream
// between calls; any error return is a fault that must kill only this
// connection.
func (sess *session) run(ctx context.Context) error {
	for {
		code, err := wire.ReadUint32(sess.conn)
		if err != nil {
			if errors.Is(err, wire.ErrConnClosed) {
				return nil
			}
			return fmt.Errorf("read call code: %w", err)
		}

		op := protocol.Op(code)
		if _, ok := sess.handlers[op]; !ok {
			return fmt.Errorf("unrecognized call code %d", code)
		}

		if err := sess.invoke(ctx, op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
}

// dispatch routes a validated call code to its handler. It sits at the
// center of the middleware chain.
func (sess *session) dispatch(ctx context.Context, op protocol.Op) error {
	return sess.handlers[op]()
}

// closeFiles releases every file the session still holds open. Runs at
// session teardown; handles are never reclaimed while the connection
// lives, except by an explicit CLOSE call.
func (sess *session) closeFiles() {
	for fd, f := range sess.files {
		if err := f.Close(); err != nil {
			sess.logger.Warn("closing leftover file handle",
				zap.Uint32("fd", fd), zap.Error(err))
		}
	}
	sess.files = nil
}
