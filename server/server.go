// Package server implements the remote filesystem call server.
//
// Connection handling:
//
//	Accept conn → one goroutine per connection (handleConn)
//	  → session dispatch loop: read call code → middleware chain → handler
//	    → handler reads argument frames, runs the local file operation,
//	      writes the result (and errno on failure) back
//
// Every connection owns a private file-handle table; nothing is shared
// between connections, so a handle number means nothing outside the
// connection that opened it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"remotefs/middleware"
	"remotefs/registry"
)

// ServiceName is the name the server registers under when a registry is
// provided.
const ServiceName = "remotefs"

// registrationTTL is the lease TTL in seconds for registry entries;
// KeepAlive renews it automatically.
const registrationTTL = 10

// Server accepts client connections and serves remote filesystem calls on
// each until the peer closes it or a protocol fault kills it.
type Server struct {
	logger      *zap.Logger
	wg          sync.WaitGroup // in-flight connections, for shutdown
	shutdown    atomic.Bool    // suppresses the Accept error caused by Shutdown
	connSeq     atomic.Uint64  // connection ids for logging
	middlewares []middleware.Middleware

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{} // tracked so Shutdown can end stalled sessions

	registry      registry.Registry
	advertiseAddr string // address registered in the registry; must be routable
}

// NewServer creates a server. A nil logger disables logging.
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		logger: logger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Use registers a middleware around call dispatch. Middlewares run in the
// order they were added. Must be called before Serve.
func (s *Server) Use(mw middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// Serve listens on the given address and accepts connections until Shutdown
// closes the listener or Accept fails. When reg is non-nil the server
// registers advertiseAddr under ServiceName first; pass nil to skip
// registration entirely.
func (s *Server) Serve(network, address string, advertiseAddr string, reg registry.Registry) error {
	listener, err := net.Listen(network, address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	// Shutdown may have run before the listener was stored; it had
	// nothing to close then, so honor it here instead of accepting.
	if s.shutdown.Load() {
		listener.Close()
		return nil
	}

	if reg != nil {
		s.registry = reg
		s.advertiseAddr = advertiseAddr
		if err := reg.Register(ServiceName, registry.ServiceInstance{Addr: advertiseAddr}, registrationTTL); err != nil {
			listener.Close()
			return fmt.Errorf("register %s: %w", advertiseAddr, err)
		}
	}

	s.logger.Info("server listening", zap.String("addr", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Shutdown closes the listener, which surfaces here as an
			// Accept error; the flag tells intentional close apart from
			// a real fault.
			if s.shutdown.Load() {
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Addr returns the listening address, or nil before Serve has bound it.
// Handy when listening on port 0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// handleConn runs one connection's session to completion. A clean close by
// the peer and a faulted session log differently; either way every file the
// session opened is released when it ends.
func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.trackConn(conn, true)
	defer s.trackConn(conn, false)

	logger := s.logger.With(
		zap.Uint64("conn", s.connSeq.Add(1)),
		zap.String("remote", conn.RemoteAddr().String()),
	)
	logger.Info("connection accepted")

	sess := newSession(conn, logger, s.middlewares)
	defer sess.closeFiles()

	if err := sess.run(context.Background()); err != nil {
		logger.Error("connection faulted", zap.Error(err))
		return
	}
	logger.Info("connection closed by client")
}

func (s *Server) trackConn(conn net.Conn, add bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if add {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// Shutdown stops the server:
//  1. deregister from the registry, so clients stop resolving here
//  2. set the shutdown flag, then close the listener (order matters: the
//     flag must be visible before Accept fails)
//  3. close every live connection; their sessions fail out of blocking
//     reads and release their file tables
//  4. wait for the sessions to finish, bounded by timeout
func (s *Server) Shutdown(timeout time.Duration) error {
	if s.registry != nil {
		if err := s.registry.Deregister(ServiceName, s.advertiseAddr); err != nil {
			s.logger.Warn("deregister failed", zap.Error(err))
		}
	}

	s.shutdown.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("timeout waiting for connections to finish")
	}
}
