// Package middleware provides the interceptor chain wrapped around the
// server's per-call dispatch. An interceptor sees the call code before the
// handler runs and the handler's error afterwards; it must call next exactly
// once, because the handler is what consumes the call's argument frames;
// skipping it would leave them on the stream and desynchronize the
// connection.
package middleware

import (
	"context"

	"remotefs/protocol"
)

// HandlerFunc serves one dispatched call. A non-nil error is fatal to the
// connection (transport or protocol failure); remote syscall failures are
// answered on the wire and return nil here.
type HandlerFunc func(ctx context.Context, op protocol.Op) error

// Middleware wraps a HandlerFunc with another.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain combines middlewares into one. Chain(A, B, C)(handler) runs
// A before B before C before the handler, onion style.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
