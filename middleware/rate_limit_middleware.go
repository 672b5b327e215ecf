package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"remotefs/protocol"
)

// RateLimitMiddleware throttles calls with a token bucket. It waits for a
// token instead of rejecting: by the time dispatch runs, the call code is
// already off the stream and its argument frames are committed behind it,
// so dropping the call would desynchronize the connection. Waiting keeps
// the request/response pairing intact and simply slows the client down.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, op protocol.Op) error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			return next(ctx, op)
		}
	}
}
