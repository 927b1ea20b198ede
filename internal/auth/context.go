package auth

import (
	"context"
	"time"
)

type contextKey struct{}

// Session is the per-request authentication state, built by the middleware
// from the incoming token at request entry. It is carried on the request
// context, never in package-level state.
type Session struct {
	SessionID int64
	ExpiresAt time.Time
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Authenticated reports whether the request carries a valid session.
func Authenticated(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}
