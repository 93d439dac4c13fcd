package auth

import "context"

type ctxKey struct{}

// NewContext returns a context carrying the session. Wire this once at
// startup; everything below reads the session via FromContext.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by NewContext.
//
// It panics when no session is attached: that is a wiring bug, not a runtime
// condition, and should blow up in development rather than limp along as a
// silently anonymous session.
func FromContext(ctx context.Context) *Session {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	if !ok {
		panic("auth: FromContext called with no session attached; wrap the context with auth.NewContext first")
	}
	return s
}
