package viewstate

import "context"

type contextKey struct{}

// ContextWithSession attaches the visitor session to ctx.
func ContextWithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, session)
}

// SessionFromContext returns the visitor session or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(contextKey{}).(*Session)
	return session
}
