package session

import "context"

type contextKey string

const sessionContextKey contextKey = "session"

// WithContext returns a context carrying the session.
func WithContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext returns the session carried by the context, or nil.
func FromContext(ctx context.Context) *Session {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

// Credentials exposes the context session's backend token as a credential
// source for the backend client. The token is read from the request
// context on every call, never from package state.
type Credentials struct{}

// Token implements the backend client's CredentialSource.
func (Credentials) Token(ctx context.Context) (string, bool) {
	sess := FromContext(ctx)
	if sess == nil || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
