// Package httpctx propagates the authenticated user's email through request
// contexts using an unexported key type.
package httpctx

import "context"

type ctxKey int

const userEmailKey ctxKey = iota

// Manager implements model.ContextManager for HTTP requests.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUserEmail returns a child context carrying the authenticated email.
func (m *Manager) SetUserEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, userEmailKey, email)
}

// UserEmail retrieves the authenticated email from the context.
func (m *Manager) UserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}
