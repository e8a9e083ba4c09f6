package model

import "context"

// ContextManager propagates the authenticated user's email through request
// contexts.
type ContextManager interface {
	SetUserEmail(ctx context.Context, email string) context.Context
	UserEmail(ctx context.Context) (string, bool)
}
