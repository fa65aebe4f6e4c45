// Package userctx carries the authenticated owner id through a request.
package userctx

import (
	"context"
	"strings"
)

type contextKey struct{}

// WithUserID stores the owner id every storage and vault lookup is scoped to.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, strings.TrimSpace(userID))
}

// GetUserID reports false when no id, or a blank one, is set.
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(contextKey{}).(string)
	return userID, ok && userID != ""
}
