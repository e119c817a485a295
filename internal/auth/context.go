package auth

import (
	"context"

	"github.com/clientauth/clientauth/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const clientContextKey contextKey = "auth_client"

// ContextWithClient adds the authenticated client to the context.
func ContextWithClient(ctx context.Context, client *model.SafeClient) context.Context {
	return context.WithValue(ctx, clientContextKey, client)
}

// ClientFromContext retrieves the authenticated client from the context.
// Returns nil if not present.
func ClientFromContext(ctx context.Context) *model.SafeClient {
	client, ok := ctx.Value(clientContextKey).(*model.SafeClient)
	if !ok {
		return nil
	}
	return client
}

// ClientIDFromContext returns the authenticated client's ID, or empty string.
func ClientIDFromContext(ctx context.Context) string {
	client := ClientFromContext(ctx)
	if client == nil {
		return ""
	}
	return client.ID
}
