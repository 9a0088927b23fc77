package utils

import (
	"context"

	"catalog-api/internal/data/entity"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Identity is the caller resolved by the authentication gate: the user and
// the id of the token presented on this request.
type Identity struct {
	User    *entity.User
	TokenID int64
}

// UserID returns the id of the authenticated user.
func (i *Identity) UserID() int64 {
	return i.User.ID
}

// SetIdentity attaches the resolved caller to the request context
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity returns the caller set by the authentication gate
func GetIdentity(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}
