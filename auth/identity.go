package auth

import (
	"context"
	"strconv"

	"holoholo/models"
)

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID   int64
	Username string
	Role     models.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

// SessionKey identifies the caller's cart.
func (i *Identity) SessionKey() string {
	return strconv.FormatInt(i.UserID, 10)
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns nil for anonymous requests.
func IdentityFrom(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
}
