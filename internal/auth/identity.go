package auth

import "context"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	// TokenHeader carries the login token issued by /a/login.
	TokenHeader = "X-GF-TOKEN"
)

// Identity is the authenticated user a request acts for.
// It is resolved by the auth middleware and passed explicitly through context.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type identityCtxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	if !ok || id.Username == "" {
		return Identity{}, false
	}
	return id, true
}
