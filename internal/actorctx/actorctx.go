package actorctx

import (
	"context"

	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

// Identity is the verified caller attached to a request after authentication.
type Identity struct {
	UserID string
	Name   string
	Role   user.Role
	Client string
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)

	return v, ok && v.UserID != ""
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := IdentityFrom(ctx)

	return id.UserID, ok
}
