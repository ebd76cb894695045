package actorctx_test

import (
	"context"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

func TestIdentityRoundTrip(t *testing.T) {
	ctx := actorctx.WithIdentity(context.Background(), actorctx.Identity{
		UserID: "u-1",
		Name:   "Sita",
		Role:   user.RoleAdmin,
		Client: "web",
	})

	id, ok := actorctx.IdentityFrom(ctx)
	if !ok {
		t.Fatalf("expected identity on context")
	}
	if id.UserID != "u-1" || id.Role != user.RoleAdmin || id.Name != "Sita" {
		t.Fatalf("unexpected identity: %+v", id)
	}

	uid, ok := actorctx.UserIDFrom(ctx)
	if !ok || uid != "u-1" {
		t.Fatalf("UserIDFrom = %q, %v", uid, ok)
	}
}

func TestIdentityMissing(t *testing.T) {
	if _, ok := actorctx.IdentityFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry an identity")
	}

	ctx := actorctx.WithIdentity(context.Background(), actorctx.Identity{Role: user.RoleCustomer})
	if _, ok := actorctx.IdentityFrom(ctx); ok {
		t.Fatalf("identity without user id must be rejected")
	}
}
