package usecase

import (
	"context"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@x.com")
	b := f.register(t, "b@x.com")

	_, err := f.users.UpdateMe(ctx, a, user.UpdateRequest{Phone: strPtr("9811111111")})
	require.NoError(t, err)

	_, err = f.users.UpdateMe(ctx, b, user.UpdateRequest{Phone: strPtr("9811111111")})
	requireKind(t, err, apperr.KindConflict)
	assert.Equal(t, []string{"phone"}, apperr.ConflictFields(err))

	got, err := f.users.UpdateMe(ctx, a, user.UpdateRequest{Name: strPtr(" Asha "), Password: strPtr("newsecret")})
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)

	_, err = f.auth.Login(ctx, auth.ClientWeb, user.LoginRequest{Email: "a@x.com", Password: "newsecret"})
	require.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	victim, p := setupProvider(t, f, "v@x.com")

	err := f.users.Delete(ctx, admin, admin.UserID)
	requireKind(t, err, apperr.KindForbidden)

	require.NoError(t, f.users.Delete(ctx, admin, victim.UserID))

	_, err = f.users.Get(ctx, victim.UserID)
	requireKind(t, err, apperr.KindNotFound)

	list, err := f.providers.List(ctx, provider.ListFilter{})
	require.NoError(t, err)
	for _, x := range list {
		assert.NotEqual(t, p.ID, x.ID)
	}

	err = f.users.Delete(ctx, admin, victim.UserID)
	requireKind(t, err, apperr.KindNotFound)
}
