package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/repo/memory"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store          *memory.Store
	tokens         *auth.Manager
	auth           *Auth
	users          *Users
	categories     *Categories
	providers      *Providers
	services       *Services
	availabilities *Availabilities
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := memory.NewStore()
	tokens := auth.NewManager("test-secret", 15*time.Minute, 30*24*time.Hour)
	listing := NewListingCache(cache.NewMemory(time.Minute), nil, nil)

	return &fixture{
		store:          s,
		tokens:         tokens,
		auth:           NewAuth(s.Users(), tokens, nil),
		users:          NewUsers(s.Users(), listing),
		categories:     NewCategories(s.Categories(), s.Providers(), listing),
		providers:      NewProviders(s.Providers(), s.Users(), s.Services(), listing),
		services:       NewServices(s.Services(), s.Providers(), s.Categories(), listing),
		availabilities: NewAvailabilities(s.Availabilities(), s.Providers()),
	}
}

func (f *fixture) register(t *testing.T, email string) actorctx.Identity {
	t.Helper()
	u, err := f.auth.Register(context.Background(), user.RegisterRequest{Email: email, Password: "secret1", Name: "User " + email})
	require.NoError(t, err)
	return actorctx.Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}

func (f *fixture) admin(t *testing.T) actorctx.Identity {
	t.Helper()
	u := user.NewFromRegister(user.RegisterRequest{Email: "admin@x.com", Name: "Admin"}, "x")
	u.Role = user.RoleAdmin
	created, err := f.store.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return actorctx.Identity{UserID: created.ID, Name: created.Name, Role: created.Role}
}

func (f *fixture) category(t *testing.T, name, slug string) category.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), category.CreateRequest{Name: name, Slug: slug})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "err: %v", err)
}
