//go:build integration

package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/db"
	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

type repos struct {
	users          *postgres.UsersRepo
	categories     *postgres.CategoriesRepo
	providers      *postgres.ProvidersRepo
	services       *postgres.ServicesRepo
	availabilities *postgres.AvailabilitiesRepo
}

// setupPostgres starts a throwaway Postgres, applies migrations and returns the repositories.
func setupPostgres(t *testing.T) repos {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("sewasanjal"),
		tcpostgres.WithUsername("sewasanjal"),
		tcpostgres.WithPassword("sewasanjal"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, db.Migrate(ctx, pool, log))

	return newRepos(pool)
}

func newRepos(pool *pgxpool.Pool) repos {
	return repos{
		users:          postgres.NewUsersRepo(pool, nil),
		categories:     postgres.NewCategoriesRepo(pool, nil),
		providers:      postgres.NewProvidersRepo(pool, nil),
		services:       postgres.NewServicesRepo(pool, nil),
		availabilities: postgres.NewAvailabilitiesRepo(pool, nil),
	}
}

func newUser(t *testing.T, r repos, email string, phone *string) user.User {
	t.Helper()
	u := user.NewFromRegister(user.RegisterRequest{Email: email, Name: "Test", Phone: phone}, "hash")
	created, err := r.users.Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func strPtr(s string) *string { return &s }

func TestPostgres_UserUniqueConstraintsTranslate(t *testing.T) {
	r := setupPostgres(t)
	ctx := context.Background()

	newUser(t, r, "a@example.com", strPtr("9800000001"))

	// bypass any pre-check: the constraint itself must name the field
	_, err := r.users.Create(ctx, user.NewFromRegister(user.RegisterRequest{Email: "A@example.com", Name: "Dup"}, "hash"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	assert.Equal(t, []string{"email"}, apperr.ConflictFields(err))

	_, err = r.users.Create(ctx, user.NewFromRegister(user.RegisterRequest{Email: "b@example.com", Name: "Dup", Phone: strPtr("9800000001")}, "hash"))
	require.Error(t, err)
	assert.Equal(t, []string{"phone"}, apperr.ConflictFields(err))

	got, err := r.users.GetByEmail(ctx, "A@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestPostgres_CreateWithPromotion(t *testing.T) {
	r := setupPostgres(t)
	ctx := context.Background()

	owner := newUser(t, r, "owner@example.com", nil)
	cat, err := r.categories.Create(ctx, category.NewFromCreateRequest(category.CreateRequest{Name: "Plumbing", Slug: "plumbing"}))
	require.NoError(t, err)

	p := provider.NewForUser(owner.ID, provider.CreateRequest{Bio: strPtr("Licensed"), Location: &provider.Location{City: strPtr("Kathmandu")}})
	created, err := r.providers.CreateWithPromotion(ctx, p, []string{cat.ID})
	require.NoError(t, err)
	require.Len(t, created.Categories, 1)
	assert.Equal(t, cat.ID, created.Categories[0].ID)

	promoted, err := r.users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleProvider, promoted.Role)

	// second profile for the same user
	_, err = r.providers.CreateWithPromotion(ctx, provider.NewForUser(owner.ID, provider.CreateRequest{}), nil)
	assert.ErrorIs(t, err, provider.ErrAlreadyExists)
}

func TestPostgres_CreateWithPromotion_RollsBackOnFailure(t *testing.T) {
	r := setupPostgres(t)
	ctx := context.Background()

	owner := newUser(t, r, "rollback@example.com", nil)

	// the category insert fails after the role update inside the same transaction
	p := provider.NewForUser(owner.ID, provider.CreateRequest{})
	_, err := r.providers.CreateWithPromotion(ctx, p, []string{"missing-category"})
	assert.ErrorIs(t, err, category.ErrNotFound)

	after, err := r.users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleCustomer, after.Role, "role must be unchanged")

	_, err = r.providers.GetByUserID(ctx, owner.ID)
	assert.ErrorIs(t, err, provider.ErrNotFound, "no provider record may remain")
}

func TestPostgres_ListFiltersAndLinks(t *testing.T) {
	r := setupPostgres(t)
	ctx := context.Background()

	plumbing, err := r.categories.Create(ctx, category.NewFromCreateRequest(category.CreateRequest{Name: "Plumbing", Slug: "plumbing"}))
	require.NoError(t, err)

	a := newUser(t, r, "a@example.com", nil)
	b := newUser(t, r, "b@example.com", nil)

	pa, err := r.providers.CreateWithPromotion(ctx, provider.NewForUser(a.ID, provider.CreateRequest{Location: &provider.Location{City: strPtr("Pokhara")}}), []string{plumbing.ID})
	require.NoError(t, err)
	_, err = r.providers.CreateWithPromotion(ctx, provider.NewForUser(b.ID, provider.CreateRequest{Location: &provider.Location{City: strPtr("Kathmandu")}}), nil)
	require.NoError(t, err)

	_, err = r.providers.SetVerified(ctx, pa.ID, true)
	require.NoError(t, err)

	verified := true
	got, err := r.providers.List(ctx, provider.ListFilter{CategoryID: &plumbing.ID, City: strPtr(" POKHARA "), Verified: &verified})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, pa.ID, got[0].ID)

	// idempotent link maintenance
	require.NoError(t, r.providers.RemoveCategory(ctx, pa.ID, plumbing.ID))
	require.NoError(t, r.providers.RemoveCategory(ctx, pa.ID, plumbing.ID))
	require.NoError(t, r.providers.AddCategory(ctx, pa.ID, plumbing.ID))
	require.NoError(t, r.providers.AddCategory(ctx, pa.ID, plumbing.ID))

	assert.ErrorIs(t, r.providers.AddCategory(ctx, pa.ID, "nope"), category.ErrNotFound)
}

func TestPostgres_ServicesAndAvailabilities(t *testing.T) {
	r := setupPostgres(t)
	ctx := context.Background()

	owner := newUser(t, r, "svc@example.com", nil)
	p, err := r.providers.CreateWithPromotion(ctx, provider.NewForUser(owner.ID, provider.CreateRequest{}), nil)
	require.NoError(t, err)

	s, err := r.services.Create(ctx, service.NewForProvider(p.ID, service.CreateRequest{Title: "Leak fix", Price: 800, DurationMin: 45}))
	require.NoError(t, err)
	assert.Equal(t, service.DefaultCurrency, s.Currency)

	updated, err := r.services.Update(ctx, s.Apply(service.UpdateRequest{Title: strPtr("Leak repair")}))
	require.NoError(t, err)
	assert.Equal(t, "Leak repair", updated.Title)

	listed, err := r.services.List(ctx, service.ListFilter{ProviderID: &p.ID})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	day := 1
	a, err := r.availabilities.Create(ctx, availability.NewForProvider(p.ID, availability.CreateRequest{DayOfWeek: &day, StartTime: "09:00", EndTime: "12:00"}))
	require.NoError(t, err)

	windows, err := r.availabilities.ListByProvider(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, a.ID, windows[0].ID)

	// removing the owner cascades through provider, services and windows
	require.NoError(t, r.users.Delete(ctx, owner.ID))

	_, err = r.services.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = r.availabilities.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, availability.ErrNotFound)
}
