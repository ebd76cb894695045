package usecase

import (
	"context"
	"testing"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProvider(t *testing.T, f *fixture, email string) (actorctx.Identity, provider.Provider) {
	t.Helper()
	actor := f.register(t, email)
	p, err := f.providers.Create(context.Background(), actor, providerReq())
	require.NoError(t, err)
	return actor, p
}

func TestServiceCreate_DefaultsAndCategoryCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor, p := setupProvider(t, f, "p@x.com")

	svc, err := f.services.Create(ctx, actor, service.CreateRequest{Title: " Fix taps ", Price: 800, DurationMin: 45})
	require.NoError(t, err)
	assert.Equal(t, p.ID, svc.ProviderID)
	assert.Equal(t, "Fix taps", svc.Title)
	assert.Equal(t, service.DefaultCurrency, svc.Currency)

	_, err = f.services.Create(ctx, actor, service.CreateRequest{Title: "X", Price: 1, DurationMin: 1, CategoryID: strPtr("missing")})
	requireKind(t, err, apperr.KindNotFound)

	customer := f.register(t, "nobody@x.com")
	_, err = f.services.Create(ctx, customer, service.CreateRequest{Title: "X", Price: 1, DurationMin: 1})
	requireKind(t, err, apperr.KindNotFound)
}

func TestServiceTitle_RejectsBlank(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	actor, p := setupProvider(t, f, "p@x.com")

	_, err := f.services.Create(ctx, actor, service.CreateRequest{Title: "    ", Price: 10, DurationMin: 30})
	requireKind(t, err, apperr.KindInvalid)

	listed, err := f.services.List(ctx, service.ListFilter{ProviderID: &p.ID})
	require.NoError(t, err)
	assert.Empty(t, listed)

	svc, err := f.services.Create(ctx, actor, service.CreateRequest{Title: "Clean", Price: 10, DurationMin: 30})
	require.NoError(t, err)

	_, err = f.services.Update(ctx, actor, svc.ID, service.UpdateRequest{Title: strPtr(" \t ")})
	requireKind(t, err, apperr.KindInvalid)

	got, err := f.services.Get(ctx, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean", got.Title)
}

func TestServiceMutations_ExistenceBeforeOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := setupProvider(t, f, "owner@x.com")
	other, _ := setupProvider(t, f, "other@x.com")

	svc, err := f.services.Create(ctx, owner, service.CreateRequest{Title: "Clean", Price: 1000, DurationMin: 60})
	require.NoError(t, err)

	tests := []struct {
		name  string
		actor actorctx.Identity
		id    string
		want  apperr.Kind
	}{
		{"absent id", other, "missing", apperr.KindNotFound},
		{"not owner", other, svc.ID, apperr.KindForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.services.Update(ctx, tt.actor, tt.id, service.UpdateRequest{Title: strPtr("new")})
			requireKind(t, err, tt.want)

			_, err = f.services.Delete(ctx, tt.actor, tt.id)
			requireKind(t, err, tt.want)
		})
	}

	price := 1200.0
	updated, err := f.services.Update(ctx, owner, svc.ID, service.UpdateRequest{Price: &price, Currency: strPtr("usd")})
	require.NoError(t, err)
	assert.Equal(t, 1200.0, updated.Price)
	assert.Equal(t, "USD", updated.Currency)

	deleted, err := f.services.Delete(ctx, owner, svc.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.ID, deleted.ID)

	_, err = f.services.Get(ctx, svc.ID)
	requireKind(t, err, apperr.KindNotFound)
}

func TestServiceList_FiltersByCityAndVerified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, p := setupProvider(t, f, "owner@x.com")

	_, err := f.services.Create(ctx, owner, service.CreateRequest{Title: "Paint", Price: 500, DurationMin: 30})
	require.NoError(t, err)

	verified := true
	got, err := f.services.List(ctx, service.ListFilter{City: strPtr("KATHMANDU"), Verified: &verified})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = f.providers.Verify(ctx, p.ID, true)
	require.NoError(t, err)

	got, err = f.services.List(ctx, service.ListFilter{City: strPtr("KATHMANDU"), Verified: &verified})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAvailability_LifecycleAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, p := setupProvider(t, f, "owner@x.com")
	other, otherP := setupProvider(t, f, "other@x.com")

	win, err := f.availabilities.Create(ctx, owner, p.ID, availability.CreateRequest{DayOfWeek: intPtr(1), StartTime: "09:00", EndTime: "17:00"})
	require.NoError(t, err)

	_, err = f.availabilities.Create(ctx, owner, p.ID, availability.CreateRequest{DayOfWeek: intPtr(1), StartTime: "17:00", EndTime: "09:00"})
	requireKind(t, err, apperr.KindInvalid)

	_, err = f.availabilities.Create(ctx, other, p.ID, availability.CreateRequest{DayOfWeek: intPtr(2), StartTime: "09:00", EndTime: "10:00"})
	requireKind(t, err, apperr.KindForbidden)

	_, err = f.availabilities.Update(ctx, other, p.ID, win.ID, availability.UpdateRequest{EndTime: strPtr("18:00")})
	requireKind(t, err, apperr.KindForbidden)

	// a window addressed under another provider does not exist there
	_, err = f.availabilities.Get(ctx, otherP.ID, win.ID)
	requireKind(t, err, apperr.KindNotFound)

	_, err = f.availabilities.Update(ctx, owner, p.ID, win.ID, availability.UpdateRequest{StartTime: strPtr("18:00")})
	requireKind(t, err, apperr.KindInvalid)

	updated, err := f.availabilities.Update(ctx, owner, p.ID, win.ID, availability.UpdateRequest{EndTime: strPtr("18:00")})
	require.NoError(t, err)
	assert.Equal(t, "18:00", updated.EndTime)

	list, err := f.availabilities.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.availabilities.Delete(ctx, owner, p.ID, win.ID)
	require.NoError(t, err)

	_, err = f.availabilities.List(ctx, "missing")
	requireKind(t, err, apperr.KindNotFound)
}
