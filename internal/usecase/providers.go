package usecase

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
)

type Providers struct {
	providers ProviderRepository
	users     UserRepository
	services  ServiceRepository
	cache     *ListingCache
}

func NewProviders(providers ProviderRepository, users UserRepository, services ServiceRepository, listing *ListingCache) *Providers {
	return &Providers{providers: providers, users: users, services: services, cache: listing}
}

// Create opens a provider profile for the caller. The role promotion and the
// profile insert happen atomically in the repository.
func (p *Providers) Create(ctx context.Context, actor actorctx.Identity, req provider.CreateRequest) (provider.Provider, error) {
	_, err := p.providers.GetByUserID(ctx, actor.UserID)
	switch {
	case err == nil:
		return provider.Provider{}, apperr.Conflict("Provider profile already exists for this user", "userId")
	case !errors.Is(err, provider.ErrNotFound):
		return provider.Provider{}, translate(err)
	}

	created, err := p.providers.CreateWithPromotion(ctx, provider.NewForUser(actor.UserID, req), dedupe(req.CategoryIDs))
	if err != nil {
		return provider.Provider{}, translate(err)
	}

	p.cache.invalidate(ctx, cache.ProvidersPrefix)
	return created, nil
}

func (p *Providers) List(ctx context.Context, f provider.ListFilter) ([]provider.Provider, error) {
	return listProviders(ctx, p.providers, p.cache, f)
}

// Get returns the provider with its owner projection and services.
func (p *Providers) Get(ctx context.Context, id string) (provider.Detail, error) {
	found, err := p.providers.GetByID(ctx, id)
	if err != nil {
		return provider.Detail{}, translate(err)
	}

	owner, err := p.users.GetByID(ctx, found.UserID)
	if err != nil {
		return provider.Detail{}, translate(err)
	}

	services, err := p.services.List(ctx, service.ListFilter{ProviderID: &found.ID})
	if err != nil {
		return provider.Detail{}, translate(err)
	}

	return provider.Detail{Provider: found, User: owner.Public(), Services: services}, nil
}

// Update is owner-only; a non-nil CategoryIDs replaces the category set.
func (p *Providers) Update(ctx context.Context, actor actorctx.Identity, id string, req provider.UpdateRequest) (provider.Provider, error) {
	found, err := p.providers.GetByID(ctx, id)
	if err != nil {
		return provider.Provider{}, translate(err)
	}

	if err := ensureOwner(actor, found.UserID); err != nil {
		return provider.Provider{}, err
	}

	if req.Bio != nil {
		found.Bio = req.Bio
	}
	if req.Location != nil {
		found.Location = provider.NormalizeLocation(req.Location)
	}

	var categoryIDs []string
	if req.CategoryIDs != nil {
		categoryIDs = dedupe(req.CategoryIDs)
	}

	updated, err := p.providers.Update(ctx, found, categoryIDs)
	if err != nil {
		return provider.Provider{}, translate(err)
	}

	// services are filtered by their provider's city
	p.cache.invalidate(ctx, cache.ProvidersPrefix, cache.ServicesPrefix)
	return updated, nil
}

// Verify sets the verification flag; callers are gated to ADMIN by the router.
func (p *Providers) Verify(ctx context.Context, id string, verified bool) (provider.Provider, error) {
	updated, err := p.providers.SetVerified(ctx, id, verified)
	if err != nil {
		return provider.Provider{}, translate(err)
	}

	p.cache.invalidate(ctx, cache.ProvidersPrefix, cache.ServicesPrefix)
	return updated, nil
}

func listProviders(ctx context.Context, repo ProviderRepository, c *ListingCache, f provider.ListFilter) ([]provider.Provider, error) {
	key := cache.ProvidersListKey(f)

	var cached []provider.Provider
	if c.get(ctx, "providers", key, &cached) {
		return cached, nil
	}

	out, err := repo.List(ctx, f)
	if err != nil {
		return nil, translate(err)
	}

	c.set(ctx, key, out)
	return out, nil
}

// dedupe keeps first-seen order and always returns a non-nil slice.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
