package usecase

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

type Categories struct {
	categories CategoryRepository
	providers  ProviderRepository
	cache      *ListingCache
}

func NewCategories(categories CategoryRepository, providers ProviderRepository, listing *ListingCache) *Categories {
	return &Categories{categories: categories, providers: providers, cache: listing}
}

// Create rejects a duplicate name or (normalised) slug with a conflict naming the field(s).
func (c *Categories) Create(ctx context.Context, req category.CreateRequest) (category.Category, error) {
	cat := category.NewFromCreateRequest(req)
	if cat.Name == "" || cat.Slug == "" {
		return category.Category{}, apperr.Invalid("validation_error", "name and slug must not be blank")
	}

	var taken []string

	_, err := c.categories.GetByName(ctx, cat.Name)
	switch {
	case err == nil:
		taken = append(taken, "name")
	case !errors.Is(err, category.ErrNotFound):
		return category.Category{}, translate(err)
	}

	_, err = c.categories.GetBySlug(ctx, cat.Slug)
	switch {
	case err == nil:
		taken = append(taken, "slug")
	case !errors.Is(err, category.ErrNotFound):
		return category.Category{}, translate(err)
	}

	if len(taken) > 0 {
		return category.Category{}, apperr.Conflict("Duplicate value detected", taken...)
	}

	created, err := c.categories.Create(ctx, cat)
	if err != nil {
		return category.Category{}, translate(err)
	}

	c.cache.invalidate(ctx, cache.CategoriesPrefix)
	return created, nil
}

// List is ordered by name.
func (c *Categories) List(ctx context.Context) ([]category.Category, error) {
	key := cache.CategoriesListKey()

	var cached []category.Category
	if c.cache.get(ctx, "categories", key, &cached) {
		return cached, nil
	}

	out, err := c.categories.List(ctx)
	if err != nil {
		return nil, translate(err)
	}

	c.cache.set(ctx, key, out)
	return out, nil
}

func (c *Categories) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	cat, err := c.categories.GetBySlug(ctx, slug)
	if err != nil {
		return category.Category{}, translate(err)
	}
	return cat, nil
}

// ProvidersBySlug lists the providers assigned to a category.
func (c *Categories) ProvidersBySlug(ctx context.Context, slug string) ([]provider.Provider, error) {
	cat, err := c.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err)
	}

	return listProviders(ctx, c.providers, c.cache, provider.ListFilter{CategoryID: &cat.ID})
}

// Assign links a category to a provider. Repeating it is a no-op.
func (c *Categories) Assign(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) (provider.Provider, error) {
	if err := c.authorizeLink(ctx, actor, categoryID, providerID); err != nil {
		return provider.Provider{}, err
	}

	if err := c.providers.AddCategory(ctx, providerID, categoryID); err != nil {
		return provider.Provider{}, translate(err)
	}

	return c.afterLinkChange(ctx, providerID)
}

// Remove unlinks a category from a provider. Removing an absent link is a no-op.
func (c *Categories) Remove(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) (provider.Provider, error) {
	if err := c.authorizeLink(ctx, actor, categoryID, providerID); err != nil {
		return provider.Provider{}, err
	}

	if err := c.providers.RemoveCategory(ctx, providerID, categoryID); err != nil {
		return provider.Provider{}, translate(err)
	}

	return c.afterLinkChange(ctx, providerID)
}

func (c *Categories) authorizeLink(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) error {
	if _, err := c.categories.GetByID(ctx, categoryID); err != nil {
		return translate(err)
	}

	p, err := c.providers.GetByID(ctx, providerID)
	if err != nil {
		return translate(err)
	}

	if actor.Role == user.RoleAdmin {
		return nil
	}
	return ensureOwner(actor, p.UserID)
}

func (c *Categories) afterLinkChange(ctx context.Context, providerID string) (provider.Provider, error) {
	c.cache.invalidate(ctx, cache.ProvidersPrefix)

	p, err := c.providers.GetByID(ctx, providerID)
	if err != nil {
		return provider.Provider{}, translate(err)
	}
	return p, nil
}
