package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
)

var errBlankTitle = apperr.Invalid("invalid_title", "title must not be blank")

type Services struct {
	services   ServiceRepository
	providers  ProviderRepository
	categories CategoryRepository
	cache      *ListingCache
}

func NewServices(services ServiceRepository, providers ProviderRepository, categories CategoryRepository, listing *ListingCache) *Services {
	return &Services{services: services, providers: providers, categories: categories, cache: listing}
}

// Create adds an offering to the caller's own provider profile.
func (s *Services) Create(ctx context.Context, actor actorctx.Identity, req service.CreateRequest) (service.Service, error) {
	if strings.TrimSpace(req.Title) == "" {
		return service.Service{}, errBlankTitle
	}

	owner, err := s.providers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return service.Service{}, apperr.Wrap(err, apperr.KindNotFound, "provider_not_found", "Create a provider profile first")
		}
		return service.Service{}, translate(err)
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return service.Service{}, err
	}

	created, err := s.services.Create(ctx, service.NewForProvider(owner.ID, req))
	if err != nil {
		return service.Service{}, translate(err)
	}

	s.cache.invalidate(ctx, cache.ServicesPrefix)
	return created, nil
}

func (s *Services) List(ctx context.Context, f service.ListFilter) ([]service.Service, error) {
	key := cache.ServicesListKey(f)

	var cached []service.Service
	if s.cache.get(ctx, "services", key, &cached) {
		return cached, nil
	}

	out, err := s.services.List(ctx, f)
	if err != nil {
		return nil, translate(err)
	}

	s.cache.set(ctx, key, out)
	return out, nil
}

func (s *Services) Get(ctx context.Context, id string) (service.Service, error) {
	found, err := s.services.GetByID(ctx, id)
	if err != nil {
		return service.Service{}, translate(err)
	}
	return found, nil
}

func (s *Services) Update(ctx context.Context, actor actorctx.Identity, id string, req service.UpdateRequest) (service.Service, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return service.Service{}, errBlankTitle
	}

	found, err := s.owned(ctx, actor, id)
	if err != nil {
		return service.Service{}, err
	}

	if err := s.checkCategory(ctx, req.CategoryID); err != nil {
		return service.Service{}, err
	}

	updated, err := s.services.Update(ctx, found.Apply(req))
	if err != nil {
		return service.Service{}, translate(err)
	}

	s.cache.invalidate(ctx, cache.ServicesPrefix)
	return updated, nil
}

// Delete returns the removed service.
func (s *Services) Delete(ctx context.Context, actor actorctx.Identity, id string) (service.Service, error) {
	found, err := s.owned(ctx, actor, id)
	if err != nil {
		return service.Service{}, err
	}

	if err := s.services.Delete(ctx, id); err != nil {
		return service.Service{}, translate(err)
	}

	s.cache.invalidate(ctx, cache.ServicesPrefix)
	return found, nil
}

// owned loads the service, then checks that the caller owns its provider.
func (s *Services) owned(ctx context.Context, actor actorctx.Identity, id string) (service.Service, error) {
	found, err := s.services.GetByID(ctx, id)
	if err != nil {
		return service.Service{}, translate(err)
	}

	owner, err := s.providers.GetByID(ctx, found.ProviderID)
	if err != nil {
		return service.Service{}, translate(err)
	}

	if err := ensureOwner(actor, owner.UserID); err != nil {
		return service.Service{}, err
	}
	return found, nil
}

func (s *Services) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.categories.GetByID(ctx, *id); err != nil {
		return translate(err)
	}
	return nil
}
