package usecase

import (
	"context"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
)

type Availabilities struct {
	availabilities AvailabilityRepository
	providers      ProviderRepository
}

func NewAvailabilities(availabilities AvailabilityRepository, providers ProviderRepository) *Availabilities {
	return &Availabilities{availabilities: availabilities, providers: providers}
}

func (a *Availabilities) Create(ctx context.Context, actor actorctx.Identity, providerID string, req availability.CreateRequest) (availability.Availability, error) {
	if _, err := a.ownedProvider(ctx, actor, providerID); err != nil {
		return availability.Availability{}, err
	}

	win := availability.NewForProvider(providerID, req)
	if err := win.Validate(); err != nil {
		return availability.Availability{}, translate(err)
	}

	created, err := a.availabilities.Create(ctx, win)
	if err != nil {
		return availability.Availability{}, translate(err)
	}
	return created, nil
}

// List is ordered by day of week, then start time.
func (a *Availabilities) List(ctx context.Context, providerID string) ([]availability.Availability, error) {
	if _, err := a.providers.GetByID(ctx, providerID); err != nil {
		return nil, translate(err)
	}

	out, err := a.availabilities.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (a *Availabilities) Get(ctx context.Context, providerID, id string) (availability.Availability, error) {
	return a.scoped(ctx, providerID, id)
}

func (a *Availabilities) Update(ctx context.Context, actor actorctx.Identity, providerID, id string, req availability.UpdateRequest) (availability.Availability, error) {
	found, err := a.owned(ctx, actor, providerID, id)
	if err != nil {
		return availability.Availability{}, err
	}

	next := found.Apply(req)
	if err := next.Validate(); err != nil {
		return availability.Availability{}, translate(err)
	}

	updated, err := a.availabilities.Update(ctx, next)
	if err != nil {
		return availability.Availability{}, translate(err)
	}
	return updated, nil
}

// Delete returns the removed window.
func (a *Availabilities) Delete(ctx context.Context, actor actorctx.Identity, providerID, id string) (availability.Availability, error) {
	found, err := a.owned(ctx, actor, providerID, id)
	if err != nil {
		return availability.Availability{}, err
	}

	if err := a.availabilities.Delete(ctx, id); err != nil {
		return availability.Availability{}, translate(err)
	}
	return found, nil
}

// scoped treats a window under a different provider as absent.
func (a *Availabilities) scoped(ctx context.Context, providerID, id string) (availability.Availability, error) {
	found, err := a.availabilities.GetByID(ctx, id)
	if err != nil {
		return availability.Availability{}, translate(err)
	}
	if found.ProviderID != providerID {
		return availability.Availability{}, translate(availability.ErrNotFound)
	}
	return found, nil
}

func (a *Availabilities) owned(ctx context.Context, actor actorctx.Identity, providerID, id string) (availability.Availability, error) {
	found, err := a.scoped(ctx, providerID, id)
	if err != nil {
		return availability.Availability{}, err
	}
	if _, err := a.ownedProvider(ctx, actor, providerID); err != nil {
		return availability.Availability{}, err
	}
	return found, nil
}

func (a *Availabilities) ownedProvider(ctx context.Context, actor actorctx.Identity, providerID string) (provider.Provider, error) {
	p, err := a.providers.GetByID(ctx, providerID)
	if err != nil {
		return provider.Provider{}, translate(err)
	}
	if err := ensureOwner(actor, p.UserID); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}
