package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
)

type ServicesRepo struct {
	s *Store
}

func (r *ServicesRepo) checkRefsLocked(svc service.Service) error {
	if _, ok := r.s.providers[svc.ProviderID]; !ok {
		return provider.ErrNotFound
	}
	if svc.CategoryID != nil {
		if _, ok := r.s.categories[*svc.CategoryID]; !ok {
			return category.ErrNotFound
		}
	}
	return nil
}

func (r *ServicesRepo) Create(ctx context.Context, svc service.Service) (service.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefsLocked(svc); err != nil {
		return service.Service{}, err
	}
	r.s.services[svc.ID] = svc
	return svc, nil
}

func (r *ServicesRepo) GetByID(ctx context.Context, id string) (service.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	svc, ok := r.s.services[id]
	if !ok {
		return service.Service{}, service.ErrNotFound
	}
	return svc, nil
}

func (r *ServicesRepo) List(ctx context.Context, f service.ListFilter) ([]service.Service, error) {
	city := provider.NormalizeCity(f.City)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []service.Service{}
	for _, svc := range r.s.services {
		if f.CategoryID != nil && (svc.CategoryID == nil || *svc.CategoryID != *f.CategoryID) {
			continue
		}
		if f.ProviderID != nil && svc.ProviderID != *f.ProviderID {
			continue
		}
		owner := r.s.providers[svc.ProviderID]
		if city != nil && (owner.Location.City == nil || *owner.Location.City != *city) {
			continue
		}
		if f.Verified != nil && owner.IsVerified != *f.Verified {
			continue
		}
		out = append(out, svc)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ServicesRepo) Update(ctx context.Context, svc service.Service) (service.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[svc.ID]; !ok {
		return service.Service{}, service.ErrNotFound
	}
	if err := r.checkRefsLocked(svc); err != nil {
		return service.Service{}, err
	}

	svc.UpdatedAt = time.Now().UTC()
	r.s.services[svc.ID] = svc
	return svc, nil
}

func (r *ServicesRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.services[id]; !ok {
		return service.ErrNotFound
	}
	delete(r.s.services, id)
	return nil
}
