package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
)

type AvailabilitiesRepo struct {
	s *Store
}

func (r *AvailabilitiesRepo) Create(ctx context.Context, a availability.Availability) (availability.Availability, error) {
	if err := a.Validate(); err != nil {
		return availability.Availability{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[a.ProviderID]; !ok {
		return availability.Availability{}, provider.ErrNotFound
	}
	r.s.availabilities[a.ID] = a
	return a, nil
}

func (r *AvailabilitiesRepo) GetByID(ctx context.Context, id string) (availability.Availability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.availabilities[id]
	if !ok {
		return availability.Availability{}, availability.ErrNotFound
	}
	return a, nil
}

func (r *AvailabilitiesRepo) ListByProvider(ctx context.Context, providerID string) ([]availability.Availability, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []availability.Availability{}
	for _, a := range r.s.availabilities {
		if a.ProviderID == providerID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *AvailabilitiesRepo) Update(ctx context.Context, a availability.Availability) (availability.Availability, error) {
	if err := a.Validate(); err != nil {
		return availability.Availability{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.availabilities[a.ID]; !ok {
		return availability.Availability{}, availability.ErrNotFound
	}

	a.UpdatedAt = time.Now().UTC()
	r.s.availabilities[a.ID] = a
	return a, nil
}

func (r *AvailabilitiesRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.availabilities[id]; !ok {
		return availability.ErrNotFound
	}
	delete(r.s.availabilities, id)
	return nil
}
