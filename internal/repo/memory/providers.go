package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

type ProvidersRepo struct {
	s *Store
}

// CreateWithPromotion promotes the owner and stores the profile with its categories.
// Any failure restores the owner's role and leaves no profile or links behind.
func (r *ProvidersRepo) CreateWithPromotion(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	owner, ok := r.s.users[p.UserID]
	if !ok {
		return provider.Provider{}, user.ErrNotFound
	}
	before := owner

	if owner.Role != user.RoleAdmin {
		owner.Role = user.RoleProvider
		owner.UpdatedAt = time.Now().UTC()
		r.s.users[owner.ID] = owner
	}

	rollback := func() {
		r.s.users[before.ID] = before
		delete(r.s.providers, p.ID)
		delete(r.s.links, p.ID)
	}

	for _, existing := range r.s.providers {
		if existing.UserID == p.UserID {
			rollback()
			return provider.Provider{}, provider.ErrAlreadyExists
		}
	}

	p.Categories = nil
	r.s.providers[p.ID] = p

	if err := r.s.replaceLinksLocked(p.ID, categoryIDs); err != nil {
		rollback()
		return provider.Provider{}, err
	}

	return r.s.providerLocked(p.ID), nil
}

func (r *ProvidersRepo) GetByID(ctx context.Context, id string) (provider.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.providers[id]; !ok {
		return provider.Provider{}, provider.ErrNotFound
	}
	return r.s.providerLocked(id), nil
}

func (r *ProvidersRepo) GetByUserID(ctx context.Context, userID string) (provider.Provider, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, p := range r.s.providers {
		if p.UserID == userID {
			return r.s.providerLocked(id), nil
		}
	}
	return provider.Provider{}, provider.ErrNotFound
}

func (r *ProvidersRepo) List(ctx context.Context, f provider.ListFilter) ([]provider.Provider, error) {
	city := provider.NormalizeCity(f.City)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []provider.Provider{}
	for id, p := range r.s.providers {
		if f.CategoryID != nil {
			if _, ok := r.s.links[id][*f.CategoryID]; !ok {
				continue
			}
		}
		if city != nil && (p.Location.City == nil || *p.Location.City != *city) {
			continue
		}
		if f.Verified != nil && p.IsVerified != *f.Verified {
			continue
		}
		out = append(out, r.s.providerLocked(id))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Update writes bio and location; a non-nil categoryIDs replaces the category set.
func (r *ProvidersRepo) Update(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.providers[p.ID]
	if !ok {
		return provider.Provider{}, provider.ErrNotFound
	}

	if categoryIDs != nil {
		if err := r.s.replaceLinksLocked(p.ID, categoryIDs); err != nil {
			return provider.Provider{}, err
		}
	}

	current.Bio = p.Bio
	current.Location = p.Location
	current.UpdatedAt = time.Now().UTC()
	r.s.providers[p.ID] = current

	return r.s.providerLocked(p.ID), nil
}

func (r *ProvidersRepo) SetVerified(ctx context.Context, id string, verified bool) (provider.Provider, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.providers[id]
	if !ok {
		return provider.Provider{}, provider.ErrNotFound
	}
	p.IsVerified = verified
	p.UpdatedAt = time.Now().UTC()
	r.s.providers[id] = p

	return r.s.providerLocked(id), nil
}

// AddCategory is idempotent: re-adding an existing pair is a no-op.
func (r *ProvidersRepo) AddCategory(ctx context.Context, providerID, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.providers[providerID]; !ok {
		return provider.ErrNotFound
	}
	if _, ok := r.s.categories[categoryID]; !ok {
		return category.ErrNotFound
	}

	if r.s.links[providerID] == nil {
		r.s.links[providerID] = make(map[string]struct{})
	}
	r.s.links[providerID][categoryID] = struct{}{}
	return nil
}

// RemoveCategory is idempotent: removing an absent pair is a no-op.
func (r *ProvidersRepo) RemoveCategory(ctx context.Context, providerID, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.links[providerID], categoryID)
	return nil
}

// replaceLinksLocked validates every id before touching the existing set.
func (s *Store) replaceLinksLocked(providerID string, categoryIDs []string) error {
	set := make(map[string]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, ok := s.categories[id]; !ok {
			return category.ErrNotFound
		}
		set[id] = struct{}{}
	}
	s.links[providerID] = set
	return nil
}

// providerLocked returns a copy of the provider with its categories attached, sorted by name.
func (s *Store) providerLocked(id string) provider.Provider {
	p := s.providers[id]

	cats := make([]category.Category, 0, len(s.links[id]))
	for cid := range s.links[id] {
		if c, ok := s.categories[cid]; ok {
			cats = append(cats, c)
		}
	}
	sortCategories(cats)
	p.Categories = cats
	return p
}

func (s *Store) deleteProviderLocked(id string) {
	delete(s.providers, id)
	delete(s.links, id)
	for sid, svc := range s.services {
		if svc.ProviderID == id {
			delete(s.services, sid)
		}
	}
	for aid, a := range s.availabilities {
		if a.ProviderID == id {
			delete(s.availabilities, aid)
		}
	}
}
