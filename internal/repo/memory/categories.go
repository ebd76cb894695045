package memory

import (
	"context"
	"sort"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
)

type CategoriesRepo struct {
	s *Store
}

func (r *CategoriesRepo) Create(ctx context.Context, c category.Category) (category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var fields []string
	for _, existing := range r.s.categories {
		if existing.Name == c.Name {
			fields = append(fields, "name")
		}
		if existing.Slug == c.Slug {
			fields = append(fields, "slug")
		}
	}
	if len(fields) > 0 {
		return category.Category{}, apperr.Conflict("Duplicate value detected", fields...)
	}

	r.s.categories[c.ID] = c
	return c, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return c, nil
}

func (r *CategoriesRepo) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	slug = category.NormalizeSlug(slug)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return category.Category{}, category.ErrNotFound
}

func (r *CategoriesRepo) GetByName(ctx context.Context, name string) (category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return category.Category{}, category.ErrNotFound
}

func (r *CategoriesRepo) List(ctx context.Context) ([]category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]category.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, c)
	}
	sortCategories(out)
	return out, nil
}

func sortCategories(cs []category.Category) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Name != cs[j].Name {
			return cs[i].Name < cs[j].Name
		}
		return cs[i].ID < cs[j].ID
	})
}
