package db

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
)

type CategoryStore interface {
	GetBySlug(ctx context.Context, slug string) (category.Category, error)
	Create(ctx context.Context, c category.Category) (category.Category, error)
}

// demoCategories back the browse screens of a fresh install.
var demoCategories = []category.CreateRequest{
	{Name: "Plumbing", Slug: "plumbing"},
	{Name: "Electrician", Slug: "electrician"},
	{Name: "Cleaning", Slug: "cleaning"},
	{Name: "Carpentry", Slug: "carpentry"},
	{Name: "Painting", Slug: "painting"},
	{Name: "Appliance Repair", Slug: "appliance-repair"},
}

// SeedDemoCategories inserts the demo taxonomy, skipping slugs that already exist.
func SeedDemoCategories(ctx context.Context, categories CategoryStore) (int, error) {
	created := 0
	for _, req := range demoCategories {
		_, err := categories.GetBySlug(ctx, req.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, category.ErrNotFound) {
			return created, err
		}

		if _, err := categories.Create(ctx, category.NewFromCreateRequest(req)); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
