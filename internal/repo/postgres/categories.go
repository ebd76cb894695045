package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoriesRepo struct {
	base
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{base: base{pool: pool, prom: prom}}
}

func scanCategory(row pgx.Row) (category.Category, error) {
	var c category.Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, err
	}
	return c, nil
}

func (r *CategoriesRepo) Create(ctx context.Context, c category.Category) (category.Category, error) {
	err := r.observe("categories.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO categories (id, name, slug, created_at) VALUES ($1,$2,$3,$4)`,
			c.ID, c.Name, c.Slug, c.CreatedAt,
		)
		return e
	})
	if err != nil {
		if conflict := ConflictFromPgError(err); conflict != nil {
			return category.Category{}, conflict
		}
		return category.Category{}, err
	}
	return c, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (c category.Category, err error) {
	err = r.observe("categories.get_by_id", func() error {
		c, err = scanCategory(r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE id = $1`, id))
		return err
	})
	return
}

func (r *CategoriesRepo) GetBySlug(ctx context.Context, slug string) (c category.Category, err error) {
	err = r.observe("categories.get_by_slug", func() error {
		c, err = scanCategory(r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE slug = $1`, category.NormalizeSlug(slug)))
		return err
	})
	return
}

func (r *CategoriesRepo) GetByName(ctx context.Context, name string) (c category.Category, err error) {
	err = r.observe("categories.get_by_name", func() error {
		c, err = scanCategory(r.pool.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE name = $1`, name))
		return err
	})
	return
}

// List is ordered by name ascending.
func (r *CategoriesRepo) List(ctx context.Context) ([]category.Category, error) {
	out := []category.Category{}

	err := r.observe("categories.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCategory(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
