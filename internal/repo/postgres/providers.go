package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const providerColumns = `p.id, p.user_id, p.bio, p.is_verified, p.city, p.district, p.address, p.lat, p.lng, p.created_at, p.updated_at`

type ProvidersRepo struct {
	base
}

func NewProvidersRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProvidersRepo {
	return &ProvidersRepo{base: base{pool: pool, prom: prom}}
}

func scanProvider(row pgx.Row) (provider.Provider, error) {
	var p provider.Provider

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Bio,
		&p.IsVerified,
		&p.Location.City,
		&p.Location.District,
		&p.Location.Address,
		&p.Location.Lat,
		&p.Location.Lng,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return provider.Provider{}, provider.ErrNotFound
		}
		return provider.Provider{}, err
	}
	p.Categories = []category.Category{}
	return p, nil
}

// CreateWithPromotion promotes the owner to PROVIDER and inserts the profile with its
// categories in one transaction; a failure at any step leaves nothing behind.
func (r *ProvidersRepo) CreateWithPromotion(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error) {
	err := r.observe("providers.create_with_promotion", func() error {
		return r.inTx(ctx, func(tx pgx.Tx) error {
			var role user.Role
			err := tx.QueryRow(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, p.UserID).Scan(&role)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return user.ErrNotFound
				}
				return err
			}

			// admins keep their role; everyone else becomes a provider
			_, err = tx.Exec(ctx,
				`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND role <> $3`,
				p.UserID, user.RoleProvider, user.RoleAdmin,
			)
			if err != nil {
				return err
			}

			_, err = tx.Exec(ctx,
				`INSERT INTO providers (id, user_id, bio, is_verified, city, district, address, lat, lng, created_at, updated_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				p.ID, p.UserID, p.Bio, p.IsVerified,
				p.Location.City, p.Location.District, p.Location.Address, p.Location.Lat, p.Location.Lng,
				p.CreatedAt, p.UpdatedAt,
			)
			if err != nil {
				if IsUniqueViolation(err) {
					return provider.ErrAlreadyExists
				}
				return err
			}

			return replaceCategories(ctx, tx, p.ID, categoryIDs)
		})
	})
	if err != nil {
		return provider.Provider{}, err
	}

	return r.GetByID(ctx, p.ID)
}

func replaceCategories(ctx context.Context, tx pgx.Tx, providerID string, categoryIDs []string) error {
	_, err := tx.Exec(ctx, `DELETE FROM provider_categories WHERE provider_id = $1`, providerID)
	if err != nil {
		return err
	}

	if len(categoryIDs) == 0 {
		return nil
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO provider_categories (provider_id, category_id)
		SELECT $1, c FROM unnest($2::text[]) AS c
		ON CONFLICT DO NOTHING`,
		providerID, categoryIDs,
	)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return category.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *ProvidersRepo) GetByID(ctx context.Context, id string) (p provider.Provider, err error) {
	err = r.observe("providers.get_by_id", func() error {
		p, err = scanProvider(r.pool.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers p WHERE p.id = $1`, id))
		return err
	})
	if err != nil {
		return provider.Provider{}, err
	}

	if err := r.attachCategories(ctx, []*provider.Provider{&p}); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}

func (r *ProvidersRepo) GetByUserID(ctx context.Context, userID string) (p provider.Provider, err error) {
	err = r.observe("providers.get_by_user_id", func() error {
		p, err = scanProvider(r.pool.QueryRow(ctx, `SELECT `+providerColumns+` FROM providers p WHERE p.user_id = $1`, userID))
		return err
	})
	if err != nil {
		return provider.Provider{}, err
	}

	if err := r.attachCategories(ctx, []*provider.Provider{&p}); err != nil {
		return provider.Provider{}, err
	}
	return p, nil
}

func (r *ProvidersRepo) List(ctx context.Context, f provider.ListFilter) ([]provider.Provider, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.CategoryID != nil {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM provider_categories pc WHERE pc.provider_id = p.id AND pc.category_id = $%d)", argsPosition))
		args = append(args, *f.CategoryID)
		argsPosition++
	}

	if city := provider.NormalizeCity(f.City); city != nil {
		conds = append(conds, fmt.Sprintf("p.city = $%d", argsPosition))
		args = append(args, *city)
		argsPosition++
	}

	if f.Verified != nil {
		conds = append(conds, fmt.Sprintf("p.is_verified = $%d", argsPosition))
		args = append(args, *f.Verified)
	}

	query := `SELECT ` + providerColumns + ` FROM providers p`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY p.created_at ASC, p.id ASC"

	out := []provider.Provider{}

	err := r.observe("providers.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProvider(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	ptrs := make([]*provider.Provider, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := r.attachCategories(ctx, ptrs); err != nil {
		return nil, err
	}

	return out, nil
}

// Update writes bio and location; a non-nil categoryIDs replaces the category set in the same transaction.
func (r *ProvidersRepo) Update(ctx context.Context, p provider.Provider, categoryIDs []string) (provider.Provider, error) {
	err := r.observe("providers.update", func() error {
		return r.inTx(ctx, func(tx pgx.Tx) error {
			tag, err := tx.Exec(ctx,
				`UPDATE providers
				SET bio = $2, city = $3, district = $4, address = $5, lat = $6, lng = $7, updated_at = NOW()
				WHERE id = $1`,
				p.ID, p.Bio, p.Location.City, p.Location.District, p.Location.Address, p.Location.Lat, p.Location.Lng,
			)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return provider.ErrNotFound
			}

			if categoryIDs == nil {
				return nil
			}
			return replaceCategories(ctx, tx, p.ID, categoryIDs)
		})
	})
	if err != nil {
		return provider.Provider{}, err
	}

	return r.GetByID(ctx, p.ID)
}

func (r *ProvidersRepo) SetVerified(ctx context.Context, id string, verified bool) (provider.Provider, error) {
	err := r.observe("providers.set_verified", func() error {
		tag, err := r.pool.Exec(ctx, `UPDATE providers SET is_verified = $2, updated_at = NOW() WHERE id = $1`, id, verified)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return provider.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return provider.Provider{}, err
	}

	return r.GetByID(ctx, id)
}

// AddCategory is idempotent: re-adding an existing pair is a no-op.
func (r *ProvidersRepo) AddCategory(ctx context.Context, providerID, categoryID string) error {
	return r.observe("providers.add_category", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO provider_categories (provider_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			providerID, categoryID,
		)
		if constraint, ok := isForeignKeyViolation(err); ok {
			if strings.Contains(constraint, "provider_id") {
				return provider.ErrNotFound
			}
			return category.ErrNotFound
		}
		return err
	})
}

// RemoveCategory is idempotent: removing an absent pair is a no-op.
func (r *ProvidersRepo) RemoveCategory(ctx context.Context, providerID, categoryID string) error {
	return r.observe("providers.remove_category", func() error {
		_, err := r.pool.Exec(ctx,
			`DELETE FROM provider_categories WHERE provider_id = $1 AND category_id = $2`,
			providerID, categoryID,
		)
		return err
	})
}

func (r *ProvidersRepo) attachCategories(ctx context.Context, providers []*provider.Provider) error {
	if len(providers) == 0 {
		return nil
	}

	ids := make([]string, 0, len(providers))
	byID := make(map[string]*provider.Provider, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	return r.observe("providers.attach_categories", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT pc.provider_id, c.id, c.name, c.slug, c.created_at
			FROM provider_categories pc
			JOIN categories c ON c.id = pc.category_id
			WHERE pc.provider_id = ANY($1::text[])
			ORDER BY c.name ASC`,
			ids,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var providerID string
			var c category.Category
			if err := rows.Scan(&providerID, &c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
				return err
			}
			if p, ok := byID[providerID]; ok {
				p.Categories = append(p.Categories, c)
			}
		}
		return rows.Err()
	})
}
