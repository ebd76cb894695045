package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceColumns = `s.id, s.provider_id, s.category_id, s.title, s.description, s.price::float8, s.currency, s.duration_min, s.created_at, s.updated_at`

type ServicesRepo struct {
	base
}

func NewServicesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ServicesRepo {
	return &ServicesRepo{base: base{pool: pool, prom: prom}}
}

func scanService(row pgx.Row) (service.Service, error) {
	var s service.Service

	err := row.Scan(
		&s.ID,
		&s.ProviderID,
		&s.CategoryID,
		&s.Title,
		&s.Description,
		&s.Price,
		&s.Currency,
		&s.DurationMin,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return service.Service{}, service.ErrNotFound
		}
		return service.Service{}, err
	}
	return s, nil
}

// mapServiceFK tells apart the two foreign keys a service write can violate.
func mapServiceFK(err error) error {
	constraint, ok := isForeignKeyViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(constraint, "category") {
		return category.ErrNotFound
	}
	return provider.ErrNotFound
}

func (r *ServicesRepo) Create(ctx context.Context, s service.Service) (service.Service, error) {
	err := r.observe("services.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO services (id, provider_id, category_id, title, description, price, currency, duration_min, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			s.ID, s.ProviderID, s.CategoryID, s.Title, s.Description, s.Price, s.Currency, s.DurationMin, s.CreatedAt, s.UpdatedAt,
		)
		return e
	})
	if err != nil {
		return service.Service{}, mapServiceFK(err)
	}
	return s, nil
}

func (r *ServicesRepo) GetByID(ctx context.Context, id string) (s service.Service, err error) {
	err = r.observe("services.get_by_id", func() error {
		s, err = scanService(r.pool.QueryRow(ctx, `SELECT `+serviceColumns+` FROM services s WHERE s.id = $1`, id))
		return err
	})
	return
}

func (r *ServicesRepo) List(ctx context.Context, f service.ListFilter) ([]service.Service, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	if f.CategoryID != nil {
		conds = append(conds, fmt.Sprintf("s.category_id = $%d", argsPosition))
		args = append(args, *f.CategoryID)
		argsPosition++
	}

	if f.ProviderID != nil {
		conds = append(conds, fmt.Sprintf("s.provider_id = $%d", argsPosition))
		args = append(args, *f.ProviderID)
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

	query := `SELECT ` + serviceColumns + ` FROM services s JOIN providers p ON p.id = s.provider_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY s.created_at ASC, s.id ASC"

	out := []service.Service{}

	err := r.observe("services.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanService(rows)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ServicesRepo) Update(ctx context.Context, s service.Service) (out service.Service, err error) {
	err = r.observe("services.update", func() error {
		out, err = scanService(r.pool.QueryRow(ctx,
			`UPDATE services AS s
			SET category_id = $2, title = $3, description = $4, price = $5, currency = $6, duration_min = $7, updated_at = NOW()
			WHERE s.id = $1
			RETURNING `+serviceColumns,
			s.ID, s.CategoryID, s.Title, s.Description, s.Price, s.Currency, s.DurationMin,
		))
		return err
	})
	if err != nil {
		return service.Service{}, mapServiceFK(err)
	}
	return out, nil
}

func (r *ServicesRepo) Delete(ctx context.Context, id string) error {
	return r.observe("services.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return service.ErrNotFound
		}
		return nil
	})
}
