package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const availabilityColumns = `id, provider_id, day_of_week, start_time, end_time, created_at, updated_at`

type AvailabilitiesRepo struct {
	base
}

func NewAvailabilitiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *AvailabilitiesRepo {
	return &AvailabilitiesRepo{base: base{pool: pool, prom: prom}}
}

func scanAvailability(row pgx.Row) (availability.Availability, error) {
	var a availability.Availability

	err := row.Scan(&a.ID, &a.ProviderID, &a.DayOfWeek, &a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return availability.Availability{}, availability.ErrNotFound
		}
		return availability.Availability{}, err
	}
	return a, nil
}

func mapAvailabilityErr(err error) error {
	if _, ok := isForeignKeyViolation(err); ok {
		return provider.ErrNotFound
	}
	if isCheckViolation(err) {
		return availability.ErrInvalidRange
	}
	return err
}

func (r *AvailabilitiesRepo) Create(ctx context.Context, a availability.Availability) (availability.Availability, error) {
	err := r.observe("availabilities.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO availabilities (id, provider_id, day_of_week, start_time, end_time, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			a.ID, a.ProviderID, a.DayOfWeek, a.StartTime, a.EndTime, a.CreatedAt, a.UpdatedAt,
		)
		return e
	})
	if err != nil {
		return availability.Availability{}, mapAvailabilityErr(err)
	}
	return a, nil
}

func (r *AvailabilitiesRepo) GetByID(ctx context.Context, id string) (a availability.Availability, err error) {
	err = r.observe("availabilities.get_by_id", func() error {
		a, err = scanAvailability(r.pool.QueryRow(ctx, `SELECT `+availabilityColumns+` FROM availabilities WHERE id = $1`, id))
		return err
	})
	return
}

// ListByProvider is ordered by day of week, then start time.
func (r *AvailabilitiesRepo) ListByProvider(ctx context.Context, providerID string) ([]availability.Availability, error) {
	out := []availability.Availability{}

	err := r.observe("availabilities.list_by_provider", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+availabilityColumns+` FROM availabilities WHERE provider_id = $1 ORDER BY day_of_week ASC, start_time ASC, id ASC`,
			providerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAvailability(rows)
			if err != nil {
				return err
			}
			out = append(out, a)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AvailabilitiesRepo) Update(ctx context.Context, a availability.Availability) (out availability.Availability, err error) {
	err = r.observe("availabilities.update", func() error {
		out, err = scanAvailability(r.pool.QueryRow(ctx,
			`UPDATE availabilities
			SET day_of_week = $2, start_time = $3, end_time = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING `+availabilityColumns,
			a.ID, a.DayOfWeek, a.StartTime, a.EndTime,
		))
		return err
	})
	if err != nil {
		return availability.Availability{}, mapAvailabilityErr(err)
	}
	return out, nil
}

func (r *AvailabilitiesRepo) Delete(ctx context.Context, id string) error {
	return r.observe("availabilities.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM availabilities WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return availability.ErrNotFound
		}
		return nil
	})
}
