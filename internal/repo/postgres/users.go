package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, phone, password_hash, name, role, avatar_url, created_at, updated_at`

type UsersRepo struct {
	base
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{base: base{pool: pool, prom: prom}}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Phone,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		_, e := r.pool.Exec(ctx,
			`INSERT INTO users (id, email, phone, password_hash, name, role, avatar_url, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Email, u.Phone, u.PasswordHash, u.Name, u.Role, u.AvatarURL, u.CreatedAt, u.UpdatedAt,
		)
		return e
	})
	if err != nil {
		// the pre-checks can lose a race; the constraint is the final word
		if conflict := ConflictFromPgError(err); conflict != nil {
			return user.User{}, conflict
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (u user.User, err error) {
	err = r.observe("users.get_by_id", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return err
	})
	return
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = r.observe("users.get_by_email", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, user.NormalizeEmail(email)))
		return err
	})
	return
}

func (r *UsersRepo) GetByPhone(ctx context.Context, phone string) (u user.User, err error) {
	err = r.observe("users.get_by_phone", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
		return err
	})
	return
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	out := []user.User{}

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, id ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, ch user.Changes) (u user.User, err error) {
	err = r.observe("users.update", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx,
			`UPDATE users
			SET name = COALESCE($2, name),
				phone = COALESCE($3, phone),
				avatar_url = COALESCE($4, avatar_url),
				password_hash = COALESCE($5, password_hash),
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			id, ch.Name, ch.Phone, ch.AvatarURL, ch.PasswordHash,
		))
		return err
	})
	if err != nil {
		if conflict := ConflictFromPgError(err); conflict != nil {
			return user.User{}, conflict
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	return r.observe("users.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}
		return nil
	})
}
