package memory

import (
	"context"
	"sort"
	"time"

	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

// uniqueUserFields mirrors the users_email_key / users_phone_key constraints.
func (r *UsersRepo) uniqueUserFields(u user.User) []string {
	var fields []string
	for _, existing := range r.s.users {
		if existing.ID == u.ID {
			continue
		}
		if existing.Email == u.Email {
			fields = append(fields, "email")
		}
		if u.Phone != nil && existing.Phone != nil && *existing.Phone == *u.Phone {
			fields = append(fields, "phone")
		}
	}
	return fields
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if fields := r.uniqueUserFields(u); len(fields) > 0 {
		return user.User{}, apperr.Conflict("Duplicate value detected", fields...)
	}

	r.s.users[u.ID] = u
	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	email = user.NormalizeEmail(email)

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByPhone(ctx context.Context, phone string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Phone != nil && *u.Phone == phone {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]user.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, ch user.Changes) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if ch.Name != nil {
		u.Name = *ch.Name
	}
	if ch.Phone != nil {
		u.Phone = ch.Phone
	}
	if ch.AvatarURL != nil {
		u.AvatarURL = ch.AvatarURL
	}
	if ch.PasswordHash != nil {
		u.PasswordHash = *ch.PasswordHash
	}

	if fields := r.uniqueUserFields(u); len(fields) > 0 {
		return user.User{}, apperr.Conflict("Duplicate value detected", fields...)
	}

	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return u, nil
}

// Delete cascades to the user's provider profile like the foreign keys do.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(r.s.users, id)

	for pid, p := range r.s.providers {
		if p.UserID == id {
			r.s.deleteProviderLocked(pid)
		}
	}
	return nil
}
