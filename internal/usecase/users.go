package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/cache"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/security"
)

type Users struct {
	users UserRepository
	cache *ListingCache
}

func NewUsers(users UserRepository, listing *ListingCache) *Users {
	return &Users{users: users, cache: listing}
}

func (u *Users) List(ctx context.Context) ([]user.Public, error) {
	all, err := u.users.List(ctx)
	if err != nil {
		return nil, translate(err)
	}

	out := make([]user.Public, 0, len(all))
	for _, x := range all {
		out = append(out, x.Public())
	}
	return out, nil
}

func (u *Users) Get(ctx context.Context, id string) (user.Public, error) {
	found, err := u.users.GetByID(ctx, id)
	if err != nil {
		return user.Public{}, translate(err)
	}
	return found.Public(), nil
}

// UpdateMe applies a partial profile update for the caller.
func (u *Users) UpdateMe(ctx context.Context, actor actorctx.Identity, req user.UpdateRequest) (user.Public, error) {
	var ch user.Changes

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return user.Public{}, apperr.Invalid("invalid_name", "name must not be blank")
		}
		ch.Name = &name
	}

	if phone := user.NormalizePhone(req.Phone); phone != nil {
		other, err := u.users.GetByPhone(ctx, *phone)
		switch {
		case err == nil && other.ID != actor.UserID:
			return user.Public{}, apperr.Conflict("Duplicate value detected", "phone")
		case err != nil && !errors.Is(err, user.ErrNotFound):
			return user.Public{}, translate(err)
		}
		ch.Phone = phone
	}

	ch.AvatarURL = req.AvatarURL

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return user.Public{}, apperr.Internal(err, "Could not update user")
		}
		ch.PasswordHash = &hash
	}

	updated, err := u.users.Update(ctx, actor.UserID, ch)
	if err != nil {
		return user.Public{}, translate(err)
	}
	return updated.Public(), nil
}

// Delete removes an account; an admin cannot delete their own account.
func (u *Users) Delete(ctx context.Context, actor actorctx.Identity, id string) error {
	if actor.UserID == id {
		return apperr.Forbidden("You cannot delete your own account")
	}

	if err := u.users.Delete(ctx, id); err != nil {
		return translate(err)
	}

	// the user's provider profile and offerings go with it
	u.cache.invalidate(ctx, cache.ProvidersPrefix, cache.ServicesPrefix)
	return nil
}
