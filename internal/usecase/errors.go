package usecase

import (
	"errors"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
)

// translate maps repository sentinels onto the apperr taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	switch {
	case errors.Is(err, user.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "user_not_found", "User not found")
	case errors.Is(err, provider.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "provider_not_found", "Provider not found")
	case errors.Is(err, category.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "category_not_found", "Category not found")
	case errors.Is(err, service.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "service_not_found", "Service not found")
	case errors.Is(err, availability.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, "availability_not_found", "Availability not found")
	case errors.Is(err, availability.ErrInvalidRange):
		return apperr.Wrap(err, apperr.KindInvalid, "invalid_time_range", "startTime must be before endTime")
	case errors.Is(err, provider.ErrAlreadyExists):
		return apperr.Conflict("Provider profile already exists for this user", "userId")
	default:
		return apperr.Internal(err, "Something went wrong")
	}
}

// ensureOwner runs after the entity lookup, so absent ids are already 404 by the time it is reached.
func ensureOwner(actor actorctx.Identity, ownerUserID string) error {
	if actor.UserID == "" || actor.UserID != ownerUserID {
		return apperr.Forbidden("You are not allowed to modify this resource")
	}
	return nil
}
