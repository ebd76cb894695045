package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/google/uuid"
)

// Location is free-form; City is stored lower-cased so filters compare case-insensitively.
type Location struct {
	City     *string  `json:"city,omitempty" binding:"omitempty,max=80"`
	District *string  `json:"district,omitempty" binding:"omitempty,max=80"`
	Address  *string  `json:"address,omitempty" binding:"omitempty,max=200"`
	Lat      *float64 `json:"lat,omitempty" binding:"omitempty,min=-90,max=90"`
	Lng      *float64 `json:"lng,omitempty" binding:"omitempty,min=-180,max=180"`
}

type Provider struct {
	ID         string              `json:"id"`
	UserID     string              `json:"userId"`
	Bio        *string             `json:"bio,omitempty"`
	IsVerified bool                `json:"isVerified"`
	Location   Location            `json:"location"`
	Categories []category.Category `json:"categories"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// Detail is a provider with its owner projection and offerings.
type Detail struct {
	Provider
	User     user.Public       `json:"user"`
	Services []service.Service `json:"services"`
}

var (
	ErrNotFound      = errors.New("provider not found")
	ErrAlreadyExists = errors.New("provider profile already exists for this user")
)

type CreateRequest struct {
	Bio         *string   `json:"bio" binding:"omitempty,max=1000"`
	CategoryIDs []string  `json:"categoryIds" binding:"omitempty,dive,required"`
	Location    *Location `json:"location"`
}

// UpdateRequest is partial; a non-nil CategoryIDs (even empty) replaces the whole set.
type UpdateRequest struct {
	Bio         *string   `json:"bio" binding:"omitempty,max=1000"`
	CategoryIDs []string  `json:"categoryIds" binding:"omitempty,dive,required"`
	Location    *Location `json:"location"`
}

// ListFilter fields are combined with AND; nil means no constraint.
type ListFilter struct {
	CategoryID *string
	City       *string
	Verified   *bool
}

func NormalizeCity(city *string) *string {
	if city == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*city))
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeLocation returns a copy of loc with a normalised city.
func NormalizeLocation(loc *Location) Location {
	if loc == nil {
		return Location{}
	}
	out := *loc
	out.City = NormalizeCity(loc.City)
	return out
}

func NewForUser(userID string, req CreateRequest) Provider {
	now := time.Now().UTC()
	return Provider{
		ID:         uuid.NewString(),
		UserID:     userID,
		Bio:        req.Bio,
		Location:   NormalizeLocation(req.Location),
		Categories: []category.Category{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
