package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultCurrency = "NPR"

// Service is an offering owned by exactly one provider.
type Service struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	DurationMin int       `json:"durationMin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("service not found")

type CreateRequest struct {
	Title       string  `json:"title" binding:"required,min=2,max=120"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Currency    *string `json:"currency" binding:"omitempty,len=3,alpha"`
	DurationMin int     `json:"durationMin" binding:"required,min=1,max=1440"`
	CategoryID  *string `json:"categoryId" binding:"omitempty,uuid"`
}

type UpdateRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=2,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Currency    *string  `json:"currency" binding:"omitempty,len=3,alpha"`
	DurationMin *int     `json:"durationMin" binding:"omitempty,min=1,max=1440"`
	CategoryID  *string  `json:"categoryId" binding:"omitempty,uuid"`
}

type ListFilter struct {
	CategoryID *string
	ProviderID *string
	City       *string
	Verified   *bool
}

func NewForProvider(providerID string, req CreateRequest) Service {
	now := time.Now().UTC()
	currency := DefaultCurrency
	if req.Currency != nil && strings.TrimSpace(*req.Currency) != "" {
		currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	return Service{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		CategoryID:  req.CategoryID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Currency:    currency,
		DurationMin: req.DurationMin,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Apply merges a partial update into s.
func (s Service) Apply(req UpdateRequest) Service {
	if req.Title != nil {
		s.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		s.Description = req.Description
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.Currency != nil {
		s.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.DurationMin != nil {
		s.DurationMin = *req.DurationMin
	}
	if req.CategoryID != nil {
		s.CategoryID = req.CategoryID
	}
	s.UpdatedAt = time.Now().UTC()
	return s
}
