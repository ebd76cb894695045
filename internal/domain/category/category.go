package category

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

var ErrNotFound = errors.New("category not found")

type CreateRequest struct {
	Name string `json:"name" binding:"required,min=2,max=80"`
	Slug string `json:"slug" binding:"required,min=2,max=80"`
}

// NormalizeSlug trims and lower-cases a slug so lookups and writes agree.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func NewFromCreateRequest(req CreateRequest) Category {
	return Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Slug:      NormalizeSlug(req.Slug),
		CreatedAt: time.Now().UTC(),
	}
}
