package availability

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Availability is a recurring weekly window; DayOfWeek 0 is Sunday.
type Availability struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"providerId"`
	DayOfWeek  int       `json:"dayOfWeek"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var (
	ErrNotFound     = errors.New("availability not found")
	ErrInvalidRange = errors.New("startTime must be before endTime")
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ValidClock reports whether s is a 24h HH:MM clock value.
func ValidClock(s string) bool {
	return hhmm.MatchString(s)
}

type CreateRequest struct {
	DayOfWeek *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm"`
}

type UpdateRequest struct {
	DayOfWeek *int    `json:"dayOfWeek" binding:"omitempty,min=0,max=6"`
	StartTime *string `json:"startTime" binding:"omitempty,hhmm"`
	EndTime   *string `json:"endTime" binding:"omitempty,hhmm"`
}

func NewForProvider(providerID string, req CreateRequest) Availability {
	now := time.Now().UTC()
	return Availability{
		ID:         uuid.NewString(),
		ProviderID: providerID,
		DayOfWeek:  *req.DayOfWeek,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (a Availability) Apply(req UpdateRequest) Availability {
	if req.DayOfWeek != nil {
		a.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		a.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		a.EndTime = *req.EndTime
	}
	a.UpdatedAt = time.Now().UTC()
	return a
}

// Validate checks the window ordering; zero-padded HH:MM compares lexically.
func (a Availability) Validate() error {
	if !ValidClock(a.StartTime) || !ValidClock(a.EndTime) || a.StartTime >= a.EndTime {
		return ErrInvalidRange
	}
	return nil
}
