package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public is the projection returned to clients.
type Public struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Role      Role    `json:"role"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

func (u User) Public() Public {
	return Public{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

var ErrNotFound = errors.New("user not found")

type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone" binding:"omitempty,min=7,max=20"`
	Password  string  `json:"password" binding:"required,min=6"`
	Name      string  `json:"name" binding:"required,min=1,max=120"`
	Role      *Role   `json:"role" binding:"omitempty,oneof=CUSTOMER PROVIDER"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateRequest is a partial update of the caller's own profile.
type UpdateRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=120"`
	Phone     *string `json:"phone" binding:"omitempty,min=7,max=20"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
}

// Changes is what a repository applies on update; nil fields stay untouched.
type Changes struct {
	Name         *string
	Phone        *string
	AvatarURL    *string
	PasswordHash *string
}
