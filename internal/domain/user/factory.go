package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewFromRegister builds a User from a validated registration; the caller supplies the hash.
func NewFromRegister(req RegisterRequest, passwordHash string) User {
	now := time.Now().UTC()

	role := RoleCustomer
	if req.Role != nil && req.Role.Valid() {
		role = *req.Role
	}

	return User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(req.Email),
		Phone:        NormalizePhone(req.Phone),
		PasswordHash: passwordHash,
		Name:         strings.TrimSpace(req.Name),
		Role:         role,
		AvatarURL:    req.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone trims the phone and maps blank values to nil.
func NormalizePhone(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
