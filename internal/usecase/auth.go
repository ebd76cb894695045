package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/apperr"
	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/observability"
	"github.com/geocoder89/sewasanjal/internal/security"
)

var errInvalidCredentials = apperr.Unauthorized("invalid_credentials", "Email or password is incorrect.")

type Auth struct {
	users  UserRepository
	tokens *auth.Manager
	prom   *observability.Prom

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(users UserRepository, tokens *auth.Manager, prom *observability.Prom) *Auth {
	return &Auth{users: users, tokens: tokens, prom: prom}
}

// Session is the result of a successful login.
type Session struct {
	User   user.Public
	Tokens auth.TokenPair
}

// Register creates a CUSTOMER or PROVIDER account. Duplicate email/phone is a conflict naming the field(s).
func (a *Auth) Register(ctx context.Context, req user.RegisterRequest) (user.Public, error) {
	if req.Role != nil && *req.Role != user.RoleCustomer && *req.Role != user.RoleProvider {
		return user.Public{}, apperr.Invalid("invalid_role", "role must be CUSTOMER or PROVIDER")
	}
	if strings.TrimSpace(req.Name) == "" {
		return user.Public{}, apperr.Invalid("invalid_name", "name must not be blank")
	}

	var taken []string

	_, err := a.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		taken = append(taken, "email")
	case !errors.Is(err, user.ErrNotFound):
		return user.Public{}, translate(err)
	}

	if phone := user.NormalizePhone(req.Phone); phone != nil {
		_, err := a.users.GetByPhone(ctx, *phone)
		switch {
		case err == nil:
			taken = append(taken, "phone")
		case !errors.Is(err, user.ErrNotFound):
			return user.Public{}, translate(err)
		}
	}

	if len(taken) > 0 {
		return user.Public{}, apperr.Conflict("Duplicate value detected", taken...)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.Public{}, apperr.Internal(err, "Could not create user")
	}

	// the store still enforces uniqueness when a concurrent registration wins the race
	created, err := a.users.Create(ctx, user.NewFromRegister(req, hash))
	if err != nil {
		return user.Public{}, translate(err)
	}

	return created.Public(), nil
}

// Login verifies credentials and signs both client tokens. Unknown email and wrong
// password produce the same error, and both pay for one bcrypt comparison.
func (a *Auth) Login(ctx context.Context, client auth.Client, req user.LoginRequest) (Session, error) {
	found, err := a.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			return Session{}, translate(err)
		}
		_ = security.CheckPassword(a.dummy(), req.Password)
		a.prom.ObserveLogin(string(client), "invalid_credentials")
		return Session{}, errInvalidCredentials
	}

	if err := security.CheckPassword(found.PasswordHash, req.Password); err != nil {
		a.prom.ObserveLogin(string(client), "invalid_credentials")
		return Session{}, errInvalidCredentials
	}

	pair, err := a.tokens.IssuePair(found.ID, found.Name, found.Role)
	if err != nil {
		return Session{}, apperr.Internal(err, "Could not generate access token")
	}

	a.prom.ObserveLogin(string(client), "success")

	return Session{User: found.Public(), Tokens: pair}, nil
}

// Me reads the caller fresh from the store, so a role change shows up before re-login.
func (a *Auth) Me(ctx context.Context, actor actorctx.Identity) (user.Public, error) {
	u, err := a.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return user.Public{}, translate(err)
	}
	return u.Public(), nil
}

func (a *Auth) dummy() string {
	a.dummyOnce.Do(func() {
		a.dummyHash, _ = security.HashPassword("sewasanjal-timing-equaliser")
	})
	return a.dummyHash
}
