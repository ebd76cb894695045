package auth

import (
	"errors"
	"time"

	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Client distinguishes the calling platform; it drives the token lifetime.
type Client string

const (
	ClientWeb    Client = "web"
	ClientMobile Client = "mobile"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrUnknownClient = errors.New("unknown token client")
)

type Claims struct {
	Name   string    `json:"name"`
	Role   user.Role `json:"role"`
	Client Client    `json:"client"`
	jwt.RegisteredClaims
}

// UserID is the token subject.
func (c *Claims) UserID() string { return c.Subject }

// TokenPair is the result of one login event.
type TokenPair struct {
	Web             string
	WebExpiresAt    time.Time
	Mobile          string
	MobileExpiresAt time.Time
}

type Manager struct {
	secret    []byte
	webTTL    time.Duration
	mobileTTL time.Duration
	now       func() time.Time
}

func NewManager(secret string, webTTL time.Duration, mobileTTL time.Duration) *Manager {
	return &Manager{
		secret:    []byte(secret),
		webTTL:    webTTL,
		mobileTTL: mobileTTL,
		now:       time.Now,
	}
}

// WithClock swaps the time source; used by tests to exercise expiry.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) TTL(client Client) (time.Duration, error) {
	switch client {
	case ClientWeb:
		return m.webTTL, nil
	case ClientMobile:
		return m.mobileTTL, nil
	default:
		return 0, ErrUnknownClient
	}
}

// IssuePair signs both client tokens from the same issued-at instant.
func (m *Manager) IssuePair(userID, name string, role user.Role) (TokenPair, error) {
	issuedAt := m.now().UTC()

	web, webExp, err := m.sign(issuedAt, ClientWeb, userID, name, role)
	if err != nil {
		return TokenPair{}, err
	}

	mobile, mobileExp, err := m.sign(issuedAt, ClientMobile, userID, name, role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		Web:             web,
		WebExpiresAt:    webExp,
		Mobile:          mobile,
		MobileExpiresAt: mobileExp,
	}, nil
}

func (m *Manager) sign(issuedAt time.Time, client Client, userID, name string, role user.Role) (string, time.Time, error) {
	ttl, err := m.TTL(client)
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := issuedAt.Add(ttl)

	claims := Claims{
		Name:   name,
		Role:   role,
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (m *Manager) ParseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// VerifyAccessToken accepts tokens from either client as long as identity and role are present.
func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	claims, err := m.ParseAndValidate(tokenStr)
	if err != nil {
		return nil, err
	}

	if claims.Client != ClientWeb && claims.Client != ClientMobile {
		return nil, ErrUnknownClient
	}

	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
