package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/auth"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/geocoder89/sewasanjal/internal/http/middlewares"
	"github.com/geocoder89/sewasanjal/internal/usecase"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	Register(ctx context.Context, req user.RegisterRequest) (user.Public, error)
	Login(ctx context.Context, client auth.Client, req user.LoginRequest) (usecase.Session, error)
	Me(ctx context.Context, actor actorctx.Identity) (user.Public, error)
}

type AuthHandler struct {
	svc           AuthService
	secureCookies bool
}

// NewAuthHandler marks the web cookie Secure when secureCookies is set (prod).
func NewAuthHandler(svc AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{svc: svc, secureCookies: secureCookies}
}

type mobileLoginResponse struct {
	AccessToken string      `json:"accessToken"`
	TokenType   string      `json:"tokenType"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        user.Public `json:"user"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// hashing dominates; give it room
	cctx, cancel := requestContext(ctx, 5*time.Second)
	defer cancel()

	u, err := h.svc.Register(cctx, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

// LoginWeb delivers the short-lived web token only as an HttpOnly cookie.
func (h *AuthHandler) LoginWeb(ctx *gin.Context) {
	sess, ok := h.login(ctx, auth.ClientWeb)
	if !ok {
		return
	}

	h.setAccessCookie(ctx, sess.Tokens.Web, sess.Tokens.WebExpiresAt)

	ctx.JSON(http.StatusOK, gin.H{"user": sess.User})
}

// LoginMobile returns the long-lived token in the body for Bearer use. /auth/login is an alias.
func (h *AuthHandler) LoginMobile(ctx *gin.Context) {
	sess, ok := h.login(ctx, auth.ClientMobile)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, mobileLoginResponse{
		AccessToken: sess.Tokens.Mobile,
		TokenType:   "Bearer",
		ExpiresAt:   sess.Tokens.MobileExpiresAt,
		User:        sess.User,
	})
}

func (h *AuthHandler) login(ctx *gin.Context, client auth.Client) (usecase.Session, bool) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return usecase.Session{}, false
	}

	cctx, cancel := requestContext(ctx, 5*time.Second)
	defer cancel()

	sess, err := h.svc.Login(cctx, client, req)
	if err != nil {
		RespondAppError(ctx, err)
		return usecase.Session{}, false
	}
	return sess, true
}

// Logout clears the web cookie. Tokens are stateless, so a mobile token stays valid until it expires.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearAccessCookie(ctx)
	ctx.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	u, err := h.svc.Me(cctx, actor)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *AuthHandler) setAccessCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.AccessTokenCookie,
		raw,
		maxAge,
		"/",
		"",
		h.secureCookies,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearAccessCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.AccessTokenCookie,
		"",
		-1,
		"/",
		"",
		h.secureCookies,
		true,
	)
}

// actorFrom reads the identity set by RequireAuth and answers 401 when it is absent.
func actorFrom(ctx *gin.Context) (actorctx.Identity, bool) {
	actor, ok := middlewares.IdentityFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return actorctx.Identity{}, false
	}
	return actor, true
}
