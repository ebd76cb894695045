package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/gin-gonic/gin"
)

type ProvidersService interface {
	Create(ctx context.Context, actor actorctx.Identity, req provider.CreateRequest) (provider.Provider, error)
	List(ctx context.Context, f provider.ListFilter) ([]provider.Provider, error)
	Get(ctx context.Context, id string) (provider.Detail, error)
	Update(ctx context.Context, actor actorctx.Identity, id string, req provider.UpdateRequest) (provider.Provider, error)
	Verify(ctx context.Context, id string, verified bool) (provider.Provider, error)
}

type ProvidersHandler struct {
	svc ProvidersService
}

func NewProvidersHandler(svc ProvidersService) *ProvidersHandler {
	return &ProvidersHandler{svc: svc}
}

type VerifyRequest struct {
	IsVerified *bool `json:"isVerified"`
}

func (h *ProvidersHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req provider.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 5*time.Second)
	defer cancel()

	p, err := h.svc.Create(cctx, actor, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// List filters: categoryId, city, verified (AND).
func (h *ProvidersHandler) List(ctx *gin.Context) {
	verified, ok := optionalBoolQuery(ctx, "verified")
	if !ok {
		return
	}

	f := provider.ListFilter{
		CategoryID: optionalQuery(ctx, "categoryId", "category"),
		City:       optionalQuery(ctx, "city"),
		Verified:   verified,
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	items, err := h.svc.List(cctx, f)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *ProvidersHandler) Get(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	d, err := h.svc.Get(cctx, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, d)
}

func (h *ProvidersHandler) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req provider.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 5*time.Second)
	defer cancel()

	p, err := h.svc.Update(cctx, actor, ctx.Param("id"), req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}

// Verify takes an optional {"isVerified": bool} body; no body means true.
func (h *ProvidersHandler) Verify(ctx *gin.Context) {
	verified := true

	if ctx.Request.ContentLength != 0 {
		var req VerifyRequest
		if !BindJSON(ctx, &req) {
			return
		}
		if req.IsVerified != nil {
			verified = *req.IsVerified
		}
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	p, err := h.svc.Verify(cctx, ctx.Param("id"), verified)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}
