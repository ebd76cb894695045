package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/category"
	"github.com/geocoder89/sewasanjal/internal/domain/provider"
	"github.com/gin-gonic/gin"
)

type CategoriesService interface {
	Create(ctx context.Context, req category.CreateRequest) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	GetBySlug(ctx context.Context, slug string) (category.Category, error)
	ProvidersBySlug(ctx context.Context, slug string) ([]provider.Provider, error)
	Assign(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) (provider.Provider, error)
	Remove(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) (provider.Provider, error)
}

type CategoriesHandler struct {
	svc CategoriesService
}

func NewCategoriesHandler(svc CategoriesService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

func (h *CategoriesHandler) Create(ctx *gin.Context) {
	var req category.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	c, err := h.svc.Create(cctx, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, c)
}

// List is served with an ETag; the taxonomy rarely changes.
func (h *CategoriesHandler) List(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	items, err := h.svc.List(cctx)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *CategoriesHandler) GetBySlug(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	c, err := h.svc.GetBySlug(cctx, ctx.Param("slug"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c)
}

func (h *CategoriesHandler) Providers(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	items, err := h.svc.ProvidersBySlug(cctx, ctx.Param("slug"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *CategoriesHandler) Assign(ctx *gin.Context) {
	h.link(ctx, h.svc.Assign)
}

func (h *CategoriesHandler) Remove(ctx *gin.Context) {
	h.link(ctx, h.svc.Remove)
}

type linkFn func(ctx context.Context, actor actorctx.Identity, categoryID, providerID string) (provider.Provider, error)

func (h *CategoriesHandler) link(ctx *gin.Context, fn linkFn) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	p, err := fn(cctx, actor, ctx.Param("categoryId"), ctx.Param("providerId"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, p)
}
