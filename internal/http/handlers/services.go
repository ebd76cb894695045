package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/service"
	"github.com/gin-gonic/gin"
)

type ServicesService interface {
	Create(ctx context.Context, actor actorctx.Identity, req service.CreateRequest) (service.Service, error)
	List(ctx context.Context, f service.ListFilter) ([]service.Service, error)
	Get(ctx context.Context, id string) (service.Service, error)
	Update(ctx context.Context, actor actorctx.Identity, id string, req service.UpdateRequest) (service.Service, error)
	Delete(ctx context.Context, actor actorctx.Identity, id string) (service.Service, error)
}

type ServicesHandler struct {
	svc ServicesService
}

func NewServicesHandler(svc ServicesService) *ServicesHandler {
	return &ServicesHandler{svc: svc}
}

func (h *ServicesHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	s, err := h.svc.Create(cctx, actor, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, s)
}

// List filters: categoryId, providerId, city, verified (AND).
func (h *ServicesHandler) List(ctx *gin.Context) {
	verified, ok := optionalBoolQuery(ctx, "verified")
	if !ok {
		return
	}

	f := service.ListFilter{
		CategoryID: optionalQuery(ctx, "categoryId", "category"),
		ProviderID: optionalQuery(ctx, "providerId"),
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

func (h *ServicesHandler) Get(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	s, err := h.svc.Get(cctx, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *ServicesHandler) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req service.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	s, err := h.svc.Update(cctx, actor, ctx.Param("id"), req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, s)
}

func (h *ServicesHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	s, err := h.svc.Delete(cctx, actor, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, s)
}
