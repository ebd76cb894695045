package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilitiesService interface {
	Create(ctx context.Context, actor actorctx.Identity, providerID string, req availability.CreateRequest) (availability.Availability, error)
	List(ctx context.Context, providerID string) ([]availability.Availability, error)
	Get(ctx context.Context, providerID, id string) (availability.Availability, error)
	Update(ctx context.Context, actor actorctx.Identity, providerID, id string, req availability.UpdateRequest) (availability.Availability, error)
	Delete(ctx context.Context, actor actorctx.Identity, providerID, id string) (availability.Availability, error)
}

// AvailabilitiesHandler serves /providers/:id/availabilities.
type AvailabilitiesHandler struct {
	svc AvailabilitiesService
}

func NewAvailabilitiesHandler(svc AvailabilitiesService) *AvailabilitiesHandler {
	return &AvailabilitiesHandler{svc: svc}
}

func (h *AvailabilitiesHandler) Create(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req availability.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	a, err := h.svc.Create(cctx, actor, ctx.Param("id"), req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

func (h *AvailabilitiesHandler) List(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	items, err := h.svc.List(cctx, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *AvailabilitiesHandler) Get(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	a, err := h.svc.Get(cctx, ctx.Param("id"), ctx.Param("availabilityId"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *AvailabilitiesHandler) Update(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req availability.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	a, err := h.svc.Update(cctx, actor, ctx.Param("id"), ctx.Param("availabilityId"), req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *AvailabilitiesHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	a, err := h.svc.Delete(cctx, actor, ctx.Param("id"), ctx.Param("availabilityId"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, a)
}
