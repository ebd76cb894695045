package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/sewasanjal/internal/actorctx"
	"github.com/geocoder89/sewasanjal/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UsersService interface {
	List(ctx context.Context) ([]user.Public, error)
	Get(ctx context.Context, id string) (user.Public, error)
	UpdateMe(ctx context.Context, actor actorctx.Identity, req user.UpdateRequest) (user.Public, error)
	Delete(ctx context.Context, actor actorctx.Identity, id string) error
}

type UsersHandler struct {
	svc UsersService
}

func NewUsersHandler(svc UsersService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) List(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	users, err := h.svc.List(cctx)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	u, err := h.svc.Get(cctx, ctx.Param("id"))
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Me(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 2*time.Second)
	defer cancel()

	u, err := h.svc.Get(cctx, actor.UserID)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateMe(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := requestContext(ctx, 5*time.Second)
	defer cancel()

	u, err := h.svc.UpdateMe(cctx, actor, req)
	if err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	actor, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := requestContext(ctx, 3*time.Second)
	defer cancel()

	if err := h.svc.Delete(cctx, actor, ctx.Param("id")); err != nil {
		RespondAppError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
