package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/service"
)

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path     int  true "user ID"
// @Success      200     {object}  response.Envelope
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID} [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, respErr := parseIDParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, user, "")
}

// HandleListLecturers godoc
// @Summary      List lecturer accounts
// @Description  Returns every DOSEN account, for assessor and mentor pickers.
// @Tags         users
// @Produce      json
// @Success      200 {object} response.Envelope
// @Failure      500 {object} response.Err
// @Router       /users/lecturers [get]
// @Security BearerAuth
func (h *UserHandler) HandleListLecturers(ctx *gin.Context) {
	lecturers, err := h.svc.ListLecturers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListLecturers -> h.svc.ListLecturers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, lecturers, "")
}
