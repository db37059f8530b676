package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/api/middleware"
	"github.com/bazarkampus/bazar-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListLecturers(ctx context.Context) ([]domain.User, error)
}

var errUnauthenticated = errors.New("authentication required")

// getUserFromContext resolves the authenticated user stored by VerifyJWT.
func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	raw, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.User{}, response.ErrWrongCredentials(errUnauthenticated)
	}

	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return domain.User{}, response.ErrWrongCredentials(errUnauthenticated)
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}

// parseIDParam parses a positive path id such as :eventID.
func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v", name))
	}

	return uint(id), nil
}

// parsePagination reads page/limit query params with sane defaults.
func parsePagination(ctx *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}
