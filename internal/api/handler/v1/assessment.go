package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/request"
	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/service"
)

type AssessmentService interface {
	CreateCategory(ctx context.Context, category domain.Category, assessorIDs []uint) (domain.Category, error)
	GetCategoriesByEventID(ctx context.Context, eventID uint) ([]domain.Category, error)
	SubmitScore(ctx context.Context, score domain.Score) (domain.Score, error)
	ComputeRanking(ctx context.Context, categoryID uint) ([]domain.RankingEntry, error)
	SetWinner(ctx context.Context, categoryID, businessID uint) (domain.Category, error)
}

type AssessmentHandler struct {
	svc  AssessmentService
	uSvc UserService
}

func NewAssessmentHandler(svc AssessmentService, uSvc UserService) *AssessmentHandler {
	return &AssessmentHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateCategory godoc
// @Summary      Create an assessment category
// @Description  Creates a category with its criteria and assessor assignments. Criteria weights must sum to 100. Admin only.
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        request  body     request.CreateCategoryRequest true "request body"
// @Success      201 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/categories [post]
// @Security BearerAuth
func (h *AssessmentHandler) HandleCreateCategory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	criteria := make([]domain.Criterion, 0, len(req.Criteria))
	for _, c := range req.Criteria {
		criteria = append(criteria, domain.Criterion{
			Name:   c.Name,
			Weight: c.Weight,
		})
	}

	category, err := h.svc.CreateCategory(ctx.Request.Context(), domain.Category{
		EventID:     eventID,
		Name:        req.Name,
		Description: req.Description,
		Criteria:    criteria,
	}, req.AssessorIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrInvalidWeightTotal),
			errors.Is(err, service.ErrNoCriteria),
			errors.Is(err, service.ErrAssessorNotFound),
			errors.Is(err, service.ErrAssessorNotLecturer):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleCreateCategory -> h.svc.CreateCategory -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.Created(ctx, category, "kategori penilaian berhasil dibuat")
}

// HandleGetCategories godoc
// @Summary      List an event's assessment categories
// @Tags         assessment
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/categories [get]
// @Security BearerAuth
func (h *AssessmentHandler) HandleGetCategories(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	categories, err := h.svc.GetCategoriesByEventID(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCategories -> h.svc.GetCategoriesByEventID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, categories, "")
}

// HandleSubmitScore godoc
// @Summary      Submit a score
// @Description  Upserts the caller's score for one (business, category, criterion) cell. Only assigned assessors may score, and only while the event is ongoing. Re-submission overwrites.
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        request  body     request.SubmitScoreRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /scores [post]
// @Security BearerAuth
func (h *AssessmentHandler) HandleSubmitScore(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SubmitScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	score, err := h.svc.SubmitScore(ctx.Request.Context(), domain.Score{
		BusinessID:  req.BusinessID,
		CategoryID:  req.CategoryID,
		CriterionID: req.CriterionID,
		AssessorID:  user.ID,
		Value:       req.Value,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", req.CategoryID))
		case errors.Is(err, service.ErrBusinessNotFound):
			response.RenderErr(ctx, response.ErrNotFound("business", "ID", req.BusinessID))
		case errors.Is(err, service.ErrNotAssessor):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAssessor))
		case errors.Is(err, service.ErrEventNotOngoing),
			errors.Is(err, service.ErrScoreOutOfRange),
			errors.Is(err, service.ErrBusinessNotInEvent),
			errors.Is(err, service.ErrCriterionNotFound):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitScore -> h.svc.SubmitScore -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.OK(ctx, score, "nilai berhasil disimpan")
}

// HandleGetRanking godoc
// @Summary      Get a category's ranking
// @Description  Ordered standings of the category's eligible businesses, with per-criterion breakdown and weighted totals. Admins and lecturers only.
// @Tags         assessment
// @Produce      json
// @Param        categoryID  path  int  true "category ID"
// @Success      200 {object} response.Envelope
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /categories/{categoryID}/ranking [get]
// @Security BearerAuth
func (h *AssessmentHandler) HandleGetRanking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() && !user.IsLecturer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot read rankings", user.ID)))
		return
	}

	categoryID, respErr := parseIDParam(ctx, "categoryID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	entries, err := h.svc.ComputeRanking(ctx.Request.Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRanking -> h.svc.ComputeRanking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, entries, "")
}

// HandleSetWinner godoc
// @Summary      Set a category winner
// @Description  Manually assigns the winner of a category. Only possible once, and only after the event has finished. Admin only.
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        categoryID  path  int  true "category ID"
// @Param        request     body  request.SetWinnerRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /categories/{categoryID}/winner [post]
// @Security BearerAuth
func (h *AssessmentHandler) HandleSetWinner(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	categoryID, respErr := parseIDParam(ctx, "categoryID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.SetWinnerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.SetWinner(ctx.Request.Context(), categoryID, req.BusinessID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.RenderErr(ctx, response.ErrNotFound("category", "ID", categoryID))
		case errors.Is(err, service.ErrBusinessNotFound):
			response.RenderErr(ctx, response.ErrNotFound("business", "ID", req.BusinessID))
		case errors.Is(err, service.ErrWinnerAlreadySet),
			errors.Is(err, service.ErrEventNotFinished),
			errors.Is(err, service.ErrBusinessNotInEvent):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSetWinner -> h.svc.SetWinner -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.OK(ctx, category, "pemenang kategori berhasil ditetapkan")
}
