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

type MarketplaceService interface {
	RegisterBusiness(ctx context.Context, business domain.Business) (domain.Business, error)
	GetBusiness(ctx context.Context, id uint) (domain.Business, error)
	GetBusinessesByEventID(ctx context.Context, eventID uint, page, limit int) ([]domain.Business, int64, error)
	ApproveBusiness(ctx context.Context, id uint, actor domain.User) (domain.Business, error)
	RejectBusiness(ctx context.Context, id uint, reason string, actor domain.User) (domain.Business, error)
	AssignBooth(ctx context.Context, id uint, booth string) (domain.Business, error)
	CancelRegistration(ctx context.Context, id, userID uint) error
}

type MarketplaceHandler struct {
	svc  MarketplaceService
	uSvc UserService
}

func NewMarketplaceHandler(svc MarketplaceService, uSvc UserService) *MarketplaceHandler {
	return &MarketplaceHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleRegisterBusiness godoc
// @Summary      Register a business for an event
// @Description  Registers the caller's business. Student registrations carry a team roster and optional mentor; external vendor registrations carry owner name and address. One registration per user per event.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        request  body     request.RegisterBusinessRequest true "request body"
// @Success      201 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/register [post]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleRegisterBusiness(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterBusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	business := domain.Business{
		EventID:     eventID,
		OwnerID:     user.ID,
		Type:        req.Type,
		ProductName: req.ProductName,
		Description: req.Description,
		Phone:       req.Phone,
	}
	switch req.Type {
	case domain.BusinessStudent:
		business.StudentDetail = &domain.StudentDetail{
			MentorID:   req.MentorID,
			TeamRoster: req.TeamRoster,
		}
	case domain.BusinessVendor:
		business.VendorDetail = &domain.VendorDetail{
			OwnerName: req.OwnerName,
			Address:   req.Address,
		}
	}

	created, err := h.svc.RegisterBusiness(ctx.Request.Context(), business)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrDuplicateRegistration),
			errors.Is(err, service.ErrProductNameTaken):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrEventNotOpen),
			errors.Is(err, service.ErrEventLocked),
			errors.Is(err, service.ErrRegistrationClosed),
			errors.Is(err, service.ErrEventFull),
			errors.Is(err, service.ErrMentorNotLecturer):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleRegisterBusiness -> h.svc.RegisterBusiness -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.Created(ctx, created, "pendaftaran berhasil, menunggu persetujuan")
}

// HandleGetBusinesses godoc
// @Summary      List an event's registered businesses
// @Tags         marketplace
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        page     query    int  false "page number"
// @Param        limit    query    int  false "page size"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/businesses [get]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleGetBusinesses(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, limit := parsePagination(ctx)

	businesses, total, err := h.svc.GetBusinessesByEventID(ctx.Request.Context(), eventID, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetBusinesses -> h.svc.GetBusinessesByEventID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Paginated(ctx, businesses, page, limit, total)
}

// HandleApproveBusiness godoc
// @Summary      Approve a pending registration
// @Description  Approves a PENDING registration. Admins may approve any; a lecturer may only approve registrations naming them as mentor.
// @Tags         marketplace
// @Produce      json
// @Param        businessID  path  int  true "business ID"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /businesses/{businessID}/approve [post]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleApproveBusiness(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	businessID, respErr := parseIDParam(ctx, "businessID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	business, err := h.svc.ApproveBusiness(ctx.Request.Context(), businessID, user)
	if err != nil {
		h.renderDecisionErr(ctx, err, businessID, "v1.HandleApproveBusiness")
		return
	}

	response.OK(ctx, business, "pendaftaran disetujui")
}

// HandleRejectBusiness godoc
// @Summary      Reject a pending registration
// @Description  Rejects a PENDING registration with an optional reason. Admins may reject any; a lecturer may only reject registrations naming them as mentor.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        businessID  path  int  true "business ID"
// @Param        request     body  request.RejectBusinessRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /businesses/{businessID}/reject [post]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleRejectBusiness(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	businessID, respErr := parseIDParam(ctx, "businessID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RejectBusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	business, err := h.svc.RejectBusiness(ctx.Request.Context(), businessID, req.Reason, user)
	if err != nil {
		h.renderDecisionErr(ctx, err, businessID, "v1.HandleRejectBusiness")
		return
	}

	response.OK(ctx, business, "pendaftaran ditolak")
}

func (h *MarketplaceHandler) renderDecisionErr(ctx *gin.Context, err error, businessID uint, op string) {
	switch {
	case errors.Is(err, service.ErrBusinessNotFound):
		response.RenderErr(ctx, response.ErrNotFound("business", "ID", businessID))
	case errors.Is(err, service.ErrNotMentor):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotMentor))
	case errors.Is(err, service.ErrBusinessNotPending):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrBusinessNotPending))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

// HandleAssignBooth godoc
// @Summary      Assign a booth number
// @Description  Assigns a booth to an APPROVED business. Booth numbers are unique within an event. Admin only.
// @Tags         marketplace
// @Accept       json
// @Produce      json
// @Param        businessID  path  int  true "business ID"
// @Param        request     body  request.AssignBoothRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /businesses/{businessID}/booth [post]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleAssignBooth(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	businessID, respErr := parseIDParam(ctx, "businessID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AssignBoothRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	business, err := h.svc.AssignBooth(ctx.Request.Context(), businessID, req.BoothNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			response.RenderErr(ctx, response.ErrNotFound("business", "ID", businessID))
		case errors.Is(err, service.ErrBoothTaken):
			response.RenderErr(ctx, response.ErrConflict(service.ErrBoothTaken))
		case errors.Is(err, service.ErrBusinessNotApproved):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBusinessNotApproved))
		default:
			err = fmt.Errorf("v1.HandleAssignBooth -> h.svc.AssignBooth -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.OK(ctx, business, "nomor stan berhasil ditetapkan")
}

// HandleCancelRegistration godoc
// @Summary      Cancel own registration
// @Description  Deletes the caller's registration while it is still PENDING.
// @Tags         marketplace
// @Produce      json
// @Param        businessID  path  int  true "business ID"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /businesses/{businessID} [delete]
// @Security BearerAuth
func (h *MarketplaceHandler) HandleCancelRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	businessID, respErr := parseIDParam(ctx, "businessID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.CancelRegistration(ctx.Request.Context(), businessID, user.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrBusinessNotFound):
			response.RenderErr(ctx, response.ErrNotFound("business", "ID", businessID))
		case errors.Is(err, service.ErrNotOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOwner))
		case errors.Is(err, service.ErrBusinessNotPending):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBusinessNotPending))
		default:
			err = fmt.Errorf("v1.HandleCancelRegistration -> h.svc.CancelRegistration -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	response.OK(ctx, nil, "pendaftaran dibatalkan")
}
