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

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]domain.Event, int64, error)
	UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	ChangeStatus(ctx context.Context, id uint, to string) ([]domain.WinnerResult, error)
	AddSponsor(ctx context.Context, sponsor domain.Sponsor) (domain.Sponsor, error)
	GetSponsors(ctx context.Context, eventID uint) ([]domain.Sponsor, error)
	RemoveSponsor(ctx context.Context, eventID, sponsorID uint) error
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        page    query    int  false "page number"
// @Param        limit   query    int  false "page size"
// @Success      200 {object} response.Envelope
// @Failure      500 {object} response.Err
// @Router       /events [get]
// @Security BearerAuth
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	page, limit := parsePagination(ctx)

	events, total, err := h.svc.ListEvents(ctx.Request.Context(), page, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Paginated(ctx, events, page, limit, total)
}

// HandleGetEvent godoc
// @Summary      Get an event by ID
// @Tags         events
// @Produce      json
// @Param        eventID   path    int  true "event ID"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID} [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, event, "")
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Description  Creates an event in DRAFT status. Admin only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body     request.CreateEventRequest true "request body"
// @Success      201 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		RegistrationOpen:  req.RegistrationOpen,
		RegistrationClose: req.RegistrationClose,
		Quota:             req.Quota,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Created(ctx, event, "event berhasil dibuat")
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        request  body     request.UpdateEventRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
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

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.UpdateEvent(ctx.Request.Context(), domain.Event{
		ID:                eventID,
		Name:              req.Name,
		Description:       req.Description,
		Location:          req.Location,
		RegistrationOpen:  req.RegistrationOpen,
		RegistrationClose: req.RegistrationClose,
		Quota:             req.Quota,
		Locked:            req.Locked,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, event, "event berhasil diperbarui")
}

// HandleChangeEventStatus godoc
// @Summary      Advance an event's status
// @Description  Moves the event one step forward in its lifecycle. Finishing an event runs the winner pass and returns its per-category results. Admin only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        request  body     request.ChangeEventStatusRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/status [post]
// @Security BearerAuth
func (h *EventHandler) HandleChangeEventStatus(ctx *gin.Context) {
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

	var req request.ChangeEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	winners, err := h.svc.ChangeStatus(ctx.Request.Context(), eventID, req.Status)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}
		if errors.Is(err, service.ErrInvalidStatusChange) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidStatusChange))
			return
		}

		err = fmt.Errorf("v1.HandleChangeEventStatus -> h.svc.ChangeStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, gin.H{
		"status":  req.Status,
		"winners": winners,
	}, "status event berhasil diubah")
}

// HandleAddSponsor godoc
// @Summary      Add a sponsor to an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Param        request  body     request.AddSponsorRequest true "request body"
// @Success      201 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/sponsors [post]
// @Security BearerAuth
func (h *EventHandler) HandleAddSponsor(ctx *gin.Context) {
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

	var req request.AddSponsorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	sponsor, err := h.svc.AddSponsor(ctx.Request.Context(), domain.Sponsor{
		EventID: eventID,
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleAddSponsor -> h.svc.AddSponsor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Created(ctx, sponsor, "sponsor berhasil ditambahkan")
}

// HandleGetSponsors godoc
// @Summary      List an event's sponsors
// @Tags         events
// @Produce      json
// @Param        eventID  path     int  true "event ID"
// @Success      200 {object} response.Envelope
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/sponsors [get]
// @Security BearerAuth
func (h *EventHandler) HandleGetSponsors(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	sponsors, err := h.svc.GetSponsors(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetSponsors -> h.svc.GetSponsors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, sponsors, "")
}

// HandleRemoveSponsor godoc
// @Summary      Remove a sponsor from an event
// @Tags         events
// @Produce      json
// @Param        eventID    path   int  true "event ID"
// @Param        sponsorID  path   int  true "sponsor ID"
// @Success      200 {object} response.Envelope
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/sponsors/{sponsorID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleRemoveSponsor(ctx *gin.Context) {
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
	sponsorID, respErr := parseIDParam(ctx, "sponsorID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.RemoveSponsor(ctx.Request.Context(), eventID, sponsorID); err != nil {
		if errors.Is(err, service.ErrSponsorNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("sponsor", "ID", sponsorID))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveSponsor -> h.svc.RemoveSponsor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.OK(ctx, nil, "sponsor berhasil dihapus")
}
