package v1

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/request"
	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/config"
	"github.com/bazarkampus/bazar-api/internal/domain"
	"github.com/bazarkampus/bazar-api/internal/service"
)

type UmkmService interface {
	CreateUmkm(ctx context.Context, umkm domain.Umkm) (domain.Umkm, error)
	GetUmkm(ctx context.Context, id uint) (domain.Umkm, error)
	ListUmkms(ctx context.Context, ownerID uint, page, limit int) ([]domain.Umkm, int64, error)
	UploadStageFiles(ctx context.Context, umkmID uint, number int, files []domain.StageFile, userID uint) (domain.Stage, error)
	RequestValidation(ctx context.Context, umkmID uint, number int, userID uint) (domain.Stage, error)
	ValidateStage(ctx context.Context, umkmID uint, number int, approved bool, note string) (domain.Umkm, error)
}

type UmkmHandler struct {
	conf *config.UploadsConfig
	svc  UmkmService
	uSvc UserService
}

func NewUmkmHandler(conf *config.UploadsConfig, svc UmkmService, uSvc UserService) *UmkmHandler {
	return &UmkmHandler{
		conf: conf,
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateUmkm godoc
// @Summary      Register a mentored small business
// @Description  Creates the business with its four-stage development pipeline; stage 1 starts in progress.
// @Tags         umkm
// @Accept       json
// @Produce      json
// @Param        request  body  request.CreateUmkmRequest true "request body"
// @Success      201 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /umkm [post]
// @Security BearerAuth
func (h *UmkmHandler) HandleCreateUmkm(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateUmkmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	umkm, err := h.svc.CreateUmkm(ctx.Request.Context(), domain.Umkm{
		OwnerID:     user.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateUmkm -> h.svc.CreateUmkm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Created(ctx, umkm, "UMKM berhasil didaftarkan")
}

// HandleListUmkms godoc
// @Summary      List UMKM registrations
// @Description  Admins see every registration; other callers only their own.
// @Tags         umkm
// @Produce      json
// @Param        page    query    int  false "page number"
// @Param        limit   query    int  false "page size"
// @Success      200 {object} response.Envelope
// @Failure      500 {object} response.Err
// @Router       /umkm [get]
// @Security BearerAuth
func (h *UmkmHandler) HandleListUmkms(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, limit := parsePagination(ctx)

	ownerID := user.ID
	if user.IsAdmin() {
		ownerID = 0
	}

	umkms, total, err := h.svc.ListUmkms(ctx.Request.Context(), ownerID, page, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListUmkms -> h.svc.ListUmkms -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	response.Paginated(ctx, umkms, page, limit, total)
}

// HandleGetUmkm godoc
// @Summary      Get a UMKM registration by ID
// @Tags         umkm
// @Produce      json
// @Param        umkmID  path  int  true "umkm ID"
// @Success      200 {object} response.Envelope
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /umkm/{umkmID} [get]
// @Security BearerAuth
func (h *UmkmHandler) HandleGetUmkm(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	umkmID, respErr := parseIDParam(ctx, "umkmID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	umkm, err := h.svc.GetUmkm(ctx.Request.Context(), umkmID)
	if err != nil {
		if errors.Is(err, service.ErrUmkmNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("umkm", "ID", umkmID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUmkm -> h.svc.GetUmkm -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if umkm.OwnerID != user.ID && !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot view this umkm", user.ID)))
		return
	}

	response.OK(ctx, umkm, "")
}

// HandleUploadStageFiles godoc
// @Summary      Upload evidence files for the current stage
// @Description  Accepts a multipart form with one or more "files" parts. Only the owner may upload, and only against the current, not yet completed stage.
// @Tags         umkm
// @Accept       multipart/form-data
// @Produce      json
// @Param        umkmID       path  int   true "umkm ID"
// @Param        stageNumber  path  int   true "stage number (1-4)"
// @Param        files        formData  file  true "evidence files"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /umkm/{umkmID}/stages/{stageNumber}/files [post]
// @Security BearerAuth
func (h *UmkmHandler) HandleUploadStageFiles(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	umkmID, stageNumber, respErr := parseStageParams(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	uploads := form.File["files"]
	if len(uploads) == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("at least one file is required")))
		return
	}

	files := make([]domain.StageFile, 0, len(uploads))
	for _, upload := range uploads {
		storedName := uuid.NewString() + filepath.Ext(upload.Filename)
		storedPath := filepath.Join(h.conf.Dir, storedName)

		if err := ctx.SaveUploadedFile(upload, storedPath); err != nil {
			err = fmt.Errorf("v1.HandleUploadStageFiles -> ctx.SaveUploadedFile -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		files = append(files, domain.StageFile{
			FileName:   upload.Filename,
			StoredPath: storedPath,
			UploadedAt: time.Now(),
		})
	}

	stage, err := h.svc.UploadStageFiles(ctx.Request.Context(), umkmID, stageNumber, files, user.ID)
	if err != nil {
		h.renderStageErr(ctx, err, umkmID, "v1.HandleUploadStageFiles")
		return
	}

	response.OK(ctx, stage, "berkas berhasil diunggah")
}

// HandleRequestValidation godoc
// @Summary      Submit the current stage for validation
// @Description  Moves the stage to AWAITING_VALIDATION and notifies admins. The stage must have at least one uploaded file.
// @Tags         umkm
// @Produce      json
// @Param        umkmID       path  int  true "umkm ID"
// @Param        stageNumber  path  int  true "stage number (1-4)"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /umkm/{umkmID}/stages/{stageNumber}/request-validation [post]
// @Security BearerAuth
func (h *UmkmHandler) HandleRequestValidation(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	umkmID, stageNumber, respErr := parseStageParams(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stage, err := h.svc.RequestValidation(ctx.Request.Context(), umkmID, stageNumber, user.ID)
	if err != nil {
		h.renderStageErr(ctx, err, umkmID, "v1.HandleRequestValidation")
		return
	}

	response.OK(ctx, stage, "pengajuan validasi terkirim")
}

// HandleValidateStage godoc
// @Summary      Decide a stage awaiting validation
// @Description  Approves (stage completes, pipeline advances) or rejects (stage returns to in progress) a submitted stage. Admin only.
// @Tags         umkm
// @Accept       json
// @Produce      json
// @Param        umkmID       path  int  true "umkm ID"
// @Param        stageNumber  path  int  true "stage number (1-4)"
// @Param        request      body  request.ValidateStageRequest true "request body"
// @Success      200 {object} response.Envelope
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /umkm/{umkmID}/stages/{stageNumber}/validate [post]
// @Security BearerAuth
func (h *UmkmHandler) HandleValidateStage(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	umkmID, stageNumber, respErr := parseStageParams(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ValidateStageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	umkm, err := h.svc.ValidateStage(ctx.Request.Context(), umkmID, stageNumber, req.Approved, req.Note)
	if err != nil {
		h.renderStageErr(ctx, err, umkmID, "v1.HandleValidateStage")
		return
	}

	response.OK(ctx, umkm, "keputusan validasi tersimpan")
}

func parseStageParams(ctx *gin.Context) (umkmID uint, stageNumber int, respErr *response.Err) {
	umkmID, respErr = parseIDParam(ctx, "umkmID")
	if respErr != nil {
		return 0, 0, respErr
	}

	number, respErr := parseIDParam(ctx, "stageNumber")
	if respErr != nil {
		return 0, 0, respErr
	}

	return umkmID, int(number), nil
}

func (h *UmkmHandler) renderStageErr(ctx *gin.Context, err error, umkmID uint, op string) {
	switch {
	case errors.Is(err, service.ErrUmkmNotFound):
		response.RenderErr(ctx, response.ErrNotFound("umkm", "ID", umkmID))
	case errors.Is(err, service.ErrStageNotFound):
		response.RenderErr(ctx, response.ErrNotFound("stage", "umkmID", umkmID))
	case errors.Is(err, service.ErrNotOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotOwner))
	case errors.Is(err, service.ErrStageNotActive),
		errors.Is(err, service.ErrStageComplete),
		errors.Is(err, service.ErrStageNoFiles),
		errors.Is(err, service.ErrStageNotInProgress),
		errors.Is(err, service.ErrStageNotAwaiting):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
