package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/bazarkampus/bazar-api/internal/api/handler/v1/response"
	"github.com/bazarkampus/bazar-api/internal/service"
)

type ReportService interface {
	ExportRanking(ctx context.Context, eventID uint) (*excelize.File, error)
}

type ReportHandler struct {
	svc  ReportService
	uSvc UserService
}

func NewReportHandler(svc ReportService, uSvc UserService) *ReportHandler {
	return &ReportHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleExportRanking godoc
// @Summary      Export an event's rankings as a spreadsheet
// @Description  Streams an xlsx workbook with one sheet per assessment category. Admins and lecturers only.
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        eventID  path  int  true "event ID"
// @Success      200 {file}  file
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /events/{eventID}/ranking/export [get]
// @Security BearerAuth
func (h *ReportHandler) HandleExportRanking(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}
	if !user.IsAdmin() && !user.IsLecturer() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v cannot export rankings", user.ID)))
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	f, err := h.svc.ExportRanking(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleExportRanking -> h.svc.ExportRanking -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("ranking-event-%d.xlsx", eventID)
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(ctx.Writer); err != nil {
		zap.L().Error("failed to stream ranking export", zap.Error(err))
	}
}
