package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/creche-api/internal/middleware"
	"github.com/noah-isme/creche-api/internal/models"
	"github.com/noah-isme/creche-api/pkg/response"
)

type reportService interface {
	Stats(ctx context.Context) (*models.StudentStats, bool, error)
	Recent(ctx context.Context) ([]models.Student, error)
	Export(ctx context.Context, selection string, reportFormat models.ReportFormat) (*models.ExportFile, error)
}

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Stats godoc
// @Summary Student statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, hit, err := h.reports.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, stats, middleware.ExtractMeta(c))
}

// Recent godoc
// @Summary Students enrolled in the last 30 days
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/recent [get]
func (h *ReportHandler) Recent(c *gin.Context) {
	students, err := h.reports.Recent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Export godoc
// @Summary Download a report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param selection query string false "all, active, inactive, recent or age:<bracket>"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	file, err := h.reports.Export(c.Request.Context(), c.Query("selection"), formatFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
