package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/service"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// ExportHandler exposes admin report downloads.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Payments godoc
// @Summary Export the scholarship payment report
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Security BearerAuth
// @Router /exports/payments [get]
func (h *ExportHandler) Payments(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	file, err := h.exports.Payments(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

// Sessions godoc
// @Summary Export the session activity report
// @Tags Exports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Success 200
// @Security BearerAuth
// @Router /exports/sessions [get]
func (h *ExportHandler) Sessions(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	filter := models.SessionFilter{
		Status: models.SessionStatus(c.Query("status")),
		Date:   c.Query("date"),
	}

	file, err := h.exports.Sessions(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

func serveExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
