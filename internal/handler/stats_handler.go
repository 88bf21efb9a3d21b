package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/service"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// StatsHandler exposes the admin dashboard summary.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Dashboard godoc
// @Summary Admin dashboard status breakdown
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
