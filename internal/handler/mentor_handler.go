package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/service"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// MentorHandler exposes mentor endpoints.
type MentorHandler struct {
	mentors *service.MentorService
}

// NewMentorHandler constructs MentorHandler.
func NewMentorHandler(mentors *service.MentorService) *MentorHandler {
	return &MentorHandler{mentors: mentors}
}

// Register godoc
// @Summary Register a new mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body models.MentorRegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /mentors [post]
func (h *MentorHandler) Register(c *gin.Context) {
	var req models.MentorRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentor, err := h.mentors.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Param subject query string false "Filter by mentoring subject"
// @Param available query bool false "Filter by availability"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	var filter models.MentorFilter
	filter.Subject = c.Query("subject")
	filter.Status = models.MentorStatus(c.Query("status"))
	if available := c.Query("available"); available != "" {
		v := available == "true"
		filter.Available = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	mentors, total, err := h.mentors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, paginationFrom(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get mentor detail with availability
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.mentors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// UpdateProfile godoc
// @Summary Update mentor profile and availability
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body models.MentorProfileUpdateRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors/{id} [put]
func (h *MentorHandler) UpdateProfile(c *gin.Context) {
	var req models.MentorProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentor, err := h.mentors.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Approve godoc
// @Summary Approve mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors/{id}/approve [post]
func (h *MentorHandler) Approve(c *gin.Context) {
	mentor, err := h.mentors.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Reject godoc
// @Summary Reject mentor with a reason
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body models.RejectRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors/{id}/reject [post]
func (h *MentorHandler) Reject(c *gin.Context) {
	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentor, err := h.mentors.Reject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// SetHourlyRate godoc
// @Summary Set mentor hourly rate
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body models.HourlyRateRequest true "Rate payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors/{id}/rate [put]
func (h *MentorHandler) SetHourlyRate(c *gin.Context) {
	var req models.HourlyRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentor, err := h.mentors.SetHourlyRate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}
