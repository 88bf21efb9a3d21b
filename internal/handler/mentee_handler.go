package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/service"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// MenteeHandler exposes mentee endpoints.
type MenteeHandler struct {
	mentees *service.MenteeService
}

// NewMenteeHandler constructs MenteeHandler.
func NewMenteeHandler(mentees *service.MenteeService) *MenteeHandler {
	return &MenteeHandler{mentees: mentees}
}

// Register godoc
// @Summary Register a new mentee
// @Tags Mentees
// @Accept json
// @Produce json
// @Param payload body models.MenteeRegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /mentees [post]
func (h *MenteeHandler) Register(c *gin.Context) {
	var req models.MenteeRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentee)
}

// List godoc
// @Summary List mentees
// @Tags Mentees
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search by name or ID number"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees [get]
func (h *MenteeHandler) List(c *gin.Context) {
	var filter models.MenteeFilter
	filter.Status = models.MenteeStatus(c.Query("status"))
	filter.Search = strings.TrimSpace(c.Query("search"))
	if approved := c.Query("admin_approved"); approved != "" {
		v := approved == "true"
		filter.AdminApproved = &v
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	mentees, total, err := h.mentees.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentees, paginationFrom(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get mentee detail
// @Tags Mentees
// @Produce json
// @Param id path string true "Mentee ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id} [get]
func (h *MenteeHandler) Get(c *gin.Context) {
	mentee, err := h.mentees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}

// UpdateProfile godoc
// @Summary Update mentee profile
// @Tags Mentees
// @Accept json
// @Produce json
// @Param id path string true "Mentee ID"
// @Param payload body models.MenteeProfileUpdateRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id} [put]
func (h *MenteeHandler) UpdateProfile(c *gin.Context) {
	var req models.MenteeProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.UpdateProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}

// Approve godoc
// @Summary Approve mentee and assign hour credit
// @Tags Mentees
// @Accept json
// @Produce json
// @Param id path string true "Mentee ID"
// @Param payload body models.ApproveMenteeRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id}/approve [post]
func (h *MenteeHandler) Approve(c *gin.Context) {
	var req models.ApproveMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.Approve(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}

// Reject godoc
// @Summary Reject mentee with a reason
// @Tags Mentees
// @Accept json
// @Produce json
// @Param id path string true "Mentee ID"
// @Param payload body models.RejectRequest true "Rejection payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id}/reject [post]
func (h *MenteeHandler) Reject(c *gin.Context) {
	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.Reject(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}

// SetHoursBalance godoc
// @Summary Overwrite the assigned hour credit
// @Tags Mentees
// @Accept json
// @Produce json
// @Param id path string true "Mentee ID"
// @Param payload body models.ApproveMenteeRequest true "Hours payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id}/hours [put]
func (h *MenteeHandler) SetHoursBalance(c *gin.Context) {
	var req models.ApproveMenteeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.SetHoursBalance(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}

// RecordPayment godoc
// @Summary Record a scholarship payment
// @Tags Mentees
// @Accept json
// @Produce json
// @Param id path string true "Mentee ID"
// @Param payload body models.RecordPaymentRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id}/payment [post]
func (h *MenteeHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mentee, err := h.mentees.RecordPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentee, nil)
}
