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

// SessionHandler exposes session booking and lifecycle endpoints.
type SessionHandler struct {
	bookings *service.BookingService
	metrics  *service.MetricsService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(bookings *service.BookingService, metrics *service.MetricsService) *SessionHandler {
	return &SessionHandler{bookings: bookings, metrics: metrics}
}

// Book godoc
// @Summary Book a tutoring session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body models.BookSessionRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Book(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil || claims.Role != models.RoleMentee {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "only mentees can book sessions"))
		return
	}

	var req models.BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	session, err := h.bookings.Book(c.Request.Context(), claims.UserID, req)
	if err != nil {
		h.countRejection(err)
		response.Error(c, err)
		return
	}
	h.metrics.CountBooking()
	response.Created(c, session)
}

// List godoc
// @Summary List sessions
// @Tags Sessions
// @Produce json
// @Param mentee_id query string false "Filter by mentee"
// @Param mentor_id query string false "Filter by mentor"
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	var filter models.SessionFilter
	filter.MenteeID = c.Query("mentee_id")
	filter.MentorID = c.Query("mentor_id")
	filter.Status = models.SessionStatus(c.Query("status"))
	filter.Date = c.Query("date")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	// Non-admin callers only see their own sessions.
	if claims := currentClaims(c); claims != nil && claims.Role != models.RoleAdmin {
		switch claims.Role {
		case models.RoleMentee:
			filter.MenteeID = claims.UserID
		case models.RoleMentor:
			filter.MentorID = claims.UserID
		}
	}

	sessions, total, err := h.bookings.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, paginationFrom(filter.Page, filter.PageSize, total))
}

// Get godoc
// @Summary Get session detail
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	session, err := h.bookings.Get(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Approve godoc
// @Summary Approve a pending session (mentor)
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/approve [post]
func (h *SessionHandler) Approve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	session, err := h.bookings.Approve(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Decline godoc
// @Summary Decline a pending session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body models.DeclineSessionRequest true "Decline payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/decline [post]
func (h *SessionHandler) Decline(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.DeclineSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	session, err := h.bookings.Decline(c.Request.Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Cancel godoc
// @Summary Cancel a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /sessions/{id}/cancel [post]
func (h *SessionHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	session, err := h.bookings.Cancel(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// DismissNotification godoc
// @Summary Dismiss the session status notice
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Security BearerAuth
// @Router /sessions/{id}/notification [delete]
func (h *SessionHandler) DismissNotification(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.bookings.DismissNotification(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemainingHours godoc
// @Summary Remaining tutoring hours for a mentee
// @Tags Sessions
// @Produce json
// @Param id path string true "Mentee ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentees/{id}/hours [get]
func (h *SessionHandler) RemainingHours(c *gin.Context) {
	remaining, err := h.bookings.RemainingHours(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"remaining_hours": remaining}, nil)
}

func (h *SessionHandler) countRejection(err error) {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrSessionConflict.Code:
		h.metrics.CountBookingConflict()
	case appErrors.ErrInsufficientHours.Code:
		h.metrics.CountBookingRejected("insufficient_hours")
	case appErrors.ErrOutOfWindow.Code:
		h.metrics.CountBookingRejected("out_of_window")
	case appErrors.ErrNotApproved.Code:
		h.metrics.CountBookingRejected("not_approved")
	}
}
