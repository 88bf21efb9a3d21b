package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/service"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/response"
)

// EligibilityHandler exposes the scholarship eligibility check.
type EligibilityHandler struct {
	eligibility *service.EligibilityService
}

// NewEligibilityHandler constructs EligibilityHandler.
func NewEligibilityHandler(eligibility *service.EligibilityService) *EligibilityHandler {
	return &EligibilityHandler{eligibility: eligibility}
}

// Check godoc
// @Summary Check scholarship eligibility (day-count schedule)
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param payload body models.DayBucketEligibilityRequest true "Service facts"
// @Success 200 {object} response.Envelope
// @Router /eligibility/check [post]
func (h *EligibilityHandler) Check(c *gin.Context) {
	var req models.DayBucketEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.eligibility.CheckDayBucket(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CheckPercentage godoc
// @Summary Check scholarship eligibility (tuition-percentage schedule)
// @Tags Eligibility
// @Accept json
// @Produce json
// @Param payload body models.PercentageEligibilityRequest true "Service facts"
// @Success 200 {object} response.Envelope
// @Router /eligibility/check/percentage [post]
func (h *EligibilityHandler) CheckPercentage(c *gin.Context) {
	var req models.PercentageEligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.eligibility.CheckPercentage(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Policy godoc
// @Summary Active eligibility policy
// @Tags Eligibility
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /eligibility/policy [get]
func (h *EligibilityHandler) Policy(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"policy": h.eligibility.Policy()}, nil)
}
