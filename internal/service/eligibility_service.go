package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/eligibility"
	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/pkg/config"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

// EligibilityService evaluates scholarship eligibility. The active policy
// comes from configuration; day_bucket is the default schedule and
// percentage remains available for the transition period.
type EligibilityService struct {
	policy    config.EligibilityPolicy
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEligibilityService constructs an EligibilityService instance.
func NewEligibilityService(policy config.EligibilityPolicy, validate *validator.Validate, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if policy == "" {
		policy = config.PolicyDayBucket
	}
	return &EligibilityService{policy: policy, validator: validate, logger: logger}
}

// Policy returns the active grant schedule.
func (s *EligibilityService) Policy() config.EligibilityPolicy {
	return s.policy
}

// CheckDayBucket evaluates the flat day-count schedule.
func (s *EligibilityService) CheckDayBucket(req models.DayBucketEligibilityRequest) (eligibility.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return eligibility.Result{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid eligibility payload")
	}
	return eligibility.CalculateDayBucket(eligibility.DayBucketInput{
		Days:   req.Days,
		Combat: req.Combat,
	})
}

// CheckPercentage evaluates the tuition-percentage schedule.
func (s *EligibilityService) CheckPercentage(req models.PercentageEligibilityRequest) (eligibility.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return eligibility.Result{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid eligibility payload")
	}
	return eligibility.CalculatePercentage(eligibility.PercentageInput{
		Year:               eligibility.AcademicYear(req.Year),
		Days:               req.Days,
		Combat:             req.Combat,
		SupplementaryGrant: req.SupplementaryGrant,
		TuitionPaid:        req.TuitionPaid,
	})
}
