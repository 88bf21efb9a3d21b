package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/schedule"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type mentorRepository interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error)
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	UpdateProfile(ctx context.Context, mentor *models.Mentor) error
	ApplyPatch(ctx context.Context, id string, patch workflow.MentorPatch) error
	UpdateHourlyRate(ctx context.Context, id string, rate float64) error
	ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error)
	ListSlots(ctx context.Context, mentorID string) ([]models.MentorSlot, error)
	ReplaceSlots(ctx context.Context, mentorID string, slots []models.MentorSlot) error
}

// MentorWithSlots bundles a mentor profile with its weekly availability.
type MentorWithSlots struct {
	models.Mentor
	Slots []models.MentorSlot `json:"slots"`
}

// MentorService manages mentor registration, the public directory and the
// admin approval pipeline.
type MentorService struct {
	repo      mentorRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMentorService constructs a MentorService instance.
func NewMentorService(repo mentorRepository, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MentorService{repo: repo, validator: validate, logger: logger}
}

// Register opens a new mentor profile awaiting admin approval.
func (s *MentorService) Register(ctx context.Context, req models.MentorRegisterRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.repo.ExistsByIDNumber(ctx, req.IDNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to check id number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "id number already registered")
	}

	mentor := &models.Mentor{
		IDNumber:    req.IDNumber,
		FullName:    req.FullName,
		Institution: req.Institution,
		Subjects:    req.Subjects,
		Status:      models.MentorStatusPendingApproval,
	}
	if err := s.repo.Create(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create mentor")
	}

	s.logger.Info("mentor registered", zap.String("mentor_id", mentor.ID))
	return mentor, nil
}

// Get returns a mentor profile with its availability slots.
func (s *MentorService) Get(ctx context.Context, id string) (*MentorWithSlots, error) {
	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentor")
	}
	slots, err := s.repo.ListSlots(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch slots")
	}
	return &MentorWithSlots{Mentor: *mentor, Slots: slots}, nil
}

// List returns mentors matching the filter. The public directory passes
// available=true so suspended and pending mentors stay hidden.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	mentors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list mentors")
	}
	return mentors, total, nil
}

// UpdateProfile edits the mentor's own profile and replaces the weekly
// availability. Any change to a required document URL resets approval and
// hides the mentor from the directory.
func (s *MentorService) UpdateProfile(ctx context.Context, id string, req models.MentorProfileUpdateRequest) (*MentorWithSlots, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	slots, err := parseSlots(id, req.Slots)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentor")
	}

	reviewPatch := workflow.ReviewMentorDocuments(*current, workflow.MentorDocuments{
		StudyConfirmationURL:   req.StudyConfirmationURL,
		EmploymentProcedureURL: req.EmploymentProcedureURL,
		Form101URL:             req.Form101URL,
		CommitmentLetterURL:    req.CommitmentLetterURL,
	})

	current.FullName = req.FullName
	current.Institution = req.Institution
	current.Bio = req.Bio
	current.ExperienceYears = req.ExperienceYears
	current.Subjects = req.Subjects
	current.ProfileImageURL = req.ProfileImageURL
	current.StudyConfirmationURL = req.StudyConfirmationURL
	current.EmploymentProcedureURL = req.EmploymentProcedureURL
	current.Form101URL = req.Form101URL
	current.CommitmentLetterURL = req.CommitmentLetterURL

	if err := s.repo.UpdateProfile(ctx, current); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update mentor")
	}
	if err := s.repo.ReplaceSlots(ctx, id, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to replace slots")
	}

	if reviewPatch != nil {
		if err := s.repo.ApplyPatch(ctx, id, *reviewPatch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reset mentor approval")
		}
		s.logger.Info("mentor documents changed, approval reset", zap.String("mentor_id", id))
	}

	return s.Get(ctx, id)
}

// Approve grants admin approval and lists the mentor in the directory.
func (s *MentorService) Approve(ctx context.Context, id string) (*MentorWithSlots, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.ApplyPatch(ctx, id, workflow.ApproveMentor()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to approve mentor")
	}

	s.logger.Info("mentor approved", zap.String("mentor_id", id))
	return s.Get(ctx, id)
}

// Reject suspends the mentor and records the reason.
func (s *MentorService) Reject(ctx context.Context, id string, req models.RejectRequest) (*MentorWithSlots, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rejection payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	patch, err := workflow.RejectMentor(req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyPatch(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reject mentor")
	}

	s.logger.Info("mentor rejected", zap.String("mentor_id", id))
	return s.Get(ctx, id)
}

// SetHourlyRate assigns the admin-controlled compensation rate.
func (s *MentorService) SetHourlyRate(ctx context.Context, id string, req models.HourlyRateRequest) (*MentorWithSlots, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rate payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHourlyRate(ctx, id, req.HourlyRate); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update hourly rate")
	}
	return s.Get(ctx, id)
}

// parseSlots validates day names and time windows before persisting.
func parseSlots(mentorID string, inputs []models.SlotInput) ([]models.MentorSlot, error) {
	slots := make([]models.MentorSlot, 0, len(inputs))
	for _, in := range inputs {
		day := models.Weekday(in.Day)
		if !day.Valid() {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput, "unknown day "+in.Day)
		}
		if _, err := schedule.NewInterval(in.StartTime, in.EndTime); err != nil {
			return nil, err
		}
		slots = append(slots, models.MentorSlot{
			MentorID:  mentorID,
			Day:       day,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		})
	}
	return slots, nil
}
