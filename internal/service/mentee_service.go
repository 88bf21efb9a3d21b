package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type menteeRepository interface {
	List(ctx context.Context, filter models.MenteeFilter) ([]models.Mentee, int, error)
	FindByID(ctx context.Context, id string) (*models.Mentee, error)
	Create(ctx context.Context, mentee *models.Mentee) error
	UpdateProfile(ctx context.Context, mentee *models.Mentee) error
	ApplyPatch(ctx context.Context, id string, patch workflow.MenteePatch) error
	RecordPayment(ctx context.Context, id, status string, amount float64, paidAt time.Time) error
	UpdateHoursBalance(ctx context.Context, id string, hours float64) error
	ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error)
}

// MenteeService manages mentee registration, profile edits and the admin
// approval pipeline.
type MenteeService struct {
	repo      menteeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMenteeService constructs a MenteeService instance.
func NewMenteeService(repo menteeRepository, validate *validator.Validate, logger *zap.Logger) *MenteeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MenteeService{repo: repo, validator: validate, logger: logger}
}

// Register opens a new mentee profile in the pending_documents state.
func (s *MenteeService) Register(ctx context.Context, req models.MenteeRegisterRequest) (*models.Mentee, error) {
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

	mentee := &models.Mentee{
		IDNumber:    req.IDNumber,
		FullName:    req.FullName,
		Institution: req.Institution,
		Status:      models.MenteeStatusPendingDocuments,
	}
	if err := s.repo.Create(ctx, mentee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create mentee")
	}

	s.logger.Info("mentee registered", zap.String("mentee_id", mentee.ID))
	return mentee, nil
}

// Get returns a single mentee profile.
func (s *MenteeService) Get(ctx context.Context, id string) (*models.Mentee, error) {
	mentee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentee")
	}
	return mentee, nil
}

// List returns mentees matching the filter.
func (s *MenteeService) List(ctx context.Context, filter models.MenteeFilter) ([]models.Mentee, int, error) {
	mentees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list mentees")
	}
	return mentees, total, nil
}

// UpdateProfile edits the mentee's own profile. Any change to a required
// document URL resets the approval and sends the profile back to review.
func (s *MenteeService) UpdateProfile(ctx context.Context, id string, req models.MenteeProfileUpdateRequest) (*models.Mentee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	reviewPatch := workflow.ReviewMenteeDocuments(*current, workflow.MenteeDocuments{
		StudyConfirmationURL:   req.StudyConfirmationURL,
		AidFundConfirmationURL: req.AidFundConfirmationURL,
		PaymentReceiptURL:      req.PaymentReceiptURL,
	})

	current.FullName = req.FullName
	current.Institution = req.Institution
	current.StudyConfirmationURL = req.StudyConfirmationURL
	current.AidFundConfirmationURL = req.AidFundConfirmationURL
	current.PaymentReceiptURL = req.PaymentReceiptURL
	current.ArmyApprovalDocURL = req.ArmyApprovalDocURL
	current.InvoiceURL = req.InvoiceURL

	if err := s.repo.UpdateProfile(ctx, current); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update mentee")
	}

	if reviewPatch != nil {
		if err := s.repo.ApplyPatch(ctx, id, *reviewPatch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reset mentee approval")
		}
		s.logger.Info("mentee documents changed, approval reset", zap.String("mentee_id", id))
	}

	return s.Get(ctx, id)
}

// Approve grants admin approval and assigns the tutoring hour credit.
func (s *MenteeService) Approve(ctx context.Context, id string, req models.ApproveMenteeRequest) (*models.Mentee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	patch, err := workflow.ApproveMentee(req.HoursBalance)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyPatch(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to approve mentee")
	}

	s.logger.Info("mentee approved", zap.String("mentee_id", id), zap.Float64("hours", req.HoursBalance))
	return s.Get(ctx, id)
}

// Reject withdraws approval and records the reason.
func (s *MenteeService) Reject(ctx context.Context, id string, req models.RejectRequest) (*models.Mentee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rejection payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	patch, err := workflow.RejectMentee(req.Reason)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ApplyPatch(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to reject mentee")
	}

	s.logger.Info("mentee rejected", zap.String("mentee_id", id))
	return s.Get(ctx, id)
}

// SetHoursBalance overwrites the admin-assigned hour credit.
func (s *MenteeService) SetHoursBalance(ctx context.Context, id string, req models.ApproveMenteeRequest) (*models.Mentee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hours payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateHoursBalance(ctx, id, req.HoursBalance); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to update hours balance")
	}

	s.logger.Info("hours balance updated", zap.String("mentee_id", id), zap.Float64("hours", req.HoursBalance))
	return s.Get(ctx, id)
}

// RecordPayment stamps a scholarship payment on the mentee record.
func (s *MenteeService) RecordPayment(ctx context.Context, id string, req models.RecordPaymentRequest) (*models.Mentee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.RecordPayment(ctx, id, req.Status, req.Amount, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to record payment")
	}

	s.logger.Info("payment recorded", zap.String("mentee_id", id), zap.Float64("amount", req.Amount))
	return s.Get(ctx, id)
}
