package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/repository"
	"github.com/zchut-miluim/mentoring-api/internal/schedule"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/lock"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListActiveByMentee(ctx context.Context, menteeID string) ([]models.Session, error)
	ListActiveByMentor(ctx context.Context, mentorID string) ([]models.Session, error)
	CreateBooked(ctx context.Context, session *models.Session) error
	ApplyPatch(ctx context.Context, id string, patch workflow.SessionPatch) error
	DismissNotification(ctx context.Context, id string, party models.Party) error
}

type bookingMenteeReader interface {
	FindByID(ctx context.Context, id string) (*models.Mentee, error)
}

type bookingMentorReader interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	ListSlots(ctx context.Context, mentorID string) ([]models.MentorSlot, error)
}

// BookingConfig tunes the per-mentor booking lock.
type BookingConfig struct {
	LockTTL time.Duration
}

// Actor identifies the authenticated caller of a session operation.
type Actor struct {
	ID   string
	Role models.UserRole
}

func (a Actor) party() (models.Party, bool) {
	switch a.Role {
	case models.RoleMentee:
		return models.PartyMentee, true
	case models.RoleMentor:
		return models.PartyMentor, true
	}
	return "", false
}

// BookingService books tutoring sessions and drives their lifecycle. A
// per-mentor lock serializes concurrent bookings; the repository re-checks
// every invariant inside the insert transaction, so the lock only reduces
// contention and is not load-bearing for correctness.
type BookingService struct {
	sessions  sessionRepository
	mentees   bookingMenteeReader
	mentors   bookingMentorReader
	locker    lock.Locker
	validator *validator.Validate
	logger    *zap.Logger
	config    BookingConfig
}

// NewBookingService constructs a BookingService instance.
func NewBookingService(sessions sessionRepository, mentees bookingMenteeReader, mentors bookingMentorReader, locker lock.Locker, validate *validator.Validate, logger *zap.Logger, config BookingConfig) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 5 * time.Second
	}
	return &BookingService{
		sessions:  sessions,
		mentees:   mentees,
		mentors:   mentors,
		locker:    locker,
		validator: validate,
		logger:    logger,
		config:    config,
	}
}

// Book creates a pending session for the mentee. The request fails when
// either profile is unapproved, a recurring booking falls outside the
// mentor's weekly availability, the range collides with an active session of
// either party, or the duration exceeds the mentee's remaining hours.
// Specific-date bookings are individually agreed with the mentor and skip
// the weekly-window check, so a mentor without recurring slots stays
// bookable.
func (s *BookingService) Book(ctx context.Context, menteeID string, req models.BookSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	candidate, err := schedule.NewInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	mentee, err := s.mentees.FindByID(ctx, menteeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentee")
	}
	if !mentee.AdminApproved {
		return nil, appErrors.Clone(appErrors.ErrNotApproved, "mentee profile is not approved for booking")
	}

	mentor, err := s.mentors.FindByID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentor")
	}
	if !mentor.AdminApproved || !mentor.Available {
		return nil, appErrors.Clone(appErrors.ErrNotApproved, "mentor is not available for booking")
	}

	if req.SlotType != models.SlotTypeSpecificDate {
		if err := s.checkWindow(ctx, req, candidate); err != nil {
			return nil, err
		}
	}

	if release, ok := s.acquireMentorLock(ctx, req.MentorID); ok {
		defer release()
	}

	session := &models.Session{
		MenteeID:       menteeID,
		MentorID:       req.MentorID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		DurationHours:  candidate.Duration(),
		Subject:        req.Subject,
		Status:         models.SessionStatusPending,
		BookedBy:       models.PartyMentee,
		MenteeApproved: true,
	}

	if err := s.sessions.CreateBooked(ctx, session); err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			return nil, appErrors.Clone(appErrors.ErrSessionConflict,
				fmt.Sprintf("requested time overlaps an existing %s session", conflict.Party))
		}
		var insufficient *repository.InsufficientHoursError
		if errors.As(err, &insufficient) {
			return nil, appErrors.Clone(appErrors.ErrInsufficientHours,
				fmt.Sprintf("only %.1f hours remaining", insufficient.Remaining))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to create session")
	}

	s.logger.Info("session booked",
		zap.String("session_id", session.ID),
		zap.String("mentee_id", menteeID),
		zap.String("mentor_id", req.MentorID),
		zap.String("date", req.Date))
	return session, nil
}

// Approve records the mentor-side confirmation of a pending session. Only
// the session's own mentor or an admin may approve.
func (s *BookingService) Approve(ctx context.Context, id string, actor Actor) (*models.Session, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleMentee {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the mentor can approve a session")
	}
	if err := s.authorize(session, actor); err != nil {
		return nil, err
	}
	if session.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session is already closed")
	}

	if err := s.sessions.ApplyPatch(ctx, id, workflow.ApproveSession()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to approve session")
	}
	return s.get(ctx, id)
}

// Decline marks the session refused by the counterpart. Only a party of the
// session may decline it. Declining an already declined session is a no-op
// so double submits stay harmless.
func (s *BookingService) Decline(ctx context.Context, id string, actor Actor, reason string) (*models.Session, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(session, actor); err != nil {
		return nil, err
	}
	by, ok := actor.party()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only session parties can decline")
	}
	if session.Status == models.SessionStatusDeclined {
		return session, nil
	}
	if session.Status == models.SessionStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session is already cancelled")
	}

	patch, err := workflow.DeclineSession(by, reason)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.ApplyPatch(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to decline session")
	}
	return s.get(ctx, id)
}

// Cancel marks the session withdrawn by one of its own parties.
func (s *BookingService) Cancel(ctx context.Context, id string, actor Actor) (*models.Session, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(session, actor); err != nil {
		return nil, err
	}
	by, ok := actor.party()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only session parties can cancel")
	}
	if session.Status == models.SessionStatusCancelled {
		return session, nil
	}
	if session.Status == models.SessionStatusDeclined {
		return nil, appErrors.Clone(appErrors.ErrConflict, "session is already declined")
	}

	patch, err := workflow.CancelSession(by)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.ApplyPatch(ctx, id, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to cancel session")
	}
	return s.get(ctx, id)
}

// List returns sessions matching the filter.
func (s *BookingService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	sessions, total, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list sessions")
	}
	return sessions, total, nil
}

// Get returns a single session. Callers other than admins only see
// sessions they are a party of.
func (s *BookingService) Get(ctx context.Context, id string, actor Actor) (*models.Session, error) {
	session, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(session, actor); err != nil {
		return nil, err
	}
	return session, nil
}

// DismissNotification marks the session status notice as seen by the calling
// party.
func (s *BookingService) DismissNotification(ctx context.Context, id string, actor Actor) error {
	session, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(session, actor); err != nil {
		return err
	}
	by, ok := actor.party()
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "only session parties can dismiss notices")
	}
	if err := s.sessions.DismissNotification(ctx, id, by); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to dismiss notification")
	}
	return nil
}

// RemainingHours returns the mentee's balance minus all pending and
// approved session hours. Declined and cancelled sessions give hours back.
func (s *BookingService) RemainingHours(ctx context.Context, menteeID string) (float64, error) {
	mentee, err := s.mentees.FindByID(ctx, menteeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "mentee not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentee")
	}

	active, err := s.sessions.ListActiveByMentee(ctx, menteeID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to list sessions")
	}

	used := 0.0
	for _, session := range active {
		used += session.DurationHours
	}
	return mentee.HoursBalance - used, nil
}

// authorize rejects actors that are neither an admin nor a party of the
// session.
func (s *BookingService) authorize(session *models.Session, actor Actor) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleMentee:
		if session.MenteeID == actor.ID {
			return nil
		}
	case models.RoleMentor:
		if session.MentorID == actor.ID {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrForbidden, "session belongs to another user")
}

func (s *BookingService) get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch session")
	}
	return session, nil
}

// checkWindow verifies the requested range fits one of the mentor's weekly
// availability windows on the requested weekday.
func (s *BookingService) checkWindow(ctx context.Context, req models.BookSessionRequest, candidate schedule.Interval) error {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidInput, "invalid date")
	}
	weekday := models.Weekday(strings.ToLower(date.Weekday().String()))
	if !weekday.Valid() {
		return appErrors.Clone(appErrors.ErrOutOfWindow, "mentoring is not offered on "+date.Weekday().String())
	}

	slots, err := s.mentors.ListSlots(ctx, req.MentorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch slots")
	}

	for _, slot := range slots {
		if slot.Day != weekday {
			continue
		}
		inside, err := schedule.WithinWindow(candidate, slot)
		if err != nil {
			continue
		}
		if inside {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrOutOfWindow, "requested time is outside the mentor's availability")
}

// acquireMentorLock best-effort serializes bookings for one mentor. Failing
// to reach Redis only loses the fast-fail path; the transaction still
// guards the invariants.
func (s *BookingService) acquireMentorLock(ctx context.Context, mentorID string) (func(), bool) {
	release, ok, err := s.locker.Acquire(ctx, "booking:mentor:"+mentorID, s.config.LockTTL)
	if err != nil {
		s.logger.Warn("booking lock unavailable", zap.String("mentor_id", mentorID), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return release, true
}
