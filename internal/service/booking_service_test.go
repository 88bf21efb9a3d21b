package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/repository"
	"github.com/zchut-miluim/mentoring-api/internal/schedule"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

const (
	testMenteeID = "0b6a3c62-4e57-4f6a-9d28-1f2e3a4b5c6d"
	testMentorID = "7c8d9e0f-1a2b-4c3d-8e4f-5a6b7c8d9e0f"
)

var (
	menteeActor = Actor{ID: testMenteeID, Role: models.RoleMentee}
	mentorActor = Actor{ID: testMentorID, Role: models.RoleMentor}
	adminActor  = Actor{ID: "admin-1", Role: models.RoleAdmin}
)

type mockSessionRepo struct {
	sessions map[string]models.Session
	balances map[string]float64
	nextID   int
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{
		sessions: make(map[string]models.Session),
		balances: map[string]float64{testMenteeID: 5},
	}
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	var result []models.Session
	for _, s := range m.sessions {
		if filter.MenteeID != "" && filter.MenteeID != s.MenteeID {
			continue
		}
		if filter.MentorID != "" && filter.MentorID != s.MentorID {
			continue
		}
		if filter.Status != "" && filter.Status != s.Status {
			continue
		}
		result = append(result, s)
	}
	return result, len(result), nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m *mockSessionRepo) ListActiveByMentee(ctx context.Context, menteeID string) ([]models.Session, error) {
	var result []models.Session
	for _, s := range m.sessions {
		if s.MenteeID == menteeID && !s.Status.Terminal() {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSessionRepo) ListActiveByMentor(ctx context.Context, mentorID string) ([]models.Session, error) {
	var result []models.Session
	for _, s := range m.sessions {
		if s.MentorID == mentorID && !s.Status.Terminal() {
			result = append(result, s)
		}
	}
	return result, nil
}

// CreateBooked mirrors the transactional re-validation of the real
// repository against the in-memory state.
func (m *mockSessionRepo) CreateBooked(ctx context.Context, session *models.Session) error {
	candidate, err := schedule.NewInterval(session.StartTime, session.EndTime)
	if err != nil {
		return err
	}

	mentorActive, _ := m.ListActiveByMentor(ctx, session.MentorID)
	if schedule.FindConflict(session.Date, candidate, mentorActive) != nil {
		return &repository.ConflictError{Party: models.PartyMentor}
	}
	menteeActive, _ := m.ListActiveByMentee(ctx, session.MenteeID)
	if schedule.FindConflict(session.Date, candidate, menteeActive) != nil {
		return &repository.ConflictError{Party: models.PartyMentee}
	}

	used := 0.0
	for _, s := range menteeActive {
		used += s.DurationHours
	}
	remaining := m.balances[session.MenteeID] - used
	if session.DurationHours > remaining {
		return &repository.InsufficientHoursError{Remaining: remaining}
	}

	m.nextID++
	session.ID = string(rune('a' + m.nextID - 1))
	m.sessions[session.ID] = *session
	return nil
}

func (m *mockSessionRepo) ApplyPatch(ctx context.Context, id string, patch workflow.SessionPatch) error {
	s, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.MentorApproved != nil {
		s.MentorApproved = *patch.MentorApproved
	}
	if patch.DeclinedBy != nil {
		s.DeclinedBy = patch.DeclinedBy
	}
	if patch.CancelledBy != nil {
		s.CancelledBy = patch.CancelledBy
	}
	if patch.RejectionReason != nil {
		s.RejectionReason = *patch.RejectionReason
	}
	m.sessions[id] = s
	return nil
}

func (m *mockSessionRepo) DismissNotification(ctx context.Context, id string, party models.Party) error {
	s, ok := m.sessions[id]
	if !ok {
		return sql.ErrNoRows
	}
	if party == models.PartyMentor {
		s.NotificationDismissedByMentor = true
	} else {
		s.NotificationDismissedByMentee = true
	}
	m.sessions[id] = s
	return nil
}

type mockMenteeReader struct {
	mentees map[string]models.Mentee
}

func (m *mockMenteeReader) FindByID(ctx context.Context, id string) (*models.Mentee, error) {
	mentee, ok := m.mentees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &mentee, nil
}

type mockMentorReader struct {
	mentors map[string]models.Mentor
	slots   map[string][]models.MentorSlot
}

func (m *mockMentorReader) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, ok := m.mentors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &mentor, nil
}

func (m *mockMentorReader) ListSlots(ctx context.Context, mentorID string) ([]models.MentorSlot, error) {
	return m.slots[mentorID], nil
}

func newBookingFixture() (*BookingService, *mockSessionRepo) {
	sessions := newMockSessionRepo()
	mentees := &mockMenteeReader{mentees: map[string]models.Mentee{
		testMenteeID: {
			ID:            testMenteeID,
			Status:        models.MenteeStatusAdminApproved,
			AdminApproved: true,
			HoursBalance:  5,
		},
	}}
	mentors := &mockMentorReader{
		mentors: map[string]models.Mentor{
			testMentorID: {
				ID:            testMentorID,
				Status:        models.MentorStatusApproved,
				AdminApproved: true,
				Available:     true,
			},
		},
		slots: map[string][]models.MentorSlot{
			// 2026-09-15 is a Tuesday.
			testMentorID: {{MentorID: testMentorID, Day: models.Tuesday, StartTime: "09:00", EndTime: "17:00"}},
		},
	}
	svc := NewBookingService(sessions, mentees, mentors, nil, nil, nil, BookingConfig{})
	return svc, sessions
}

func bookRequest(start, end string) models.BookSessionRequest {
	return models.BookSessionRequest{
		MentorID:  testMentorID,
		Date:      "2026-09-15",
		StartTime: start,
		EndTime:   end,
		Subject:   "calculus",
	}
}

func TestBook(t *testing.T) {
	svc, _ := newBookingFixture()

	session, err := svc.Book(context.Background(), testMenteeID, bookRequest("09:00", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, models.PartyMentee, session.BookedBy)
	assert.True(t, session.MenteeApproved)
	assert.False(t, session.MentorApproved)
	assert.InDelta(t, 1.5, session.DurationHours, 1e-9)
}

func TestBookInvertedRange(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Book(context.Background(), testMenteeID, bookRequest("10:00", "09:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestBookMenteeNotApproved(t *testing.T) {
	svc, _ := newBookingFixture()
	mentees := svc.mentees.(*mockMenteeReader)
	mentee := mentees.mentees[testMenteeID]
	mentee.AdminApproved = false
	mentees.mentees[testMenteeID] = mentee

	_, err := svc.Book(context.Background(), testMenteeID, bookRequest("09:00", "10:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotApproved.Code, appErrors.FromError(err).Code)
}

func TestBookMentorUnavailable(t *testing.T) {
	svc, _ := newBookingFixture()
	mentors := svc.mentors.(*mockMentorReader)
	mentor := mentors.mentors[testMentorID]
	mentor.Available = false
	mentors.mentors[testMentorID] = mentor

	_, err := svc.Book(context.Background(), testMenteeID, bookRequest("09:00", "10:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotApproved.Code, appErrors.FromError(err).Code)
}

func TestBookOutsideAvailability(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Book(context.Background(), testMenteeID, bookRequest("17:00", "18:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutOfWindow.Code, appErrors.FromError(err).Code)
}

func TestBookDoubleBooking(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	_, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	// Overlapping the middle of the held slot fails.
	_, err = svc.Book(ctx, testMenteeID, bookRequest("09:30", "10:30"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionConflict.Code, appErrors.FromError(err).Code)

	// Touching the end boundary is free, the range is half-open.
	_, err = svc.Book(ctx, testMenteeID, bookRequest("10:00", "11:00"))
	require.NoError(t, err)
}

func TestBookInsufficientHours(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	// 3h of a 5h balance already held.
	_, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "12:00"))
	require.NoError(t, err)

	_, err = svc.Book(ctx, testMenteeID, bookRequest("13:00", "16:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientHours.Code, appErrors.FromError(err).Code)

	_, err = svc.Book(ctx, testMenteeID, bookRequest("13:00", "15:00"))
	require.NoError(t, err)
}

func TestDeclinedSessionReleasesHours(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "12:00"))
	require.NoError(t, err)
	_, err = svc.Book(ctx, testMenteeID, bookRequest("13:00", "16:00"))
	require.Error(t, err)

	_, err = svc.Decline(ctx, session.ID, mentorActor, "not my subject")
	require.NoError(t, err)

	// Hours and the slot both free up once the session is declined.
	_, err = svc.Book(ctx, testMenteeID, bookRequest("09:00", "12:00"))
	require.NoError(t, err)

	remaining, err := svc.RemainingHours(ctx, testMenteeID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, remaining, 1e-9)
}

func TestApproveSession(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, session.ID, mentorActor)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusApproved, approved.Status)
	assert.True(t, approved.MentorApproved)
}

func TestDeclineIdempotent(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	first, err := svc.Decline(ctx, session.ID, mentorActor, "schedule clash")
	require.NoError(t, err)
	second, err := svc.Decline(ctx, session.ID, mentorActor, "schedule clash")
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.DeclinedBy, second.DeclinedBy)
}

func TestCancelDeclinedSessionFails(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.Decline(ctx, session.ID, mentorActor, "schedule clash")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, session.ID, menteeActor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestApproveClosedSessionFails(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, session.ID, menteeActor)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, session.ID, mentorActor)
	require.Error(t, err)
}

func TestGetUnknownSession(t *testing.T) {
	svc, _ := newBookingFixture()

	_, err := svc.Get(context.Background(), "missing", adminActor)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestDismissNotification(t *testing.T) {
	svc, sessions := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	require.NoError(t, svc.DismissNotification(ctx, session.ID, mentorActor))
	stored := sessions.sessions[session.ID]
	assert.True(t, stored.NotificationDismissedByMentor)
	assert.False(t, stored.NotificationDismissedByMentee)
}

func TestBookUnpaddedClockRejected(t *testing.T) {
	svc, _ := newBookingFixture()

	// "9:30" would sort after "10:00" in the stored-string comparison, so
	// unpadded clocks are rejected outright.
	_, err := svc.Book(context.Background(), testMenteeID, bookRequest("9:30", "10:30"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)

	_, err = svc.Book(context.Background(), testMenteeID, bookRequest("09:30", "10:3"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)
}

func TestBookSpecificDateSkipsWindow(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()
	mentors := svc.mentors.(*mockMentorReader)
	mentors.slots = map[string][]models.MentorSlot{}

	// Without weekly slots the recurring mode finds no window.
	_, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrOutOfWindow.Code, appErrors.FromError(err).Code)

	// A specific-date booking is individually agreed and goes through.
	req := bookRequest("09:00", "10:00")
	req.SlotType = models.SlotTypeSpecificDate
	session, err := svc.Book(ctx, testMenteeID, req)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusPending, session.Status)
}

func TestDeclineForeignSessionForbidden(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	otherMentor := Actor{ID: "3f2e1d0c-9b8a-4766-8544-332211009988", Role: models.RoleMentor}
	_, err = svc.Decline(ctx, session.ID, otherMentor, "not mine to decline")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	stored, err := svc.Get(ctx, session.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusPending, stored.Status)
}

func TestCancelForeignSessionForbidden(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	otherMentee := Actor{ID: "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d", Role: models.RoleMentee}
	_, err = svc.Cancel(ctx, session.ID, otherMentee)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.DismissNotification(ctx, session.ID, otherMentee)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGetForeignSessionForbidden(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	otherMentor := Actor{ID: "3f2e1d0c-9b8a-4766-8544-332211009988", Role: models.RoleMentor}
	_, err = svc.Get(ctx, session.ID, otherMentor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	// Both parties and the admin still see it.
	_, err = svc.Get(ctx, session.ID, menteeActor)
	require.NoError(t, err)
	_, err = svc.Get(ctx, session.ID, mentorActor)
	require.NoError(t, err)
	_, err = svc.Get(ctx, session.ID, adminActor)
	require.NoError(t, err)
}

func TestApproveOwnershipEnforced(t *testing.T) {
	svc, _ := newBookingFixture()
	ctx := context.Background()

	session, err := svc.Book(ctx, testMenteeID, bookRequest("09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, session.ID, menteeActor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	otherMentor := Actor{ID: "3f2e1d0c-9b8a-4766-8544-332211009988", Role: models.RoleMentor}
	_, err = svc.Approve(ctx, session.ID, otherMentor)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	approved, err := svc.Approve(ctx, session.ID, adminActor)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusApproved, approved.Status)
}
