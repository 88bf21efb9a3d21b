package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type mockMentorRepo struct {
	mentors map[string]models.Mentor
	slots   map[string][]models.MentorSlot
	nextID  int
}

func newMockMentorRepo() *mockMentorRepo {
	return &mockMentorRepo{
		mentors: make(map[string]models.Mentor),
		slots:   make(map[string][]models.MentorSlot),
	}
}

func (m *mockMentorRepo) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	var result []models.Mentor
	for _, mentor := range m.mentors {
		if filter.Available != nil && *filter.Available != mentor.Available {
			continue
		}
		if filter.Status != "" && filter.Status != mentor.Status {
			continue
		}
		result = append(result, mentor)
	}
	return result, len(result), nil
}

func (m *mockMentorRepo) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	mentor, ok := m.mentors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &mentor, nil
}

func (m *mockMentorRepo) Create(ctx context.Context, mentor *models.Mentor) error {
	m.nextID++
	mentor.ID = string(rune('a' + m.nextID - 1))
	m.mentors[mentor.ID] = *mentor
	return nil
}

func (m *mockMentorRepo) UpdateProfile(ctx context.Context, mentor *models.Mentor) error {
	stored, ok := m.mentors[mentor.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.FullName = mentor.FullName
	stored.Institution = mentor.Institution
	stored.Bio = mentor.Bio
	stored.ExperienceYears = mentor.ExperienceYears
	stored.Subjects = mentor.Subjects
	stored.ProfileImageURL = mentor.ProfileImageURL
	stored.StudyConfirmationURL = mentor.StudyConfirmationURL
	stored.EmploymentProcedureURL = mentor.EmploymentProcedureURL
	stored.Form101URL = mentor.Form101URL
	stored.CommitmentLetterURL = mentor.CommitmentLetterURL
	m.mentors[mentor.ID] = stored
	return nil
}

func (m *mockMentorRepo) ApplyPatch(ctx context.Context, id string, patch workflow.MentorPatch) error {
	mentor, ok := m.mentors[id]
	if !ok {
		return sql.ErrNoRows
	}
	if patch.Status != nil {
		mentor.Status = *patch.Status
	}
	if patch.AdminApproved != nil {
		mentor.AdminApproved = *patch.AdminApproved
	}
	if patch.AdminRejectionReason != nil {
		mentor.AdminRejectionReason = *patch.AdminRejectionReason
	}
	if patch.Available != nil {
		mentor.Available = *patch.Available
	}
	m.mentors[id] = mentor
	return nil
}

func (m *mockMentorRepo) UpdateHourlyRate(ctx context.Context, id string, rate float64) error {
	mentor, ok := m.mentors[id]
	if !ok {
		return sql.ErrNoRows
	}
	mentor.HourlyRate = rate
	m.mentors[id] = mentor
	return nil
}

func (m *mockMentorRepo) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	for _, mentor := range m.mentors {
		if mentor.IDNumber == idNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockMentorRepo) ListSlots(ctx context.Context, mentorID string) ([]models.MentorSlot, error) {
	return m.slots[mentorID], nil
}

func (m *mockMentorRepo) ReplaceSlots(ctx context.Context, mentorID string, slots []models.MentorSlot) error {
	m.slots[mentorID] = slots
	return nil
}

func registeredMentor(t *testing.T, svc *MentorService) *models.Mentor {
	t.Helper()
	mentor, err := svc.Register(context.Background(), models.MentorRegisterRequest{
		IDNumber: "987654321",
		FullName: "Yossi Cohen",
		Subjects: []string{"calculus"},
	})
	require.NoError(t, err)
	return mentor
}

func TestMentorRegister(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)

	mentor := registeredMentor(t, svc)
	assert.Equal(t, models.MentorStatusPendingApproval, mentor.Status)
	assert.False(t, mentor.Available)
}

func TestMentorApproveListsInDirectory(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)
	mentor := registeredMentor(t, svc)

	approved, err := svc.Approve(context.Background(), mentor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusApproved, approved.Status)
	assert.True(t, approved.Available)

	available := true
	listed, total, err := svc.List(context.Background(), models.MentorFilter{Available: &available})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, listed, 1)
}

func TestMentorRejectSuspends(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)
	mentor := registeredMentor(t, svc)

	rejected, err := svc.Reject(context.Background(), mentor.ID, models.RejectRequest{Reason: "incomplete paperwork"})
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusSuspended, rejected.Status)
	assert.False(t, rejected.Available)
}

func TestMentorDocumentChangeHidesFromDirectory(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)
	ctx := context.Background()
	mentor := registeredMentor(t, svc)

	_, err := svc.UpdateProfile(ctx, mentor.ID, models.MentorProfileUpdateRequest{
		FullName:             "Yossi Cohen",
		StudyConfirmationURL: "docs/a.pdf",
		Form101URL:           "docs/f101.pdf",
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, mentor.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, mentor.ID, models.MentorProfileUpdateRequest{
		FullName:             "Yossi Cohen",
		StudyConfirmationURL: "docs/a.pdf",
		Form101URL:           "docs/f101-v2.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusPendingApproval, updated.Status)
	assert.False(t, updated.Available)
}

func TestMentorSlotValidation(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)
	ctx := context.Background()
	mentor := registeredMentor(t, svc)

	_, err := svc.UpdateProfile(ctx, mentor.ID, models.MentorProfileUpdateRequest{
		FullName: "Yossi Cohen",
		Slots:    []models.SlotInput{{Day: "saturday", StartTime: "09:00", EndTime: "12:00"}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidInput.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateProfile(ctx, mentor.ID, models.MentorProfileUpdateRequest{
		FullName: "Yossi Cohen",
		Slots:    []models.SlotInput{{Day: "sunday", StartTime: "12:00", EndTime: "09:00"}},
	})
	require.Error(t, err)

	updated, err := svc.UpdateProfile(ctx, mentor.ID, models.MentorProfileUpdateRequest{
		FullName: "Yossi Cohen",
		Slots:    []models.SlotInput{{Day: "sunday", StartTime: "09:00", EndTime: "12:00"}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Slots, 1)
	assert.Equal(t, models.Sunday, updated.Slots[0].Day)
}

func TestMentorSetHourlyRate(t *testing.T) {
	svc := NewMentorService(newMockMentorRepo(), nil, nil)
	mentor := registeredMentor(t, svc)

	updated, err := svc.SetHourlyRate(context.Background(), mentor.ID, models.HourlyRateRequest{HourlyRate: 150})
	require.NoError(t, err)
	assert.Equal(t, 150.0, updated.HourlyRate)
}
