package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type mockAuthMentees struct {
	mentee *models.Mentee
}

func (m *mockAuthMentees) FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentee, error) {
	if m.mentee == nil || m.mentee.IDNumber != idNumber {
		return nil, sql.ErrNoRows
	}
	return m.mentee, nil
}

type mockAuthMentors struct {
	mentor *models.Mentor
}

func (m *mockAuthMentors) FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentor, error) {
	if m.mentor == nil || m.mentor.IDNumber != idNumber {
		return nil, sql.ErrNoRows
	}
	return m.mentor, nil
}

type mockAuthAdmins struct {
	admin *models.Admin
}

func (m *mockAuthAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if m.admin == nil || m.admin.Email != email {
		return nil, sql.ErrNoRows
	}
	return m.admin, nil
}

func newAuthFixture() *AuthService {
	hash, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	return NewAuthService(
		&mockAuthMentees{mentee: &models.Mentee{ID: "m1", IDNumber: "123456789", FullName: "Dana Levi"}},
		&mockAuthMentors{mentor: &models.Mentor{ID: "t1", IDNumber: "987654321", FullName: "Yossi Cohen"}},
		&mockAuthAdmins{admin: &models.Admin{ID: "a1", Email: "admin@example.com", PasswordHash: string(hash), FullName: "Admin"}},
		nil, nil,
		AuthConfig{Secret: "test_secret", Expiration: time.Hour, Issuer: "mentoring-api"},
	)
}

func TestLoginMentee(t *testing.T) {
	svc := newAuthFixture()

	resp, err := svc.Login(context.Background(), models.LoginRequest{IDNumber: "123456789", Role: "mentee"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleMentee, resp.User.Role)
	assert.Equal(t, "m1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "m1", claims.UserID)
	assert.Equal(t, models.RoleMentee, claims.Role)
}

func TestLoginMentor(t *testing.T) {
	svc := newAuthFixture()

	resp, err := svc.Login(context.Background(), models.LoginRequest{IDNumber: "987654321", Role: "mentor"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, resp.User.Role)
}

func TestLoginUnknownIDNumber(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.Login(context.Background(), models.LoginRequest{IDNumber: "111111111", Role: "mentee"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginInvalidIDNumber(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.Login(context.Background(), models.LoginRequest{IDNumber: "12345", Role: "mentee"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAdminLogin(t *testing.T) {
	svc := newAuthFixture()

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	_, err = svc.AdminLogin(context.Background(), models.AdminLoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture()

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
