package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type authMenteeRepository interface {
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentee, error)
}

type authMentorRepository interface {
	FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentor, error)
}

type authAdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService authenticates mentees and mentors by national ID number and
// admins by email and password, and issues signed access tokens.
type AuthService struct {
	mentees   authMenteeRepository
	mentors   authMentorRepository
	admins    authAdminRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(mentees authMenteeRepository, mentors authMentorRepository, admins authAdminRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{mentees: mentees, mentors: mentors, admins: admins, validator: validate, logger: logger, config: config}
}

// Login resolves an ID number to a mentee or mentor profile and issues a token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	var info models.UserInfo
	switch req.Role {
	case "mentee":
		mentee, err := s.mentees.FindByIDNumber(ctx, req.IDNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "unknown id number")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentee")
		}
		info = models.UserInfo{ID: mentee.ID, IDNumber: mentee.IDNumber, FullName: mentee.FullName, Role: models.RoleMentee}
	case "mentor":
		mentor, err := s.mentors.FindByIDNumber(ctx, req.IDNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "unknown id number")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch mentor")
		}
		info = models.UserInfo{ID: mentor.ID, IDNumber: mentor.IDNumber, FullName: mentor.FullName, Role: models.RoleMentor}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	return s.issueToken(info)
}

// AdminLogin verifies the admin password and issues a token.
func (s *AuthService) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	admin, err := s.admins.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to fetch admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	info := models.UserInfo{ID: admin.ID, Email: admin.Email, FullName: admin.FullName, Role: models.RoleAdmin}
	return s.issueToken(info)
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) issueToken(info models.UserInfo) (*models.LoginResponse, error) {
	now := time.Now().UTC()
	claims := models.JWTClaims{
		UserID:   info.ID,
		Role:     info.Role,
		FullName: info.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   info.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		User:        info,
		IssuedAt:    now,
	}, nil
}
