package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleMentee UserRole = "MENTEE"
	RoleMentor UserRole = "MENTOR"
	RoleAdmin  UserRole = "ADMIN"
)

// LoginRequest authenticates a mentee or mentor by national ID number.
type LoginRequest struct {
	IDNumber string `json:"id_number" validate:"required,len=9,numeric"`
	Role     string `json:"role" validate:"required,oneof=mentee mentor"`
}

// AdminLoginRequest authenticates a staff operator.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	IDNumber string   `json:"id_number,omitempty"`
	Email    string   `json:"email,omitempty"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}
