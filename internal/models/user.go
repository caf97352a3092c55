package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a forum member. Rating is denormalized: it is the weighted
// net sum of reactions on the user's posts and comments, and is maintained in
// the same transaction as every reaction mutation.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Login          string    `json:"login" gorm:"size:50;uniqueIndex"`
	Email          string    `json:"email" gorm:"size:100;uniqueIndex"`
	Password       string    `json:"-"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role" gorm:"size:10;default:'user'"`
	ProfilePicture string    `json:"profile_picture"`
	Rating         int       `json:"rating" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterRequest defines the request body for user registration
type RegisterRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// LoginRequest defines the request body for login; Login accepts either the
// login or the email address.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RequestPasswordResetRequest defines the request body for starting a reset
type RequestPasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest defines the request body for finishing a reset
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdateUserRequest defines the request body for profile updates. Role changes
// are applied only when the caller is an admin.
type UpdateUserRequest struct {
	FullName       string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Role           string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// CreateUserRequest defines the admin request body for creating a user
type CreateUserRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims belong to an admin.
func (c *JwtCustomClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
