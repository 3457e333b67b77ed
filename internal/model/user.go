package model

import "time"

// Role distinguishes the two account types.
type Role int

const (
	// RoleCandidate is a ham candidate (HC) exam-taker account.
	RoleCandidate Role = 1
	// RoleExaminer is a volunteer examiner (VE) administrator account.
	RoleExaminer Role = 2
)

// User represents a candidate or volunteer examiner account.
type User struct {
	ID           int       `json:"id"`
	Callsign     string    `json:"callsign"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignupRequest is the payload for candidate self-registration.
type SignupRequest struct {
	Callsign        string `json:"callsign" binding:"required,callsign"`
	FirstName       string `json:"first_name" binding:"required,min=1,max=30"`
	LastName        string `json:"last_name" binding:"required,min=1,max=30"`
	Email           string `json:"email" binding:"required,email,max=120"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for authentication (candidates and examiners).
type LoginRequest struct {
	Callsign string `json:"callsign" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateProfileRequest is the payload for editing account details. The
// callsign is not editable: it keys the login session and is baked into
// issued tokens.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=30"`
	LastName  string `json:"last_name" binding:"required,min=1,max=30"`
	Email     string `json:"email" binding:"required,email,max=120"`
}

// ChangePasswordRequest is the payload for updating the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=NewPassword"`
}
