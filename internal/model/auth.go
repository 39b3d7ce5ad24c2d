package model

import "github.com/golang-jwt/jwt/v5"

// ParticipantClaims are JWT claims for room-scoped participant tokens
type ParticipantClaims struct {
	RoomCode      string `json:"roomCode"`
	ParticipantID string `json:"participantId"`
	Name          string `json:"name"`
	Color         string `json:"color"`
	jwt.RegisteredClaims
}

// AccountType is the role picked on the sign-up form
type AccountType string

const (
	AccountUser        AccountType = "user"
	AccountInterviewer AccountType = "interviewer"
)

// LoginRequest is the login form submission
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the sign-up form submission
type SignupRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	UserType AccountType `json:"userType"`
}

// SubmissionResponse acknowledges a form submission
type SubmissionResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}
