package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"interviewio/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// participantTokenTTL bounds how long a room join stays usable
const participantTokenTTL = 24 * time.Hour

// AuthService handles the login/sign-up form submissions and room-scoped
// participant tokens. The form handlers are a placeholder: they check the
// required fields and log the submission, nothing is verified or stored.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
	}
}

// SubmitLogin accepts a login form submission
func (s *AuthService) SubmitLogin(req *model.LoginRequest) (*model.SubmissionResponse, error) {
	if err := requireFields(map[string]string{
		"username": req.Username,
		"password": req.Password,
	}); err != nil {
		return nil, err
	}

	log.Printf("Login attempt: username=%s", req.Username)

	return &model.SubmissionResponse{
		Status:   "received",
		Username: req.Username,
	}, nil
}

// SubmitSignup accepts a sign-up form submission
func (s *AuthService) SubmitSignup(req *model.SignupRequest) (*model.SubmissionResponse, error) {
	if err := requireFields(map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"password": req.Password,
	}); err != nil {
		return nil, err
	}

	if req.UserType == "" {
		req.UserType = model.AccountUser
	}
	if req.UserType != model.AccountUser && req.UserType != model.AccountInterviewer {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccountType, req.UserType)
	}

	log.Printf("Signup attempt: username=%s email=%s userType=%s", req.Username, req.Email, req.UserType)

	return &model.SubmissionResponse{
		Status:   "received",
		Username: req.Username,
	}, nil
}

// requireFields mirrors the form's required markers, checked in a stable order
func requireFields(fields map[string]string) error {
	for _, name := range []string{"username", "email", "password"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
	}
	return nil
}

// GenerateParticipantToken creates a room-scoped token for a participant
func (s *AuthService) GenerateParticipantToken(roomCode string, p model.Participant) (string, error) {
	now := time.Now()
	claims := &model.ParticipantClaims{
		RoomCode:      roomCode,
		ParticipantID: p.ID,
		Name:          p.Name,
		Color:         p.Color,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(participantTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateParticipantToken validates a participant JWT and returns claims
func (s *AuthService) ValidateParticipantToken(tokenString string) (*model.ParticipantClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ParticipantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ParticipantClaims)
	if !ok || !token.Valid || claims.ParticipantID == "" || claims.RoomCode == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ParticipantFromClaims rebuilds the participant identity carried by the claims
func ParticipantFromClaims(c *model.ParticipantClaims) model.Participant {
	return model.Participant{ID: c.ParticipantID, Name: c.Name, Color: c.Color}
}
