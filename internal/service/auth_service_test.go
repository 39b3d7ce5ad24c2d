package service

import (
	"errors"
	"testing"
	"time"

	"interviewio/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthService_SubmitLogin(t *testing.T) {
	svc := NewAuthService("secret")

	resp, err := svc.SubmitLogin(&model.LoginRequest{Username: "ada", Password: "pw"})
	if err != nil {
		t.Fatalf("SubmitLogin: %v", err)
	}
	if resp.Status != "received" || resp.Username != "ada" {
		t.Errorf("resp = %+v", resp)
	}

	for _, req := range []*model.LoginRequest{
		{Username: "", Password: "pw"},
		{Username: "ada", Password: ""},
		{Username: "  ", Password: "pw"},
	} {
		if _, err := svc.SubmitLogin(req); !errors.Is(err, ErrMissingField) {
			t.Errorf("SubmitLogin(%+v) err = %v, want ErrMissingField", req, err)
		}
	}
}

func TestAuthService_SubmitSignup(t *testing.T) {
	svc := NewAuthService("secret")

	req := &model.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "pw"}
	if _, err := svc.SubmitSignup(req); err != nil {
		t.Fatalf("SubmitSignup: %v", err)
	}
	if req.UserType != model.AccountUser {
		t.Errorf("default account type = %q, want user", req.UserType)
	}

	req = &model.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "pw", UserType: model.AccountInterviewer}
	if _, err := svc.SubmitSignup(req); err != nil {
		t.Errorf("interviewer signup: %v", err)
	}

	req = &model.SignupRequest{Username: "ada", Email: "ada@example.com", Password: "pw", UserType: "admin"}
	if _, err := svc.SubmitSignup(req); !errors.Is(err, ErrInvalidAccountType) {
		t.Errorf("err = %v, want ErrInvalidAccountType", err)
	}

	req = &model.SignupRequest{Username: "ada", Password: "pw"}
	if _, err := svc.SubmitSignup(req); !errors.Is(err, ErrMissingField) {
		t.Errorf("err = %v, want ErrMissingField", err)
	}
}

func TestAuthService_ParticipantToken(t *testing.T) {
	svc := NewAuthService("secret")
	p := model.Participant{ID: "p-1", Name: "Ada", Color: "#E57373"}

	token, err := svc.GenerateParticipantToken("ABC234", p)
	if err != nil {
		t.Fatalf("GenerateParticipantToken: %v", err)
	}

	claims, err := svc.ValidateParticipantToken(token)
	if err != nil {
		t.Fatalf("ValidateParticipantToken: %v", err)
	}
	if claims.RoomCode != "ABC234" || ParticipantFromClaims(claims) != p {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := NewAuthService("other").ValidateParticipantToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret err = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateParticipantToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthService_ExpiredToken(t *testing.T) {
	svc := NewAuthService("secret")
	claims := &model.ParticipantClaims{
		RoomCode:      "ABC234",
		ParticipantID: "p-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))

	if _, err := svc.ValidateParticipantToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
