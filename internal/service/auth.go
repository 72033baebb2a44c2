package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// RegisterInput is the content of the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// AuthService logs users in and out against the auth service.
type AuthService struct {
	api     Requester
	session *session.Store
	log     *zap.Logger
}

// NewAuthService returns an AuthService storing tokens in sess.
func NewAuthService(api Requester, sess *session.Store, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{api: api, session: sess, log: log}
}

// Login exchanges credentials for a bearer token and stores it. The token is
// read from access_token, falling back to token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return resp, invalid("email and password are required")
	}

	if err := s.api.Post(ctx, "/login", models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return resp, fmt.Errorf("login: %w", err)
	}
	tok := resp.Bearer()
	if tok == "" {
		return resp, ErrNoToken
	}
	if err := s.session.SetToken(tok); err != nil {
		return resp, err
	}

	s.log.Info("logged in", zap.String("email", s.session.Snapshot().Email))
	return resp, nil
}

// Register creates an account then logs it in with the same credentials.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.MessageResponse, error) {
	var resp models.MessageResponse
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Name == "" || in.Email == "" || in.Password == "" || in.Confirm == "":
		return resp, invalid("all fields are required")
	case len([]rune(in.Password)) < MinPasswordLength:
		return resp, invalid(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case in.Password != in.Confirm:
		return resp, invalid("passwords do not match")
	}

	req := models.RegisterRequest{Name: in.Name, Email: in.Email, Password: in.Password}
	if err := s.api.Post(ctx, "/register", req, &resp); err != nil {
		return resp, fmt.Errorf("register: %w", err)
	}
	s.log.Info("registered", zap.String("email", in.Email))

	if _, err := s.Login(ctx, in.Email, in.Password); err != nil {
		return resp, err
	}
	return resp, nil
}

// Logout clears the local session. The auth service is not contacted.
func (s *AuthService) Logout() error {
	return s.session.Logout()
}
