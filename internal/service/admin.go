package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/atinyakov/SportConnectIA/internal/client/session"
	"github.com/atinyakov/SportConnectIA/internal/models"
)

// AdminService manages accounts and notifications. Every call except
// MyNotifications requires an admin session; the auth service enforces the
// same rule on its side.
type AdminService struct {
	api     Requester
	session *session.Store
}

// NewAdminService returns an AdminService.
func NewAdminService(api Requester, sess *session.Store) *AdminService {
	return &AdminService{api: api, session: sess}
}

func (s *AdminService) check() error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	var users []models.User
	if err := s.api.Get(ctx, "/admin/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id int64, patch models.UserUpdate) (models.User, error) {
	var user models.User
	if err := s.check(); err != nil {
		return user, err
	}
	if err := s.api.Put(ctx, fmt.Sprintf("/admin/users/%d", id), patch, &user); err != nil {
		return user, fmt.Errorf("update user %d: %w", id, err)
	}
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, fmt.Sprintf("/admin/users/%d", id), nil); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *AdminService) CreateUser(ctx context.Context, in models.UserCreate) (models.User, error) {
	var user models.User
	if err := s.check(); err != nil {
		return user, err
	}
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return user, invalid("email and password are required")
	}
	if err := s.api.Post(ctx, "/admin/users", in, &user); err != nil {
		return user, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SendNotification posts a message to one user. Title and message must not
// be blank.
func (s *AdminService) SendNotification(ctx context.Context, userID int64, title, message string) (models.Notification, error) {
	var n models.Notification
	if err := s.check(); err != nil {
		return n, err
	}
	title, message = strings.TrimSpace(title), strings.TrimSpace(message)
	if title == "" || message == "" {
		return n, invalid("title and message are required")
	}
	req := models.NotificationRequest{UserID: userID, Title: title, Message: message}
	if err := s.api.Post(ctx, "/admin/notifications", req, &n); err != nil {
		return n, fmt.Errorf("send notification: %w", err)
	}
	return n, nil
}

// MyNotifications lists the notifications of the logged-in user.
func (s *AdminService) MyNotifications(ctx context.Context) ([]models.Notification, error) {
	if !s.session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	var list []models.Notification
	if err := s.api.Get(ctx, "/me/notifications", &list); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return list, nil
}
