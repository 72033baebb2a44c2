// Package service holds the page-level operations of the client: each
// service wraps one backend through a Requester and keeps the local session
// and profile cache in sync with what the backend returns.
package service

import (
	"context"
	"errors"
	"fmt"
)

// Requester is the HTTP surface the services rely on. *api.Client
// implements it.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

var (
	// ErrValidation wraps every input check failed before a request is sent.
	ErrValidation = errors.New("invalid input")
	// ErrNoToken is returned when a login response carries no bearer.
	ErrNoToken = errors.New("login response carries no token")
	// ErrNotAuthenticated is returned when an operation needs a session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAdmin is returned by admin operations for a non-admin session.
	ErrNotAdmin = errors.New("administrator rights required")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
