// Package services contains application services for the JobTracker client.
// This file defines the authentication service: login, logout, the local
// "is authenticated" check, and the liveness probe.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jobtracker/jobtracker/internal/client/client"
)

// SessionStore is the part of session.Session the services depend on.
type SessionStore interface {
	Establish(ctx context.Context, token, username string) error
	Clear(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Username(ctx context.Context) (string, error)
	ExpiresAt(ctx context.Context) (time.Time, bool)
}

// AuthStatus is a snapshot of the local session for display.
type AuthStatus struct {
	Authenticated bool
	Username      string
	ExpiresAt     time.Time
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and persist it. A rejected
//     login leaves the stored session untouched.
//   - Logout: remove the stored token.
//   - IsAuthenticated / Status: local checks, no network.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
	Status(ctx context.Context) AuthStatus
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session SessionStore
}

// NewAuthService constructs an AuthService bound to the given API client and
// session.
func NewAuthService(c client.Client, s SessionStore) AuthService {
	return &authService{client: c, session: s}
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("login error: %w", client.ErrInvalidCredentials)
	}

	token, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.session.Establish(ctx, token, username); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	return a.session.IsAuthenticated(ctx)
}

func (a *authService) Status(ctx context.Context) AuthStatus {
	st := AuthStatus{Authenticated: a.session.IsAuthenticated(ctx)}
	if name, err := a.session.Username(ctx); err == nil {
		st.Username = name
	}
	if exp, ok := a.session.ExpiresAt(ctx); ok {
		st.ExpiresAt = exp
	}
	return st
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
