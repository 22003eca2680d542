// Package session is the client's single source of truth for "is the user
// logged in". It keeps the bearer token in the local metadata table and
// derives authentication state from the expiry embedded in the token.
//
// A session also owns an epoch context. Expire cancels the current epoch
// and starts a new one; the API client binds every request to the epoch,
// so a 401 on one call aborts everything still in flight.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobtracker/jobtracker/internal/client/repositories/metadata"
	"github.com/jobtracker/jobtracker/internal/common"
	"github.com/jobtracker/jobtracker/internal/dbx"
)

// ErrExpired is the cancellation cause of an epoch ended by Expire.
var ErrExpired = errors.New("session expired")

type Option func(*Session)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type Session struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.RWMutex
	epoch  context.Context
	cancel context.CancelCauseFunc
}

// New returns a Session persisted in db, which must already carry the
// metadata table (see storage.Open).
func New(db *sql.DB, opts ...Option) *Session {
	s := &Session{db: db, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.epoch, s.cancel = context.WithCancelCause(context.Background())
	return s
}

func (s *Session) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Session) Token(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, common.AccessTokenKey)
}

// Username returns the name recorded by the last Establish.
func (s *Session) Username(ctx context.Context) (string, error) {
	return s.repo().Get(ctx, common.UsernameKey)
}

// SetToken persists a newly issued token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if err := s.repo().Set(ctx, common.AccessTokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Establish stores the token together with the username and login time in
// one transaction.
func (s *Session) Establish(ctx context.Context, token, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, token); err != nil {
			return err
		}
		if err := repo.Set(ctx, common.UsernameKey, username); err != nil {
			return err
		}
		return repo.Set(ctx, common.LoggedInAtKey, s.now().UTC().Format(time.RFC3339))
	})
}

// Clear removes the persisted token and the data stored alongside it.
func (s *Session) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		for _, key := range []string{common.AccessTokenKey, common.UsernameKey, common.LoggedInAtKey} {
			if err := repo.Delete(ctx, key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Expire clears the session and cancels the current epoch with ErrExpired.
// The epoch is replaced even if clearing the store fails.
func (s *Session) Expire(ctx context.Context) error {
	err := s.Clear(context.WithoutCancel(ctx))

	s.mu.Lock()
	s.cancel(ErrExpired)
	s.epoch, s.cancel = context.WithCancelCause(context.Background())
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear expired session: %w", err)
	}
	return nil
}

// Context returns the current epoch. It is canceled by the next Expire.
func (s *Session) Context() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Done is shorthand for Context().Done().
func (s *Session) Done() <-chan struct{} {
	return s.Context().Done()
}

// ExpiresAt decodes the expiry of the stored token. ok is false when there
// is no token or it cannot be decoded.
func (s *Session) ExpiresAt(ctx context.Context) (exp time.Time, ok bool) {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return time.Time{}, false
	}
	return TokenExpiry(token)
}

// IsAuthenticated reports whether a token is stored, decodes, and expires
// strictly after now. Every failure reads as "not authenticated".
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	exp, ok := s.ExpiresAt(ctx)
	if !ok {
		return false
	}
	return exp.After(s.now())
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the client never holds the signing key.
func TokenExpiry(token string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
