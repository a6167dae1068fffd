package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// DefaultSessionTimeout is the sliding idle window of a session.
const DefaultSessionTimeout = time.Hour

const tokenBytes = 32

// SessionService issues and validates opaque session tokens. Expiry is
// sliding: each successful Validate pushes ExpiresAt forward. Expired sessions
// are only removed when their token is looked up again.
type SessionService struct {
	creds   *CredentialService
	store   driven.SessionStore
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	// mu makes check-then-extend in Validate atomic with respect to Logout.
	mu sync.Mutex
}

// NewSessionService creates a SessionService. A non-positive timeout selects
// DefaultSessionTimeout.
func NewSessionService(creds *CredentialService, store driven.SessionStore, timeout time.Duration, logger *slog.Logger) *SessionService {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &SessionService{
		creds:   creds,
		store:   store,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Timeout returns the configured idle window.
func (s *SessionService) Timeout() time.Duration {
	return s.timeout
}

// Authenticate verifies the credentials and returns a new active session.
// Every failure wraps ErrInvalidCredentials; the specific cause (ErrUserNotFound
// or ErrBadPassword) stays reachable through errors.Is for in-process callers
// but must not be shown to clients.
func (s *SessionService) Authenticate(ctx context.Context, username, password string) (*model.Session, error) {
	if err := s.creds.VerifyPassword(ctx, username, password); err != nil {
		s.logger.Warn("login failed", "username", username, "reason", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}

	user, _ := s.creds.Lookup(username)
	now := s.now()

	if err := s.creds.UpdateLastLogin(ctx, username, now); err != nil {
		s.logger.Error("failed to record last login", "username", username, "error", err)
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	session := model.Session{
		Token:     token,
		Username:  username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.timeout),
	}
	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("login succeeded", "username", username, "role", user.Role)
	return &session, nil
}

// Validate returns the session for token and extends its expiry. An expired
// session is deleted and reported as ErrSessionExpired; unknown tokens give
// ErrInvalidSession.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.store.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil {
		return nil, ErrInvalidSession
	}

	now := s.now()
	if session.Expired(now) {
		if _, err := s.store.Delete(ctx, token); err != nil {
			s.logger.Error("failed to delete expired session", "username", session.Username, "error", err)
		}
		return nil, ErrSessionExpired
	}

	session.ExpiresAt = now.Add(s.timeout)
	if err := s.store.Put(ctx, *session); err != nil {
		return nil, fmt.Errorf("extend session: %w", err)
	}

	return session, nil
}

// Logout removes the session and reports whether one was present.
func (s *SessionService) Logout(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.store.Delete(ctx, token)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return existed, nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
