package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/argon2"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

const (
	saltBytes  = 16
	hashScheme = "argon2id$"

	// argon2id parameters (RFC 9106 second recommended option, reduced memory).
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
)

// CredentialService owns the user records. Every mutation rewrites the whole
// mapping through the UserStore.
type CredentialService struct {
	store  driven.UserStore
	logger *slog.Logger
	now    func() time.Time

	mu    sync.RWMutex
	users map[string]model.User
}

// NewCredentialService creates a CredentialService with an empty user set.
// Call Load before use.
func NewCredentialService(store driven.UserStore, logger *slog.Logger) *CredentialService {
	return &CredentialService{
		store:  store,
		logger: logger,
		now:    time.Now,
		users:  map[string]model.User{},
	}
}

// Load replaces the in-memory users with the persisted mapping. A missing
// store is created empty. Any other read error leaves the service empty and is
// only logged.
func (s *CredentialService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	switch {
	case errors.Is(err, driven.ErrStoreNotFound):
		s.users = map[string]model.User{}
		s.logger.Warn("user store not found, creating empty store")
		if err := s.store.SaveUsers(ctx, s.users); err != nil {
			s.logger.Error("failed to create user store", "error", err)
		}
		return
	case err != nil:
		s.users = map[string]model.User{}
		s.logger.Error("failed to load users", "error", err)
		return
	}

	if users == nil {
		users = map[string]model.User{}
	}
	s.users = users
	s.logger.Info("users loaded", "count", len(users))
}

// HasUsers reports whether at least one user exists.
func (s *CredentialService) HasUsers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users) > 0
}

// Lookup returns a copy of the named user record.
func (s *CredentialService) Lookup(username string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if ok {
		u.LastLoginAt = copyTime(u.LastLoginAt)
	}
	return u, ok
}

// AddUser creates a user with a freshly salted password hash and persists the
// mapping.
func (s *CredentialService) AddUser(ctx context.Context, username, password string, role model.Role) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidUser)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, role)
	}

	salt, err := newSalt()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return fmt.Errorf("add user %q: %w", username, ErrDuplicateUser)
	}

	s.users[username] = model.User{
		Username:     username,
		PasswordHash: hashPassword(password, salt),
		Salt:         salt,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.persistLocked(ctx); err != nil {
		return fmt.Errorf("add user %q: %w", username, err)
	}

	s.logger.Info("user created", "username", username, "role", role)
	return nil
}

// VerifyPassword checks password against the stored hash. It does not mutate
// any state.
func (s *CredentialService) VerifyPassword(_ context.Context, username, password string) error {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	if !ok {
		return ErrUserNotFound
	}
	if !checkPassword(user, password) {
		return ErrBadPassword
	}
	return nil
}

// UpdateLastLogin records a successful login time and persists the mapping.
func (s *CredentialService) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}

	at = at.UTC()
	user.LastLoginAt = &at
	s.users[username] = user

	if err := s.persistLocked(ctx); err != nil {
		return fmt.Errorf("update last login %q: %w", username, err)
	}
	return nil
}

// ChangePassword verifies oldPassword and rotates both the hash and the salt.
func (s *CredentialService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidUser)
	}
	if err := s.VerifyPassword(ctx, username, oldPassword); err != nil {
		return err
	}
	if err := s.setPassword(ctx, username, newPassword); err != nil {
		return fmt.Errorf("change password %q: %w", username, err)
	}

	s.logger.Info("password changed", "username", username)
	return nil
}

// ResetPassword replaces the password without checking the old one. It is
// meant for operator tooling, not for the HTTP surface.
func (s *CredentialService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrInvalidUser)
	}
	if err := s.setPassword(ctx, username, newPassword); err != nil {
		return fmt.Errorf("reset password %q: %w", username, err)
	}

	s.logger.Warn("password reset", "username", username)
	return nil
}

// setPassword rotates the salt and hash of an existing user and persists.
func (s *CredentialService) setPassword(ctx context.Context, username, password string) error {
	salt, err := newSalt()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	user.Salt = salt
	user.PasswordHash = hashPassword(password, salt)
	s.users[username] = user

	return s.persistLocked(ctx)
}

// persistLocked writes a copy of the mapping. Caller must hold s.mu.
func (s *CredentialService) persistLocked(ctx context.Context) error {
	snapshot := make(map[string]model.User, len(s.users))
	for k, v := range s.users {
		snapshot[k] = v
	}

	if err := s.store.SaveUsers(ctx, snapshot); err != nil {
		s.logger.Error("failed to save users", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func newSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashPassword derives an argon2id hash of password salted with salt.
func hashPassword(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hashScheme + hex.EncodeToString(key)
}

// checkPassword compares in constant time. Hashes without the scheme prefix
// are legacy sha256(password + salt) digests.
func checkPassword(user model.User, password string) bool {
	var computed string
	if strings.HasPrefix(user.PasswordHash, hashScheme) {
		computed = hashPassword(password, user.Salt)
	} else {
		sum := sha256.Sum256([]byte(password + user.Salt))
		computed = hex.EncodeToString(sum[:])
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(user.PasswordHash)) == 1
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
