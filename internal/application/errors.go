package application

import "errors"

// Authentication errors.
var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrBadPassword        = errors.New("incorrect password")
	ErrInvalidUser        = errors.New("invalid user record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

// ErrPersist wraps storage write failures. The in-memory state has already
// changed when it is returned; a later successful save reconciles the two.
var ErrPersist = errors.New("persist failed")

// Device errors.
var (
	ErrDeviceNotFound = errors.New("device not found")
	ErrInvalidDevice  = errors.New("invalid device")
)

// ErrAssistantNotConfigured is returned when no language-model API key is set.
var ErrAssistantNotConfigured = errors.New("assistant API key not configured")

// ErrEmptyMessage is returned when the assistant is sent blank text.
var ErrEmptyMessage = errors.New("empty message")

// ErrInvalidSettings is returned when a settings change fails validation.
var ErrInvalidSettings = errors.New("invalid settings")
