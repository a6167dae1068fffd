package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// SessionStore defines the driven port for session persistence. The shipped
// implementation is in-memory, so sessions do not survive a restart.
type SessionStore interface {
	Put(ctx context.Context, session model.Session) error

	// Get returns the session for token, or (nil, nil) if it does not exist.
	Get(ctx context.Context, token string) (*model.Session, error)

	// Delete removes the session and reports whether it existed.
	Delete(ctx context.Context, token string) (bool, error)
}
