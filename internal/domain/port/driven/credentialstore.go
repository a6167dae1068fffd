package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// ErrStoreNotFound is returned by Load operations when the backing file or
// table has never been written.
var ErrStoreNotFound = errors.New("store not found")

// UserStore defines the driven port for user record persistence. The whole
// mapping is read and written at once; there are no partial updates.
type UserStore interface {
	// LoadUsers returns every persisted user keyed by username. Returns
	// ErrStoreNotFound when nothing has been persisted yet.
	LoadUsers(ctx context.Context) (map[string]model.User, error)

	// SaveUsers replaces the persisted mapping with users.
	SaveUsers(ctx context.Context, users map[string]model.User) error
}
