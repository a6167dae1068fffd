package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// AppConfigStore defines the driven port for the application document.
type AppConfigStore interface {
	Load(ctx context.Context) (model.AppConfig, error)

	// Update loads the document, applies fn and writes the result. Nothing is
	// written when fn returns an error.
	Update(ctx context.Context, fn func(*model.AppConfig) error) error
}
