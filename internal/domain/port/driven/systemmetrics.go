package driven

import (
	"context"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

// SystemMetrics defines the driven port for reading host resources.
type SystemMetrics interface {
	// Collect reads every section it can. The returned error, when non-nil,
	// describes the sections that failed; the status is still usable.
	Collect(ctx context.Context) (model.SystemStatus, error)
}
