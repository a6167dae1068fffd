package application

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// DefaultSystemStatusTTL is how long a host snapshot is reused.
const DefaultSystemStatusTTL = 5 * time.Second

// SystemService serves host resource snapshots. Collection samples the CPU
// for a fraction of a second, so snapshots are cached for a short TTL and
// concurrent callers share one collection.
type SystemService struct {
	metrics driven.SystemMetrics
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
	group   singleflight.Group

	mu     sync.Mutex
	cached *model.SystemStatus
	at     time.Time
}

// NewSystemService creates a SystemService. A non-positive ttl selects
// DefaultSystemStatusTTL.
func NewSystemService(metrics driven.SystemMetrics, ttl time.Duration, logger *slog.Logger) *SystemService {
	if ttl <= 0 {
		ttl = DefaultSystemStatusTTL
	}
	return &SystemService{
		metrics: metrics,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Status returns a recent snapshot. Sections the collector could not read
// are logged and left zero; only a canceled ctx is an error.
func (s *SystemService) Status(ctx context.Context) (model.SystemStatus, error) {
	if st, ok := s.fresh(); ok {
		return st, nil
	}

	v, err, _ := s.group.Do("status", func() (any, error) {
		if st, ok := s.fresh(); ok {
			return st, nil
		}
		st, err := s.metrics.Collect(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			s.logger.Warn("system metrics incomplete", "error", err)
		}

		s.mu.Lock()
		s.cached = &st
		s.at = s.now()
		s.mu.Unlock()
		return st, nil
	})
	if err != nil {
		return model.SystemStatus{}, err
	}
	return v.(model.SystemStatus), nil
}

func (s *SystemService) fresh() (model.SystemStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || s.now().Sub(s.at) >= s.ttl {
		return model.SystemStatus{}, false
	}
	return *s.cached, true
}
