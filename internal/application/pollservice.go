// Package application contains use-case orchestration services.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Poller defaults.
const (
	DefaultPollInterval = 30 * time.Second
	DefaultProbeTimeout = 2 * time.Second

	pollStopTimeout  = 2 * time.Second
	maxParallelProbe = 8
)

// ErrPollerStopped is returned by PollNow when the loop exits before serving
// the request.
var ErrPollerStopped = errors.New("device poller stopped")

// pollRequest represents a manual poll trigger.
type pollRequest struct {
	done chan struct{}
}

// pollLoop is one run of the background loop. Each Start gets its own so a
// loop that ended with its parent context never shares state with the next.
type pollLoop struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	refresh chan pollRequest
}

func (l *pollLoop) active() bool {
	return l != nil && l.ctx.Err() == nil
}

// DevicePoller periodically probes every registered device and records the
// outcome in the DeviceRegistry. Probes within a cycle run concurrently and
// independently: a slow or failing device never affects another's result.
type DevicePoller struct {
	registry     *DeviceRegistry
	client       driven.DeviceClient
	interval     time.Duration
	probeTimeout time.Duration
	logger       *slog.Logger

	mu   sync.Mutex
	loop *pollLoop
}

// NewDevicePoller creates a DevicePoller. Non-positive durations select the
// package defaults.
func NewDevicePoller(
	registry *DeviceRegistry,
	client driven.DeviceClient,
	interval time.Duration,
	probeTimeout time.Duration,
	logger *slog.Logger,
) *DevicePoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &DevicePoller{
		registry:     registry,
		client:       client,
		interval:     interval,
		probeTimeout: probeTimeout,
		logger:       logger,
	}
}

// Start launches the polling loop in the background. It polls immediately and
// then on every interval until Stop is called or ctx is canceled. Calling
// Start while the loop is running is a no-op. After ctx is canceled the
// poller can be started again.
func (p *DevicePoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loop.active() {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	loop := &pollLoop{
		ctx:     loopCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		refresh: make(chan pollRequest),
	}
	p.loop = loop

	go p.run(loop)
	p.logger.Info("device poller started", "interval", p.interval)
}

// Stop cancels the polling loop and waits up to two seconds for it to exit.
// It is safe to call repeatedly and without a prior Start.
func (p *DevicePoller) Stop() {
	p.mu.Lock()
	loop := p.loop
	p.loop = nil
	p.mu.Unlock()

	if loop == nil {
		return
	}

	loop.cancel()

	select {
	case <-loop.done:
		p.logger.Info("device poller stopped")
	case <-time.After(pollStopTimeout):
		p.logger.Warn("device poller did not stop in time", "timeout", pollStopTimeout)
	}
}

// Running reports whether the polling loop is active.
func (p *DevicePoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loop.active()
}

// PollNow runs a poll cycle outside the regular interval and blocks until it
// completes or ctx is canceled. When the loop is not running the cycle runs on
// the caller's goroutine.
func (p *DevicePoller) PollNow(ctx context.Context) error {
	p.mu.Lock()
	loop := p.loop
	p.mu.Unlock()

	if !loop.active() {
		p.PollOnce(ctx)
		return nil
	}

	req := pollRequest{done: make(chan struct{})}

	select {
	case loop.refresh <- req:
	case <-loop.done:
		return ErrPollerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *DevicePoller) run(loop *pollLoop) {
	defer func() {
		p.mu.Lock()
		if p.loop == loop {
			p.loop = nil
		}
		p.mu.Unlock()
		loop.cancel()
		close(loop.done)
	}()

	ctx := loop.ctx
	p.PollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		case req := <-loop.refresh:
			p.PollOnce(ctx)
			close(req.done)
		}
	}
}

// PollOnce probes every registered device once and records the results.
func (p *DevicePoller) PollOnce(ctx context.Context) {
	start := time.Now()
	devices := p.registry.Devices()

	var (
		g              errgroup.Group
		mu             sync.Mutex
		online, failed int
	)
	g.SetLimit(maxParallelProbe)

	for _, device := range devices {
		g.Go(func() error {
			health := p.probe(ctx, device)
			p.registry.SetHealth(device.Name, health)

			mu.Lock()
			if health.Online {
				online++
			}
			if health.LastError != nil {
				failed++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	p.logger.Info("poll cycle complete",
		"devices", len(devices),
		"online", online,
		"errors", failed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

// probe checks a single device. Any failure, including a panic in the
// client, is captured in the returned health.
func (p *DevicePoller) probe(ctx context.Context, device model.Device) (health model.DeviceHealth) {
	health.LastCheckedAt = time.Now().UTC()

	defer func() {
		if v := recover(); v != nil {
			health.Online = false
			health.RemoteInfo = nil
			health.LastError = errorText(fmt.Errorf("probe panic: %v", v))
			p.logger.Error("device probe panicked", "device", device.Name, "panic", v)
		}
	}()

	probeCtx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	switch device.Kind {
	case model.DeviceKindAPI:
		report, err := p.client.FetchStatus(probeCtx, device)
		if err != nil {
			health.LastError = errorText(err)
			break
		}
		health.Online = report.StatusCode == http.StatusOK
		if health.Online {
			health.RemoteInfo = report.Info
		}
	default:
		if err := p.client.Dial(probeCtx, device); err != nil {
			health.LastError = errorText(err)
			break
		}
		health.Online = true
	}

	if health.LastError != nil {
		p.logger.Warn("device check failed", "device", device.Name, "error", *health.LastError)
	}
	return health
}

func errorText(err error) *string {
	msg := err.Error()
	return &msg
}
