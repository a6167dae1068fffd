package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock implementations ---

type mockUserStore struct {
	mu      sync.Mutex
	users   map[string]model.User
	loadErr error
	saveErr error
	saves   int
}

func (m *mockUserStore) LoadUsers(_ context.Context) (map[string]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]model.User, len(m.users))
	for k, v := range m.users {
		out[k] = v
	}
	return out, nil
}

func (m *mockUserStore) SaveUsers(_ context.Context, users map[string]model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.users = users
	return nil
}

type mockDeviceStore struct {
	mu      sync.Mutex
	saved   []model.Device
	saves   int
	saveErr error
}

func (m *mockDeviceStore) LoadDevices(_ context.Context) ([]model.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved, nil
}

func (m *mockDeviceStore) SaveDevices(_ context.Context, devices []model.Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = devices
	return nil
}

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: map[string]model.Session{}}
}

func (m *mockSessionStore) Put(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *mockSessionStore) Get(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockSessionStore) Delete(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok, nil
}

func (m *mockSessionStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type mockShellRunner struct {
	run   func(ctx context.Context, command string) (driven.ShellOutput, error)
	calls []string
}

func (m *mockShellRunner) Run(ctx context.Context, command string) (driven.ShellOutput, error) {
	m.calls = append(m.calls, command)
	return m.run(ctx, command)
}

type mockDeviceClient struct {
	fetchStatus func(ctx context.Context, d model.Device) (*model.StatusReport, error)
	dial        func(ctx context.Context, d model.Device) error
	execute     func(ctx context.Context, d model.Device, cmd model.RemoteCommand) (*model.RemoteResponse, error)

	mu    sync.Mutex
	calls int
}

func (m *mockDeviceClient) count() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

func (m *mockDeviceClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockDeviceClient) FetchStatus(ctx context.Context, d model.Device) (*model.StatusReport, error) {
	m.count()
	return m.fetchStatus(ctx, d)
}

func (m *mockDeviceClient) Dial(ctx context.Context, d model.Device) error {
	m.count()
	return m.dial(ctx, d)
}

func (m *mockDeviceClient) Execute(ctx context.Context, d model.Device, cmd model.RemoteCommand) (*model.RemoteResponse, error) {
	m.count()
	return m.execute(ctx, d, cmd)
}

type mockLanguageModel struct {
	reply    string
	err      error
	received [][]model.ChatMessage
}

func (m *mockLanguageModel) Complete(_ context.Context, messages []model.ChatMessage) (string, error) {
	m.received = append(m.received, append([]model.ChatMessage(nil), messages...))
	return m.reply, m.err
}

type mockAppConfigStore struct {
	mu      sync.Mutex
	cfg     model.AppConfig
	saveErr error
	writes  int
}

func (m *mockAppConfigStore) Load(_ context.Context) (model.AppConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, nil
}

func (m *mockAppConfigStore) Update(_ context.Context, fn func(*model.AppConfig) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.cfg
	if err := fn(&cfg); err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cfg = cfg
	m.writes++
	return nil
}

type mockSystemMetrics struct {
	mu     sync.Mutex
	status model.SystemStatus
	err    error
	delay  time.Duration
	calls  int
}

func (m *mockSystemMetrics) Collect(ctx context.Context) (model.SystemStatus, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return model.SystemStatus{}, ctx.Err()
		}
	}
	return m.status, m.err
}

func (m *mockSystemMetrics) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
