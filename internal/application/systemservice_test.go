package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/application"
	"github.com/ericfisherdev/homepanel/internal/domain/model"
)

func TestSystemService_CachesWithinTTL(t *testing.T) {
	metrics := &mockSystemMetrics{status: model.SystemStatus{
		Memory: model.MemoryStatus{Percent: 42, UsedMB: 420, TotalMB: 1000},
	}}
	svc := application.NewSystemService(metrics, time.Hour, testLogger())
	ctx := context.Background()

	first, err := svc.Status(ctx)
	require.NoError(t, err)
	second, err := svc.Status(ctx)
	require.NoError(t, err)

	assert.InDelta(t, 42, first.Memory.Percent, 1e-9)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, metrics.callCount())
}

func TestSystemService_RefreshesAfterTTL(t *testing.T) {
	metrics := &mockSystemMetrics{}
	svc := application.NewSystemService(metrics, time.Millisecond, testLogger())
	ctx := context.Background()

	_, err := svc.Status(ctx)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = svc.Status(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, metrics.callCount())
}

func TestSystemService_PartialFailureStillServes(t *testing.T) {
	metrics := &mockSystemMetrics{
		status: model.SystemStatus{Info: model.SystemInfo{Hostname: "panel"}},
		err:    errors.New("battery: permission denied"),
	}
	svc := application.NewSystemService(metrics, time.Hour, testLogger())

	st, err := svc.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "panel", st.Info.Hostname)
}

func TestSystemService_ConcurrentCallersShareCollection(t *testing.T) {
	metrics := &mockSystemMetrics{delay: 50 * time.Millisecond}
	svc := application.NewSystemService(metrics, time.Hour, testLogger())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Status(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, metrics.callCount())
}

func TestSystemService_CanceledContext(t *testing.T) {
	metrics := &mockSystemMetrics{delay: time.Second}
	svc := application.NewSystemService(metrics, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Status(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
