package hostmetrics

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector_LiveHost(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("collector test reads linux /proc and /sys")
	}

	c := &Collector{sampleInterval: 50 * time.Millisecond, sysfsRoot: t.TempDir()}
	st, err := c.Collect(context.Background())
	if err != nil {
		t.Logf("partial collection: %v", err)
	}

	assert.Positive(t, st.Memory.TotalMB)
	assert.Positive(t, st.CPU.Cores)
	assert.NotEmpty(t, st.Info.Hostname)
	assert.GreaterOrEqual(t, st.CPU.Percent, 0.0)
	assert.False(t, st.Battery.Present, "empty sysfs root has no battery")
	assert.WithinDuration(t, time.Now(), st.CollectedAt, time.Minute)
}
