//go:build unix

package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/homepanel/internal/adapter/driven/shell"
)

func TestRunner_CapturesOutput(t *testing.T) {
	out, err := shell.NewRunner().Run(context.Background(), "echo hello; echo oops >&2")

	require.NoError(t, err)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)
	assert.Equal(t, 0, out.ExitCode)
}

func TestRunner_NonZeroExitIsNotError(t *testing.T) {
	out, err := shell.NewRunner().Run(context.Background(), "exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
}

func TestRunner_PipelinesRunThroughShell(t *testing.T) {
	out, err := shell.NewRunner().Run(context.Background(), "printf 'a\\nb\\nc\\n' | head -2")

	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out.Stdout)
}

func TestRunner_TimeoutKillsProcessGroup(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := shell.NewRunner().Run(ctx, "sleep 30 & echo $! > "+pidFile+"; wait")

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	data, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)

	// The background sleep shared the shell's process group.
	assert.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 20*time.Millisecond)
}

// processAlive treats zombies as dead since the reparented child may never be
// reaped inside a container.
func processAlive(pid int) bool {
	if stat, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/stat"); err == nil {
		if i := strings.LastIndexByte(string(stat), ')'); i >= 0 && i+2 < len(stat) {
			return stat[i+2] != 'Z'
		}
	}
	return syscall.Kill(pid, 0) == nil
}
