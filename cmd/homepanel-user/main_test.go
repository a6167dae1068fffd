package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfigEnv unsets every HOMEPANEL_* variable for the duration of the
// test so the host environment cannot leak into config.Load.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, "HOMEPANEL_") {
			continue
		}
		orig := os.Getenv(key)
		t.Cleanup(func() { os.Setenv(key, orig) })
		os.Unsetenv(key)
	}
}

func TestRun_AddAndListJSON(t *testing.T) {
	isolateConfigEnv(t)
	usersPath := filepath.Join(t.TempDir(), "users.json")

	var out bytes.Buffer
	err := run([]string{"add", "-u", "alice", "--role", "ADMIN", "--users", usersPath}, strings.NewReader("s3cret\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created alice (admin)")

	out.Reset()
	require.NoError(t, run([]string{"list", "--users", usersPath}, nil, &out))
	assert.Contains(t, out.String(), "alice")
	assert.Contains(t, out.String(), "admin")
	assert.Contains(t, out.String(), "never")
}

func TestRun_AddSQLite(t *testing.T) {
	isolateConfigEnv(t)
	dbPath := filepath.Join(t.TempDir(), "panel.db")

	var out bytes.Buffer
	require.NoError(t, run([]string{"add", "-u", "bob", "-p", "pw", "--store", "sqlite", "--db", dbPath}, nil, &out))

	out.Reset()
	require.NoError(t, run([]string{"list", "--store", "sqlite", "--db", dbPath}, nil, &out))
	assert.Contains(t, out.String(), "bob")
	assert.Contains(t, out.String(), "user")
}

func TestRun_Errors(t *testing.T) {
	isolateConfigEnv(t)
	usersPath := filepath.Join(t.TempDir(), "users.json")

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{name: "no subcommand", args: nil, wantErr: "missing subcommand"},
		{name: "unknown subcommand", args: []string{"remove"}, wantErr: "unknown subcommand"},
		{name: "missing username", args: []string{"add", "--users", usersPath}, wantErr: "--username is required"},
		{name: "empty stdin password", args: []string{"add", "-u", "carol", "--users", usersPath}, stdin: "\n", wantErr: "empty password"},
		{name: "bad role", args: []string{"add", "-u", "carol", "-p", "x", "-r", "root", "--users", usersPath}, wantErr: "unknown role"},
		{name: "bad store", args: []string{"list", "--store", "redis"}, wantErr: "unknown store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(tt.args, strings.NewReader(tt.stdin), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_DuplicateUser(t *testing.T) {
	isolateConfigEnv(t)
	usersPath := filepath.Join(t.TempDir(), "users.json")

	var out bytes.Buffer
	require.NoError(t, run([]string{"add", "-u", "dave", "-p", "pw", "--users", usersPath}, nil, &out))
	err := run([]string{"add", "-u", "dave", "-p", "pw", "--users", usersPath}, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_Passwd(t *testing.T) {
	isolateConfigEnv(t)
	usersPath := filepath.Join(t.TempDir(), "users.json")

	var out bytes.Buffer
	require.NoError(t, run([]string{"add", "-u", "erin", "-p", "old", "--users", usersPath}, nil, &out))

	out.Reset()
	require.NoError(t, run([]string{"passwd", "-u", "erin", "--users", usersPath}, strings.NewReader("new\n"), &out))
	assert.Contains(t, out.String(), "password updated for erin")

	err := run([]string{"passwd", "-u", "nobody", "-p", "x", "--users", usersPath}, nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestRun_HelpWarnsAboutRunningServer(t *testing.T) {
	isolateConfigEnv(t)

	var out bytes.Buffer
	require.NoError(t, run([]string{"help"}, nil, &out))

	assert.Contains(t, out.String(), "Stop the homepanel server before add or passwd")
}
