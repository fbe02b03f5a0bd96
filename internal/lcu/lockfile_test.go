package lcu

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLockfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1234:54321:hunter2:https\n"), 0644))

	creds, err := ParseLockfile(path)
	require.NoError(t, err)
	assert.Equal(t, &Credentials{
		ProcessName: "LeagueClient",
		PID:         "1234",
		Port:        "54321",
		Password:    "hunter2",
		Protocol:    "https",
	}, creds)
}

func TestParseLockfile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1234"), 0644))

	_, err := ParseLockfile(path)
	assert.Error(t, err)

	_, err = ParseLockfile(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFindLockfile_InstallDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lockfile"), []byte("a:b:c:d:e"), 0644))

	path, err := FindLockfile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lockfile"), path)
}

func TestWaitForLockfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lockfile")

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("LeagueClient:1:2999:pw:https"), 0644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	creds, err := WaitForLockfile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "2999", creds.Port)
}

func TestWaitForLockfile_AlreadyPresent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockfile")
	require.NoError(t, os.WriteFile(path, []byte("LeagueClient:1:3000:pw:https"), 0644))

	creds, err := WaitForLockfile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "3000", creds.Port)
}

func TestWaitForLockfile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := WaitForLockfile(ctx, filepath.Join(t.TempDir(), "lockfile"))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
