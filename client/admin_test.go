package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gateStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), adminStateFile)
}

func TestAdminGateStartsDisabled(t *testing.T) {
	gate := NewAdminGate(gateStatePath(t))
	assert.False(t, gate.Enabled())
	assert.Empty(t, gate.Token())
}

func TestAdminGatePersistsAcrossReload(t *testing.T) {
	path := gateStatePath(t)

	gate := NewAdminGate(path)
	require.NoError(t, gate.Enable("token-123", time.Now().Add(time.Hour)))
	require.True(t, gate.Enabled())

	// A fresh gate reading the same state file simulates a reload: the
	// persisted flag is read on initialization.
	reloaded := NewAdminGate(path)
	assert.True(t, reloaded.Enabled())
	assert.Equal(t, "token-123", reloaded.Token())
}

func TestAdminGateDisableClearsState(t *testing.T) {
	path := gateStatePath(t)

	gate := NewAdminGate(path)
	require.NoError(t, gate.Enable("token-123", time.Now().Add(time.Hour)))
	require.NoError(t, gate.Disable())

	assert.False(t, gate.Enabled())
	assert.Empty(t, gate.Token())

	reloaded := NewAdminGate(path)
	assert.False(t, reloaded.Enabled())
}

func TestAdminGateExpiredTokenDisables(t *testing.T) {
	gate := NewAdminGate(gateStatePath(t))
	require.NoError(t, gate.Enable("token-123", time.Now().Add(-time.Minute)))

	assert.False(t, gate.Enabled())
	assert.Empty(t, gate.Token())
}

func TestAdminGateCorruptStateFileStartsDisabled(t *testing.T) {
	path := gateStatePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	gate := NewAdminGate(path)
	assert.False(t, gate.Enabled())
}

func TestConfirmDestructive(t *testing.T) {
	// Without a confirmer, destructive operations are denied.
	gate := NewAdminGate(gateStatePath(t))
	assert.False(t, gate.ConfirmDestructive("delete everything"))

	var prompted string
	gate = NewAdminGate(gateStatePath(t), WithConfirm(func(prompt string) bool {
		prompted = prompt
		return true
	}))
	assert.True(t, gate.ConfirmDestructive("delete project X"))
	assert.Equal(t, "delete project X", prompted)
}
