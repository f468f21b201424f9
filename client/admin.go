package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// adminStateFile is the fixed name the admin flag is persisted under.
const adminStateFile = "admin-mode.json"

// AdminGate is the client-side admin mode switch: a boolean persisted to a
// local file so it survives restarts, plus the server-issued admin token
// actually authorizing mutations. The flag alone only toggles mutation
// affordances in whatever renders the catalog; the server re-checks the
// token on every mutating request.
type AdminGate struct {
	path    string
	logger  zerolog.Logger
	confirm func(prompt string) bool

	mu    sync.Mutex
	state adminState
}

type adminState struct {
	Enabled   bool      `json:"enabled"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// AdminGateOption configures an AdminGate.
type AdminGateOption func(*AdminGate)

// WithConfirm sets the confirmation step destructive operations must pass.
// Without one, ConfirmDestructive denies.
func WithConfirm(confirm func(prompt string) bool) AdminGateOption {
	return func(g *AdminGate) {
		g.confirm = confirm
	}
}

// DefaultStatePath places the persisted flag under the user config dir.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "portfolio-catalog", adminStateFile), nil
}

// NewAdminGate loads the persisted admin state from path, if any. A missing
// or unreadable state file means admin mode off.
func NewAdminGate(path string, opts ...AdminGateOption) *AdminGate {
	g := &AdminGate{
		path:   path,
		logger: log.With().Str("component", "adminGate").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &g.state); err != nil {
			g.logger.Warn().Err(err).Msg("corrupt admin state file, starting disabled")
			g.state = adminState{}
		}
	}
	return g
}

// Enabled reports whether admin mode is on. An expired token switches the
// gate back off.
func (g *AdminGate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Enabled && !g.state.ExpiresAt.IsZero() && time.Now().After(g.state.ExpiresAt) {
		g.state = adminState{}
		g.persistLocked()
		return false
	}
	return g.state.Enabled
}

// Enable turns admin mode on with the credential returned by login and
// persists it.
func (g *AdminGate) Enable(token string, expiresAt time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = adminState{Enabled: true, Token: token, ExpiresAt: expiresAt}
	return g.persistLocked()
}

// Disable turns admin mode off, discarding the stored credential. This is
// the only way the persisted flag is cleared.
func (g *AdminGate) Disable() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = adminState{}
	return g.persistLocked()
}

// Token returns the stored admin credential, or "" when none is held.
func (g *AdminGate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Token
}

// ConfirmDestructive gates destructive operations behind the configured
// confirmation step. Without a confirmer it denies and logs.
func (g *AdminGate) ConfirmDestructive(prompt string) bool {
	if g.confirm == nil {
		g.logger.Warn().Str("prompt", prompt).Msg("no confirmation step configured, denying destructive operation")
		return false
	}
	return g.confirm(prompt)
}

func (g *AdminGate) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(g.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding admin state: %w", err)
	}
	if err := os.WriteFile(g.path, data, 0o600); err != nil {
		return fmt.Errorf("writing admin state: %w", err)
	}
	return nil
}
